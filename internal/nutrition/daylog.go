package nutrition

import (
	"math"
	"slices"
	"strings"
)

// MealLogItem is one logged food within a meal.
type MealLogItem struct {
	Title    string   `json:"title"`
	Qty      float64  `json:"qty"`
	Unit     string   `json:"unit"`
	Calories float64  `json:"calories"`
	ProteinG *float64 `json:"proteinG,omitempty"`
	CarbsG   *float64 `json:"carbsG,omitempty"`
	FatG     *float64 `json:"fatG,omitempty"`
}

// MealLogEntry is a logged meal. ID is assigned by the server.
type MealLogEntry struct {
	ID            int           `json:"id"            db:"id"`
	Date          DateOnly      `json:"date"          db:"date"`
	MealType      MealSlot      `json:"mealType"      db:"meal_type"`
	Items         []MealLogItem `json:"items"         db:"items"`
	TotalCalories float64       `json:"totalCalories" db:"total_calories"`
}

// NewMealLogEntry validates a meal and computes its total from the items.
func NewMealLogEntry(date DateOnly, mealType MealSlot, items []MealLogItem) (MealLogEntry, error) {
	var v validator
	if date.IsZero() {
		v.add("date", "is required")
	}
	if !mealType.Valid() {
		v.add("mealType", "must be one of: breakfast, lunch, dinner, snack")
	}
	if len(items) == 0 {
		v.add("items", "at least one item is required")
	}
	for _, it := range items {
		if strings.TrimSpace(it.Title) == "" {
			v.add("items.title", "is required")
			break
		}
		if it.Calories < 0 || math.IsNaN(it.Calories) {
			v.add("items.calories", "must not be negative")
			break
		}
	}
	if err := v.err(); err != nil {
		return MealLogEntry{}, err
	}

	entry := MealLogEntry{Date: date, MealType: mealType, Items: items}
	for _, it := range items {
		entry.TotalCalories += it.Calories
	}
	return entry, nil
}

// Macros sums the optional item macros; missing values count as zero.
func (e MealLogEntry) Macros() (protein, carbs, fat float64) {
	for _, it := range e.Items {
		if it.ProteinG != nil {
			protein += *it.ProteinG
		}
		if it.CarbsG != nil {
			carbs += *it.CarbsG
		}
		if it.FatG != nil {
			fat += *it.FatG
		}
	}
	return protein, carbs, fat
}

// MealGroup is the items logged under one meal type on a day.
type MealGroup struct {
	MealType MealSlot      `json:"mealType"`
	Calories float64       `json:"calories"`
	Items    []MealLogItem `json:"items"`
}

// DaySummary is the consumed total for a date and its per-meal breakdown.
type DaySummary struct {
	Date             DateOnly    `json:"date"`
	CaloriesConsumed float64     `json:"caloriesConsumed"`
	MealBreakdown    []MealGroup `json:"mealBreakdown"`
}

// SummarizeDay sums the entries logged on date and groups their items by meal
// type. Entries for other dates are ignored. Nothing is cached, so callers see
// deletions as soon as the entry is gone from the slice they pass.
func SummarizeDay(date DateOnly, entries []MealLogEntry) DaySummary {
	summary := DaySummary{Date: date, MealBreakdown: []MealGroup{}}
	groups := map[MealSlot]*MealGroup{}
	for _, e := range entries {
		if !e.Date.Equal(date.Time) {
			continue
		}
		summary.CaloriesConsumed += e.TotalCalories
		g, ok := groups[e.MealType]
		if !ok {
			g = &MealGroup{MealType: e.MealType, Items: []MealLogItem{}}
			groups[e.MealType] = g
		}
		g.Calories += e.TotalCalories
		g.Items = append(g.Items, e.Items...)
	}

	types := make([]MealSlot, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	slices.SortFunc(types, compareMealTypes)
	for _, t := range types {
		summary.MealBreakdown = append(summary.MealBreakdown, *groups[t])
	}
	return summary
}

// compareMealTypes orders known slots first in day order, then others by name.
func compareMealTypes(a, b MealSlot) int {
	ia, ib := slices.Index(MealSlots, a), slices.Index(MealSlots, b)
	switch {
	case ia >= 0 && ib >= 0:
		return ia - ib
	case ia >= 0:
		return -1
	case ib >= 0:
		return 1
	}
	return strings.Compare(string(a), string(b))
}
