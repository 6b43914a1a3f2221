package nutrition

import (
	"fmt"
	"time"
)

// MaxPlanDays caps a single generate request.
const MaxPlanDays = 14

// MacroTotals is a calorie and macro sum.
type MacroTotals struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatG     float64 `json:"fatG"`
}

func (t *MacroTotals) add(m MealTemplate) {
	t.Calories += m.Calories
	t.ProteinG += m.ProteinG
	t.CarbsG += m.CarbsG
	t.FatG += m.FatG
}

// PlannedMeal is a catalog template assigned to a slot of a day.
type PlannedMeal struct {
	Slot MealSlot     `json:"mealSlot"`
	Meal MealTemplate `json:"meal"`
}

// MealPlanDay is one generated day. Totals are always the sum of Meals.
type MealPlanDay struct {
	Date   DateOnly      `json:"date"`
	Meals  []PlannedMeal `json:"meals"`
	Totals MacroTotals   `json:"totals"`
}

// Recalculate rebuilds Totals from Meals.
func (d *MealPlanDay) Recalculate() {
	d.Totals = MacroTotals{}
	for _, m := range d.Meals {
		d.Totals.add(m.Meal)
	}
}

// EmptyPlanDay is returned for dates with no saved plan.
func EmptyPlanDay(date DateOnly) MealPlanDay {
	return MealPlanDay{Date: date, Meals: []PlannedMeal{}}
}

// SavedMealPlan is a persisted day along with the profile and targets it was
// generated for. Later profile changes never rewrite it.
type SavedMealPlan struct {
	MealPlanDay
	Profile UserProfile     `json:"profileSnapshot"`
	Targets ComputedTargets `json:"targets"`
}

// SnapshotPlan attaches the profile and its current targets to a day for saving.
func SnapshotPlan(day MealPlanDay, p UserProfile) (SavedMealPlan, error) {
	targets, err := ComputeTargets(p)
	if err != nil {
		return SavedMealPlan{}, err
	}
	day.Recalculate()
	return SavedMealPlan{MealPlanDay: day, Profile: p, Targets: targets}, nil
}

// SlotsFor returns the slots of a day with mealsPerDay meals: breakfast, lunch
// and dinner, then one snack per extra meal.
func SlotsFor(mealsPerDay int) []MealSlot {
	slots := []MealSlot{SlotBreakfast, SlotLunch, SlotDinner}
	for i := MinMealsPerDay; i < mealsPerDay; i++ {
		slots = append(slots, SlotSnack)
	}
	return slots
}

// Generator assembles meal plans from catalog draws. No search is done to hit
// the calorie target; templates are pre-portioned.
type Generator struct {
	selector *Selector
	now      func() time.Time
}

// NewGenerator creates a Generator. A nil clock means time.Now.
func NewGenerator(selector *Selector, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{selector: selector, now: now}
}

// GeneratePlan draws days independent days starting today. Repeats across
// days are allowed.
func (g *Generator) GeneratePlan(p UserProfile, days, mealsPerDay int) ([]MealPlanDay, error) {
	var v validator
	if days < 1 || days > MaxPlanDays {
		v.add("days", fmt.Sprintf("must be between 1 and %d", MaxPlanDays))
	}
	if mealsPerDay < MinMealsPerDay || mealsPerDay > MaxMealsPerDay {
		v.add("mealsPerDay", fmt.Sprintf("must be between %d and %d", MinMealsPerDay, MaxMealsPerDay))
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	// The profile's own mealsPerDay is a preference; the request value wins.
	p.MealsPerDay = mealsPerDay
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := NewDate(g.now())
	slots := SlotsFor(mealsPerDay)
	plan := make([]MealPlanDay, 0, days)
	for i := 0; i < days; i++ {
		day := MealPlanDay{Date: start.AddDays(i), Meals: make([]PlannedMeal, 0, len(slots))}
		for _, slot := range slots {
			meal, err := g.selector.Pick(p.DietType, slot)
			if err != nil {
				return nil, err
			}
			day.Meals = append(day.Meals, PlannedMeal{Slot: slot, Meal: meal})
		}
		day.Recalculate()
		plan = append(plan, day)
	}
	return plan, nil
}
