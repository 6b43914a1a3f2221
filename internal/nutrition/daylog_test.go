package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func mustEntry(t *testing.T, id int, date string, mealType MealSlot, items ...MealLogItem) MealLogEntry {
	t.Helper()
	e, err := NewMealLogEntry(MustParseDate(date), mealType, items)
	require.NoError(t, err)
	e.ID = id
	return e
}

func TestNewMealLogEntry_SumsItemCalories(t *testing.T) {
	e, err := NewMealLogEntry(MustParseDate("2026-10-19"), SlotLunch, []MealLogItem{
		{Title: "Rice", Qty: 1, Unit: "cup", Calories: 205},
		{Title: "Chicken", Qty: 150, Unit: "g", Calories: 247.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 452.5, e.TotalCalories)
}

func TestNewMealLogEntry_Validation(t *testing.T) {
	cases := []struct {
		name     string
		date     DateOnly
		mealType MealSlot
		items    []MealLogItem
		field    string
	}{
		{"missing date", DateOnly{}, SlotLunch, []MealLogItem{{Title: "x", Calories: 1}}, "date"},
		{"bad meal type", MustParseDate("2026-10-19"), "brunch", []MealLogItem{{Title: "x", Calories: 1}}, "mealType"},
		{"no items", MustParseDate("2026-10-19"), SlotLunch, nil, "items"},
		{"blank title", MustParseDate("2026-10-19"), SlotLunch, []MealLogItem{{Title: "  ", Calories: 1}}, "items.title"},
		{"negative calories", MustParseDate("2026-10-19"), SlotLunch, []MealLogItem{{Title: "x", Calories: -5}}, "items.calories"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMealLogEntry(tc.date, tc.mealType, tc.items)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Errors[0].Field)
		})
	}
}

func TestSummarizeDay_TwoMealsThenDelete(t *testing.T) {
	logs := []MealLogEntry{
		mustEntry(t, 1, "2026-10-19", SlotBreakfast, MealLogItem{Title: "Oats", Calories: 300}),
		mustEntry(t, 2, "2026-10-19", SlotLunch, MealLogItem{Title: "Bowl", Calories: 450}),
	}
	day := MustParseDate("2026-10-19")

	assert.Equal(t, 750.0, SummarizeDay(day, logs).CaloriesConsumed)

	// Entry 1 deleted; the next call sees only what remains.
	logs = logs[1:]
	got := SummarizeDay(day, logs)
	assert.Equal(t, 450.0, got.CaloriesConsumed)
	require.Len(t, got.MealBreakdown, 1)
	assert.Equal(t, SlotLunch, got.MealBreakdown[0].MealType)
}

func TestSummarizeDay_GroupsBySlotOrder(t *testing.T) {
	logs := []MealLogEntry{
		mustEntry(t, 1, "2026-10-19", SlotSnack, MealLogItem{Title: "Apple", Calories: 95}),
		mustEntry(t, 2, "2026-10-19", SlotDinner, MealLogItem{Title: "Pasta", Calories: 600}),
		mustEntry(t, 3, "2026-10-19", SlotBreakfast, MealLogItem{Title: "Eggs", Calories: 150}, MealLogItem{Title: "Toast", Calories: 120}),
		mustEntry(t, 4, "2026-10-19", SlotSnack, MealLogItem{Title: "Nuts", Calories: 170}),
		mustEntry(t, 5, "2026-10-20", SlotLunch, MealLogItem{Title: "Tomorrow", Calories: 999}),
	}

	got := SummarizeDay(MustParseDate("2026-10-19"), logs)

	assert.Equal(t, 1135.0, got.CaloriesConsumed)
	require.Len(t, got.MealBreakdown, 3)
	assert.Equal(t, SlotBreakfast, got.MealBreakdown[0].MealType)
	assert.Equal(t, 270.0, got.MealBreakdown[0].Calories)
	assert.Len(t, got.MealBreakdown[0].Items, 2)
	assert.Equal(t, SlotDinner, got.MealBreakdown[1].MealType)
	assert.Equal(t, SlotSnack, got.MealBreakdown[2].MealType)
	assert.Equal(t, 265.0, got.MealBreakdown[2].Calories)
}

func TestSummarizeDay_NoLogs(t *testing.T) {
	got := SummarizeDay(MustParseDate("2026-10-19"), nil)
	assert.Zero(t, got.CaloriesConsumed)
	assert.NotNil(t, got.MealBreakdown)
	assert.Empty(t, got.MealBreakdown)
}

func TestMealLogEntry_Macros(t *testing.T) {
	e := mustEntry(t, 1, "2026-10-19", SlotLunch,
		MealLogItem{Title: "Chicken", Calories: 250, ProteinG: ptr(40), FatG: ptr(8)},
		MealLogItem{Title: "Rice", Calories: 200, ProteinG: ptr(4), CarbsG: ptr(44)},
	)
	protein, carbs, fat := e.Macros()
	assert.Equal(t, 44.0, protein)
	assert.Equal(t, 44.0, carbs)
	assert.Equal(t, 8.0, fat)
}
