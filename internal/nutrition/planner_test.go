package nutrition

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestGenerator(t *testing.T, seed uint64) *Generator {
	t.Helper()
	cat, err := DefaultCatalog(discardLogger())
	require.NoError(t, err)
	return NewGenerator(NewSeededSelector(cat, seed), fixedClock("2026-10-19T08:30:00Z"))
}

func TestGeneratePlan_ThreeDaysThreeMeals(t *testing.T) {
	g := newTestGenerator(t, 42)
	p := makeProfile(SexMale, 30, 180, 80, ActivityModerate, GoalMaintain)

	plan, err := g.GeneratePlan(p, 3, 3)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	for _, day := range plan {
		require.Len(t, day.Meals, 3)
		assert.Equal(t, SlotBreakfast, day.Meals[0].Slot)
		assert.Equal(t, SlotLunch, day.Meals[1].Slot)
		assert.Equal(t, SlotDinner, day.Meals[2].Slot)

		var want MacroTotals
		for _, m := range day.Meals {
			assert.NotEqual(t, SlotSnack, m.Slot)
			assert.Equal(t, m.Slot, m.Meal.Slot)
			assert.Equal(t, DietOmnivore, m.Meal.DietType)
			want.Calories += m.Meal.Calories
			want.ProteinG += m.Meal.ProteinG
			want.CarbsG += m.Meal.CarbsG
			want.FatG += m.Meal.FatG
		}
		assert.Equal(t, want, day.Totals)
	}
}

func TestGeneratePlan_DatesStartToday(t *testing.T) {
	g := newTestGenerator(t, 1)

	plan, err := g.GeneratePlan(DefaultProfile(), 4, 3)
	require.NoError(t, err)

	want := []string{"2026-10-19", "2026-10-20", "2026-10-21", "2026-10-22"}
	for i, day := range plan {
		assert.Equal(t, want[i], day.Date.String())
	}
}

func TestGeneratePlan_SnacksForExtraMeals(t *testing.T) {
	cases := []struct {
		mealsPerDay int
		snacks      int
	}{
		{3, 0},
		{4, 1},
		{5, 2},
		{6, 3},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d meals", tc.mealsPerDay), func(t *testing.T) {
			g := newTestGenerator(t, 7)
			plan, err := g.GeneratePlan(DefaultProfile(), 1, tc.mealsPerDay)
			require.NoError(t, err)
			require.Len(t, plan[0].Meals, tc.mealsPerDay)

			snacks := 0
			for _, m := range plan[0].Meals {
				if m.Slot == SlotSnack {
					snacks++
				}
			}
			assert.Equal(t, tc.snacks, snacks)
		})
	}
}

func TestGeneratePlan_SeedIsReproducible(t *testing.T) {
	p := DefaultProfile()
	p.DietType = DietVegan

	first, err := newTestGenerator(t, 2024).GeneratePlan(p, 7, 5)
	require.NoError(t, err)
	second, err := newTestGenerator(t, 2024).GeneratePlan(p, 7, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGeneratePlan_RequestMealsPerDayWins(t *testing.T) {
	g := newTestGenerator(t, 3)
	p := DefaultProfile()
	p.MealsPerDay = 6

	plan, err := g.GeneratePlan(p, 1, 3)
	require.NoError(t, err)
	assert.Len(t, plan[0].Meals, 3)
}

func TestGeneratePlan_Validation(t *testing.T) {
	g := newTestGenerator(t, 1)
	bad := DefaultProfile()
	bad.Age = 0

	cases := []struct {
		name        string
		profile     UserProfile
		days        int
		mealsPerDay int
		field       string
	}{
		{"zero days", DefaultProfile(), 0, 3, "days"},
		{"too many days", DefaultProfile(), MaxPlanDays + 1, 3, "days"},
		{"two meals", DefaultProfile(), 1, 2, "mealsPerDay"},
		{"seven meals", DefaultProfile(), 1, 7, "mealsPerDay"},
		{"invalid profile", bad, 1, 3, "age"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.GeneratePlan(tc.profile, tc.days, tc.mealsPerDay)
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Errors[0].Field)
		})
	}
}

func TestSnapshotPlan_KeepsProfileAndTargets(t *testing.T) {
	g := newTestGenerator(t, 9)
	p := makeProfile(SexFemale, 30, 165, 60, ActivityLight, GoalLoseWeight)

	plan, err := g.GeneratePlan(p, 1, 3)
	require.NoError(t, err)

	day := plan[0]
	day.Totals = MacroTotals{}
	saved, err := SnapshotPlan(day, p)
	require.NoError(t, err)

	assert.Equal(t, p, saved.Profile)
	assert.Equal(t, 1403, saved.Targets.CalorieTarget)
	assert.Equal(t, plan[0].Totals, saved.Totals)

	// A later profile change does not touch the snapshot.
	p.WeightKg = 90
	assert.Equal(t, 60.0, saved.Profile.WeightKg)
}

func TestSlotsFor(t *testing.T) {
	assert.Equal(t, []MealSlot{SlotBreakfast, SlotLunch, SlotDinner}, SlotsFor(3))
	assert.Equal(t, []MealSlot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack, SlotSnack}, SlotsFor(5))
}

func TestEmptyPlanDay(t *testing.T) {
	d := EmptyPlanDay(MustParseDate("2026-10-19"))
	assert.Empty(t, d.Meals)
	assert.NotNil(t, d.Meals)
	assert.Equal(t, MacroTotals{}, d.Totals)
}
