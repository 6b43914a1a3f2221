package nutrition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeProfile returns a valid profile; tests mutate single fields from here.
func makeProfile(sex Sex, age int, heightCm, weightKg float64, activity ActivityLevel, goal Goal) UserProfile {
	return UserProfile{
		Age:           age,
		Sex:           sex,
		HeightCm:      heightCm,
		WeightKg:      weightKg,
		ActivityLevel: activity,
		Goal:          goal,
		DietType:      DietOmnivore,
		MealsPerDay:   3,
	}
}

/* ─── Validation guard tests ─────────────────────────────────────────── */

func TestComputeTargets_InvalidFields(t *testing.T) {
	cases := []struct {
		name  string
		field string
		mutFn func(p *UserProfile)
	}{
		{"zero age", "age", func(p *UserProfile) { p.Age = 0 }},
		{"negative age", "age", func(p *UserProfile) { p.Age = -4 }},
		{"age over 120", "age", func(p *UserProfile) { p.Age = 121 }},
		{"unknown sex", "sex", func(p *UserProfile) { p.Sex = "other" }},
		{"zero height", "heightCm", func(p *UserProfile) { p.HeightCm = 0 }},
		{"negative weight", "weightKg", func(p *UserProfile) { p.WeightKg = -70 }},
		{"unknown activity level", "activityLevel", func(p *UserProfile) { p.ActivityLevel = "extreme" }},
		{"empty activity level", "activityLevel", func(p *UserProfile) { p.ActivityLevel = "" }},
		{"unknown goal", "goal", func(p *UserProfile) { p.Goal = "lose" }},
		{"unknown diet", "dietType", func(p *UserProfile) { p.DietType = "carnivore" }},
		{"two meals", "mealsPerDay", func(p *UserProfile) { p.MealsPerDay = 2 }},
		{"seven meals", "mealsPerDay", func(p *UserProfile) { p.MealsPerDay = 7 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := makeProfile(SexMale, 30, 180, 80, ActivityModerate, GoalMaintain)
			tc.mutFn(&p)

			_, err := ComputeTargets(p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			require.Len(t, ve.Errors, 1)
			assert.Equal(t, tc.field, ve.Errors[0].Field)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := UserProfile{}.Validate()

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Errors, 8)
}

func TestComputeTargets_ImplausibleBodyIsValidationError(t *testing.T) {
	cases := []struct {
		name  string
		p     UserProfile
		field string
	}{
		{"tiny height and weight", makeProfile(SexFemale, 120, 1, 1, ActivitySedentary, GoalMaintain), "heightCm"},
		{"height over max", makeProfile(SexMale, 30, 300, 80, ActivityModerate, GoalMaintain), "heightCm"},
		{"weight over max", makeProfile(SexMale, 30, 180, 501, ActivityModerate, GoalMaintain), "weightKg"},
		// Every field in range, but BMR comes out negative.
		{"negative energy budget", makeProfile(SexMale, 120, 50, 20, ActivitySedentary, GoalLoseWeight), "weightKg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeTargets(tc.p)

			require.ErrorIs(t, err, ErrValidation)
			assert.NotErrorIs(t, err, ErrComputation)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Errors[0].Field)
		})
	}
}

func TestValidate_BoundsAreInclusive(t *testing.T) {
	p := makeProfile(SexFemale, 30, MinHeightCm, MinWeightKg, ActivityModerate, GoalMaintain)
	require.NoError(t, p.Validate())

	p = makeProfile(SexMale, 30, MaxHeightCm, MaxWeightKg, ActivityModerate, GoalMaintain)
	require.NoError(t, p.Validate())
}

/* ─── Formula accuracy tests ─────────────────────────────────────────── */

// Male, 30y, 180cm, 80kg, moderate, maintain:
// BMR = 88.362 + 13.397*80 + 4.799*180 - 5.677*30 = 1853.632
// TDEE = 1853.632 * 1.55 = 2873.13
func TestComputeTargets_MaleMaintain(t *testing.T) {
	p := makeProfile(SexMale, 30, 180, 80, ActivityModerate, GoalMaintain)

	got, err := ComputeTargets(p)
	require.NoError(t, err)

	assert.InDelta(t, 1853.632, BMR(p), 0.001)
	assert.Equal(t, 1854, got.BMR)
	assert.Equal(t, 2873, got.TDEE)
	assert.Equal(t, 2873, got.CalorieTarget)
	assert.Equal(t, Macros{ProteinG: 180, CarbsG: 322, FatG: 96}, got.Macros)
}

// Female, 30y, 165cm, 60kg, light, lose_weight:
// BMR = 447.593 + 9.247*60 + 3.098*165 - 4.330*30 = 1383.683
// TDEE = 1383.683 * 1.375 = 1902.56, target = 1402.56 -> 1403
func TestSplitMacros_CarbsTakeRemainder(t *testing.T) {
	got := splitMacros(2873, GoalMaintain)

	// Rounding the 45% carb share on its own would give 323 g.
	assert.Equal(t, 322, got.CarbsG)
	assert.Equal(t, 180, got.ProteinG)
	assert.Equal(t, 96, got.FatG)
	allocated := got.ProteinG*kcalPerGramProtein + got.CarbsG*kcalPerGramCarbs + got.FatG*kcalPerGramFat
	assert.InDelta(t, 2873, allocated, 2)
}

func TestComputeTargets_FemaleLoseWeight(t *testing.T) {
	p := makeProfile(SexFemale, 30, 165, 60, ActivityLight, GoalLoseWeight)

	got, err := ComputeTargets(p)
	require.NoError(t, err)

	assert.Equal(t, 1384, got.BMR)
	assert.Equal(t, 1903, got.TDEE)
	assert.Equal(t, 1403, got.CalorieTarget)
	assert.Equal(t, Macros{ProteinG: 123, CarbsG: 122, FatG: 47}, got.Macros)
}

func TestComputeTargets_GoalAdjustments(t *testing.T) {
	base := makeProfile(SexMale, 30, 180, 80, ActivityModerate, GoalMaintain)
	maintain, err := ComputeTargets(base)
	require.NoError(t, err)

	cases := []struct {
		goal  Goal
		delta int
	}{
		{GoalLoseWeight, -500},
		{GoalGainWeight, 500},
		{GoalMuscleGain, 300},
	}
	for _, tc := range cases {
		t.Run(string(tc.goal), func(t *testing.T) {
			p := base
			p.Goal = tc.goal
			got, err := ComputeTargets(p)
			require.NoError(t, err)
			assert.Equal(t, maintain.CalorieTarget+tc.delta, got.CalorieTarget)
			assert.Equal(t, maintain.TDEE, got.TDEE)
		})
	}
}

func TestComputeTargets_MuscleGainSplit(t *testing.T) {
	p := makeProfile(SexMale, 25, 175, 75, ActivityActive, GoalMuscleGain)
	got, err := ComputeTargets(p)
	require.NoError(t, err)

	kcal := float64(got.CalorieTarget)
	assert.InDelta(t, kcal*0.30/4, float64(got.Macros.ProteinG), 0.5)
	assert.InDelta(t, kcal*0.30/9, float64(got.Macros.FatG), 0.5)
	assert.InDelta(t, kcal*0.40/4, float64(got.Macros.CarbsG), 2)
}

/* ─── Properties over a profile grid ─────────────────────────────────── */

func TestComputeTargets_Properties(t *testing.T) {
	activities := []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
	goals := []Goal{GoalLoseWeight, GoalMaintain, GoalGainWeight, GoalMuscleGain}

	for _, sex := range []Sex{SexMale, SexFemale} {
		for age := 18; age <= 90; age += 9 {
			for height := 140.0; height <= 210; height += 17.5 {
				for weight := 40.0; weight <= 150; weight += 13.7 {
					for _, act := range activities {
						for _, goal := range goals {
							p := makeProfile(sex, age, height, weight, act, goal)
							got, err := ComputeTargets(p)
							if err != nil {
								t.Fatalf("ComputeTargets(%+v) error: %v", p, err)
							}
							if got.BMR <= 0 || got.CalorieTarget <= 0 {
								t.Fatalf("non-positive targets %+v for %+v", got, p)
							}
							diff := got.Macros.Calories() - got.CalorieTarget
							if diff < -2 || diff > 2 {
								t.Fatalf("macro calories %d differ from target %d by %d for %+v",
									got.Macros.Calories(), got.CalorieTarget, diff, p)
							}
							again, _ := ComputeTargets(p)
							if again != got {
								t.Fatalf("ComputeTargets not deterministic: %+v vs %+v", got, again)
							}
						}
					}
				}
			}
		}
	}
}

func TestValidActivityLevel(t *testing.T) {
	assert.True(t, ValidActivityLevel("very_active"))
	assert.False(t, ValidActivityLevel("very"))
}
