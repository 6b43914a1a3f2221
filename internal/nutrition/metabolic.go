package nutrition

import "math"

// Caloric density in kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// This is the single source of truth for valid activity levels.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// goalAdjustments is the kcal offset applied to TDEE for each goal.
var goalAdjustments = map[Goal]float64{
	GoalLoseWeight: -500,
	GoalMaintain:   0,
	GoalGainWeight: 500,
	GoalMuscleGain: 300,
}

// macroSplit is the share of calories assigned to each macro.
type macroSplit struct {
	protein, carbs, fat float64
}

var defaultSplit = macroSplit{protein: 0.25, carbs: 0.45, fat: 0.30}

var macroSplits = map[Goal]macroSplit{
	GoalMuscleGain: {protein: 0.30, carbs: 0.40, fat: 0.30},
	GoalLoseWeight: {protein: 0.35, carbs: 0.35, fat: 0.30},
}

// ValidActivityLevel reports whether level has a TDEE multiplier.
func ValidActivityLevel(level string) bool {
	_, ok := activityMultipliers[ActivityLevel(level)]
	return ok
}

// Macros is a daily gram allocation.
type Macros struct {
	ProteinG int `json:"proteinG"`
	CarbsG   int `json:"carbsG"`
	FatG     int `json:"fatG"`
}

// Calories returns the energy content of the allocation.
func (m Macros) Calories() int {
	return m.ProteinG*kcalPerGramProtein + m.CarbsG*kcalPerGramCarbs + m.FatG*kcalPerGramFat
}

// ComputedTargets is derived from a UserProfile and never stored on its own.
type ComputedTargets struct {
	BMR           int    `json:"BMR"`
	TDEE          int    `json:"TDEE"`
	CalorieTarget int    `json:"calorieTarget"`
	Macros        Macros `json:"macros"`
}

// BMR returns the Harris-Benedict basal metabolic rate. The profile must be valid.
func BMR(p UserProfile) float64 {
	if p.Sex == SexMale {
		return 88.362 + 13.397*p.WeightKg + 4.799*p.HeightCm - 5.677*float64(p.Age)
	}
	return 447.593 + 9.247*p.WeightKg + 3.098*p.HeightCm - 4.330*float64(p.Age)
}

// energy returns the BMR, the TDEE and the unrounded goal-adjusted target.
func energy(p UserProfile) (bmr, tdee, target float64) {
	bmr = BMR(p)
	tdee = bmr * activityMultipliers[p.ActivityLevel]
	return bmr, tdee, tdee + goalAdjustments[p.Goal]
}

// ComputeTargets derives BMR, TDEE, the goal-adjusted calorie target and the
// macro split from a profile. Invalid profiles return a *ValidationError;
// Validate also rejects profiles whose target would not be positive, so
// ErrComputation is never returned for a profile that validates. Carbs are the
// remainder after protein and fat, not an independently rounded share (see
// splitMacros).
func ComputeTargets(p UserProfile) (ComputedTargets, error) {
	if err := p.Validate(); err != nil {
		return ComputedTargets{}, err
	}

	bmr, tdee, adjusted := energy(p)
	if bmr <= 0 {
		return ComputedTargets{}, computationError("non-positive BMR %.2f", bmr)
	}
	target := int(math.Round(adjusted))
	if target <= 0 {
		return ComputedTargets{}, computationError("non-positive calorie target %d", target)
	}

	return ComputedTargets{
		BMR:           int(math.Round(bmr)),
		TDEE:          int(math.Round(tdee)),
		CalorieTarget: target,
		Macros:        splitMacros(target, p.Goal),
	}, nil
}

// splitMacros rounds protein and fat independently from their shares. Carbs
// are not rounded from their own share: they take the calories left after
// protein and fat, so the allocation stays within 2 kcal of target. For the
// 2873 kcal maintain split this gives 322 g carbs where rounding the 45% share
// alone would give 323 g.
func splitMacros(target int, goal Goal) Macros {
	split, ok := macroSplits[goal]
	if !ok {
		split = defaultSplit
	}
	kcal := float64(target)
	protein := int(math.Round(kcal * split.protein / kcalPerGramProtein))
	fat := int(math.Round(kcal * split.fat / kcalPerGramFat))
	rest := target - protein*kcalPerGramProtein - fat*kcalPerGramFat
	carbs := int(math.Round(float64(rest) / kcalPerGramCarbs))
	if carbs < 0 {
		carbs = 0
	}
	return Macros{ProteinG: protein, CarbsG: carbs, FatG: fat}
}
