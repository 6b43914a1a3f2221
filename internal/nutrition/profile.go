package nutrition

import (
	"fmt"
	"math"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalMaintain   Goal = "maintain"
	GoalGainWeight Goal = "gain_weight"
	GoalMuscleGain Goal = "muscle_gain"
)

type DietType string

const (
	DietOmnivore   DietType = "omnivore"
	DietVegetarian DietType = "vegetarian"
	DietVegan      DietType = "vegan"
	DietKeto       DietType = "keto"
	DietPaleo      DietType = "paleo"
)

// DietTypes lists every diet type the catalog is expected to cover.
var DietTypes = []DietType{DietOmnivore, DietVegetarian, DietVegan, DietKeto, DietPaleo}

func (d DietType) Valid() bool {
	for _, known := range DietTypes {
		if d == known {
			return true
		}
	}
	return false
}

const (
	MaxAge         = 120
	MinMealsPerDay = 3
	MaxMealsPerDay = 6

	MinHeightCm = 50
	MaxHeightCm = 272
	MinWeightKg = 20
	MaxWeightKg = 500
)

// UserProfile holds the biometric and preference inputs for target computation.
type UserProfile struct {
	Age           int           `json:"age"            db:"age"`
	Sex           Sex           `json:"sex"            db:"sex"`
	HeightCm      float64       `json:"heightCm"       db:"height_cm"`
	WeightKg      float64       `json:"weightKg"       db:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activityLevel"  db:"activity_level"`
	Goal          Goal          `json:"goal"           db:"goal"`
	DietType      DietType      `json:"dietType"       db:"diet_type"`
	MealsPerDay   int           `json:"mealsPerDay"    db:"meals_per_day"`
}

// DefaultProfile is used for users who never saved a profile.
func DefaultProfile() UserProfile {
	return UserProfile{
		Age:           30,
		Sex:           SexMale,
		HeightCm:      170,
		WeightKg:      70,
		ActivityLevel: ActivityModerate,
		Goal:          GoalMaintain,
		DietType:      DietOmnivore,
		MealsPerDay:   MinMealsPerDay,
	}
}

// Validate rejects out-of-range or unknown profile values. Every problem is
// reported, one FieldError per field.
func (p UserProfile) Validate() error {
	var v validator
	switch {
	case p.Age <= 0:
		v.add("age", "must be positive")
	case p.Age > MaxAge:
		v.add("age", fmt.Sprintf("must be at most %d", MaxAge))
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		v.add("sex", "must be one of: male, female")
	}
	if p.HeightCm < MinHeightCm || p.HeightCm > MaxHeightCm {
		v.add("heightCm", fmt.Sprintf("must be between %d and %d", MinHeightCm, MaxHeightCm))
	}
	if p.WeightKg < MinWeightKg || p.WeightKg > MaxWeightKg {
		v.add("weightKg", fmt.Sprintf("must be between %d and %d", MinWeightKg, MaxWeightKg))
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		v.add("activityLevel", "must be one of: sedentary, light, moderate, active, very_active")
	}
	if _, ok := goalAdjustments[p.Goal]; !ok {
		v.add("goal", "must be one of: lose_weight, maintain, gain_weight, muscle_gain")
	}
	if !p.DietType.Valid() {
		v.add("dietType", "must be one of: omnivore, vegetarian, vegan, keto, paleo")
	}
	if p.MealsPerDay < MinMealsPerDay || p.MealsPerDay > MaxMealsPerDay {
		v.add("mealsPerDay", fmt.Sprintf("must be between %d and %d", MinMealsPerDay, MaxMealsPerDay))
	}
	if err := v.err(); err != nil {
		return err
	}
	// In-range fields can still combine into a non-positive energy budget
	// (very old, very light and very short); such a profile has no targets.
	if bmr, _, target := energy(p); bmr <= 0 || math.Round(target) <= 0 {
		return NewValidationError("weightKg", "too low for this age, height and goal to give a positive calorie target")
	}
	return nil
}
