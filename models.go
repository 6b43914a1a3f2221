package main

import (
	"time"

	"lg/nutrition-go-api/internal/nutrition"
)

/* ─── Row structs ────────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// food maps to the foods table. Values are per serving.
type food struct {
	ID          int      `json:"id"          db:"id"`
	Name        string   `json:"name"        db:"name"`
	Brand       *string  `json:"brand"       db:"brand"`
	ServingSize float64  `json:"servingSize" db:"serving_size"`
	ServingUnit string   `json:"servingUnit" db:"serving_unit"`
	Calories    float64  `json:"calories"    db:"calories"`
	ProteinG    *float64 `json:"proteinG"    db:"protein_g"`
	CarbsG      *float64 `json:"carbsG"      db:"carbs_g"`
	FatG        *float64 `json:"fatG"        db:"fat_g"`
}

// savedPlanRow is one meal_plans row. Meals, totals, profile and targets are
// jsonb columns written once at save time.
type savedPlanRow struct {
	Date    nutrition.DateOnly        `db:"date"`
	Meals   []nutrition.PlannedMeal   `db:"meals"`
	Totals  nutrition.MacroTotals     `db:"totals"`
	Profile nutrition.UserProfile     `db:"profile_snapshot"`
	Targets nutrition.ComputedTargets `db:"targets"`
}

func (r savedPlanRow) toSaved() nutrition.SavedMealPlan {
	return nutrition.SavedMealPlan{
		MealPlanDay: nutrition.MealPlanDay{Date: r.Date, Meals: r.Meals, Totals: r.Totals},
		Profile:     r.Profile,
		Targets:     r.Targets,
	}
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// generatePlanRequest is the body for POST /api/nutrition/mealplan/generate.
// Zero values fall back to the configured default days and the profile's
// mealsPerDay. Seed makes the draw reproducible.
type generatePlanRequest struct {
	Days        int     `json:"days"`
	MealsPerDay int     `json:"mealsPerDay"`
	Seed        *uint64 `json:"seed"`
}

// createMealLogRequest is the body for POST /api/nutrition/meals. Date defaults to today.
type createMealLogRequest struct {
	Date     string                  `json:"date"`
	MealType string                  `json:"mealType"`
	Items    []nutrition.MealLogItem `json:"items"`
}

// weightRequest is the body for POST /api/nutrition/weight.
type weightRequest struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weightKg"`
	Notes    string  `json:"notes"`
}

// createFoodRequest is the body for POST /api/nutrition/foods.
type createFoodRequest struct {
	Name        string   `json:"name"`
	Brand       *string  `json:"brand"`
	ServingSize float64  `json:"servingSize"`
	ServingUnit string   `json:"servingUnit"`
	Calories    float64  `json:"calories"`
	ProteinG    *float64 `json:"proteinG"`
	CarbsG      *float64 `json:"carbsG"`
	FatG        *float64 `json:"fatG"`
}

/* ─── Response shapes ────────────────────────────────────────────────── */

// profileResponse is returned by the profile endpoints.
type profileResponse struct {
	Profile  nutrition.UserProfile     `json:"profile"`
	Computed nutrition.ComputedTargets `json:"computed"`
	// IsDefault is true when the user never saved a profile.
	IsDefault bool `json:"isDefault"`
}

// generatedPlanResponse is returned by POST /mealplan/generate.
type generatedPlanResponse struct {
	GeneratedAt time.Time                 `json:"generatedAt"`
	Days        []nutrition.MealPlanDay   `json:"days"`
	Targets     nutrition.ComputedTargets `json:"targets"`
	Notes       []string                  `json:"notes"`
}

// daySummaryResponse is the "summary" half of GET /meals/day.
type daySummaryResponse struct {
	nutrition.DaySummary
	CaloriesTarget int `json:"caloriesTarget"`
}

// dayMealsResponse is the response for GET /meals/day.
type dayMealsResponse struct {
	Summary daySummaryResponse       `json:"summary"`
	Logs    []nutrition.MealLogEntry `json:"logs"`
}

// analyticsResponse is the summary plus the consumer-facing feedback.
type analyticsResponse struct {
	nutrition.AnalyticsSummary
	Feedback        nutrition.Feedback `json:"feedback"`
	FeedbackMessage string             `json:"feedbackMessage"`
}
