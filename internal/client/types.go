package client

import (
	"time"

	"lg/nutrition-go-api/internal/nutrition"
)

// ProfileResponse is returned by the profile endpoints.
type ProfileResponse struct {
	Profile   nutrition.UserProfile     `json:"profile"`
	Computed  nutrition.ComputedTargets `json:"computed"`
	IsDefault bool                      `json:"isDefault"`
}

// PlanRequest asks the server to draw a plan. Zero values take the server defaults.
type PlanRequest struct {
	Days        int     `json:"days,omitempty"`
	MealsPerDay int     `json:"mealsPerDay,omitempty"`
	Seed        *uint64 `json:"seed,omitempty"`
}

// GeneratedPlan is an unsaved multi-day plan.
type GeneratedPlan struct {
	GeneratedAt time.Time                 `json:"generatedAt"`
	Days        []nutrition.MealPlanDay   `json:"days"`
	Targets     nutrition.ComputedTargets `json:"targets"`
	Notes       []string                  `json:"notes"`
}

// SaveResult acknowledges a saved plan day.
type SaveResult struct {
	Saved  bool                  `json:"saved"`
	Date   nutrition.DateOnly    `json:"date"`
	Totals nutrition.MacroTotals `json:"totals"`
}

// DaySummary is the day's consumption next to the current target.
type DaySummary struct {
	nutrition.DaySummary
	CaloriesTarget int `json:"caloriesTarget"`
}

// DayMeals is the response of the day meals endpoint.
type DayMeals struct {
	Summary DaySummary               `json:"summary"`
	Logs    []nutrition.MealLogEntry `json:"logs"`
}

// MealLogInput is the body for logging a meal. An empty Date means today on the server.
type MealLogInput struct {
	Date     string                  `json:"date,omitempty"`
	MealType nutrition.MealSlot      `json:"mealType"`
	Items    []nutrition.MealLogItem `json:"items"`
}

// WeightInput is the body for recording a weight.
type WeightInput struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weightKg"`
	Notes    string  `json:"notes,omitempty"`
}

// Analytics is the summary for a range plus feedback on its last day.
type Analytics struct {
	nutrition.AnalyticsSummary
	Feedback        nutrition.Feedback `json:"feedback"`
	FeedbackMessage string             `json:"feedbackMessage"`
}

// Food is one entry of the shared food catalog. Values are per serving.
type Food struct {
	ID          int      `json:"id,omitempty"`
	Name        string   `json:"name"`
	Brand       *string  `json:"brand"`
	ServingSize float64  `json:"servingSize"`
	ServingUnit string   `json:"servingUnit"`
	Calories    float64  `json:"calories"`
	ProteinG    *float64 `json:"proteinG"`
	CarbsG      *float64 `json:"carbsG"`
	FatG        *float64 `json:"fatG"`
}

// Suggestion is an AI estimate for a food description.
type Suggestion struct {
	Title      string  `json:"title"`
	Qty        float64 `json:"qty"`
	Unit       string  `json:"unit"`
	Calories   float64 `json:"calories"`
	ProteinG   float64 `json:"proteinG"`
	CarbsG     float64 `json:"carbsG"`
	FatG       float64 `json:"fatG"`
	Confidence int     `json:"confidence"`
	// Error is "unrecognized" when the description was not read as food.
	Error string `json:"error,omitempty"`
}

// Dashboard is everything the nutrition screen shows for one date. Cached is
// set when it was rebuilt from the local cache instead of the server.
type Dashboard struct {
	Profile   ProfileResponse
	Day       DayMeals
	Plan      nutrition.MealPlanDay
	Analytics Analytics
	Cached    bool
}
