package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-go-api/internal/nutrition"
)

const planNote = "Meals are drawn from a pre-portioned catalog; daily totals are not scaled to the calorie target."

const savedPlanColumns = `date, meals, totals, profile_snapshot, targets`

// generateMealPlan draws a multi-day plan for the user's current profile.
// POST /api/nutrition/mealplan/generate. Body (optional): { "days"?, "mealsPerDay"?, "seed"? }.
// Nothing is stored; the client saves the days it keeps.
func (h *Handler) generateMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body generatePlanRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Targets are computed first; the plan is generated against them.
	p, targets, err := h.loadTargets(c, userID)
	if err != nil {
		h.respondError(c, err, "failed to load profile")
		return
	}
	if body.Days == 0 {
		body.Days = h.defaultDays
	}
	if body.MealsPerDay == 0 {
		body.MealsPerDay = p.MealsPerDay
	}

	// One selector per request: *rand.Rand is not safe for concurrent use.
	selector := nutrition.NewSelector(h.catalog, nil)
	if body.Seed != nil {
		selector = nutrition.NewSeededSelector(h.catalog, *body.Seed)
	}
	days, err := nutrition.NewGenerator(selector, h.now).GeneratePlan(p, body.Days, body.MealsPerDay)
	if err != nil {
		h.respondError(c, err, "failed to generate meal plan")
		return
	}

	h.logger.InfoContext(c, "meal plan generated",
		slog.Int("user_id", userID), slog.Int("days", body.Days),
		slog.Int("meals_per_day", body.MealsPerDay), slog.String("diet_type", string(p.DietType)))

	c.JSON(http.StatusOK, generatedPlanResponse{
		GeneratedAt: h.now().UTC(),
		Days:        days,
		Targets:     targets,
		Notes:       []string{planNote},
	})
}

// saveMealPlan stores one generated day with the profile and targets in effect
// now. Saving the same date again replaces the stored day.
// POST /api/nutrition/mealplan/save. Body: one MealPlanDay.
func (h *Handler) saveMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var day nutrition.MealPlanDay
	if err := c.ShouldBindJSON(&day); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if day.Date.IsZero() {
		h.respondError(c, nutrition.NewValidationError("date", "is required"), "")
		return
	}
	if len(day.Meals) == 0 {
		h.respondError(c, nutrition.NewValidationError("meals", "at least one meal is required"), "")
		return
	}
	for _, m := range day.Meals {
		if !m.Slot.Valid() {
			h.respondError(c, nutrition.NewValidationError("meals.mealSlot", "must be one of: breakfast, lunch, dinner, snack"), "")
			return
		}
	}

	p, _, err := h.loadProfile(c, userID)
	if err != nil {
		h.respondError(c, err, "failed to load profile")
		return
	}
	saved, err := nutrition.SnapshotPlan(day, p)
	if err != nil {
		h.respondError(c, fmt.Errorf("snapshot: %v", err), "failed to save meal plan")
		return
	}

	args, err := savedPlanArgs(userID, saved)
	if err != nil {
		h.respondError(c, err, "failed to save meal plan")
		return
	}
	_, err = h.db.Exec(c,
		`INSERT INTO meal_plans (user_id, date, meals, totals, profile_snapshot, targets)
		 VALUES (@userID, @date, @meals::jsonb, @totals::jsonb, @profile::jsonb, @targets::jsonb)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			meals = EXCLUDED.meals,
			totals = EXCLUDED.totals,
			profile_snapshot = EXCLUDED.profile_snapshot,
			targets = EXCLUDED.targets,
			created_at = now()`,
		args)
	if err != nil {
		h.respondError(c, err, "failed to save meal plan")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"saved": true, "date": saved.Date, "totals": saved.Totals})
}

// savedPlanArgs encodes the jsonb columns as text; the simple query protocol
// cannot infer a jsonb encoding for Go structs.
func savedPlanArgs(userID int, saved nutrition.SavedMealPlan) (pgx.NamedArgs, error) {
	args := pgx.NamedArgs{"userID": userID, "date": saved.Date.String()}
	for name, v := range map[string]any{
		"meals":   saved.Meals,
		"totals":  saved.Totals,
		"profile": saved.Profile,
		"targets": saved.Targets,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		args[name] = string(b)
	}
	return args, nil
}

// getMealPlanDay returns the saved plan for a date, or an empty day with zero
// totals when nothing was saved.
// GET /api/nutrition/mealplan/day?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getMealPlanDay(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, err := h.dateParam(c, "date")
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	row, err := queryOne[savedPlanRow](c, h.db,
		"SELECT "+savedPlanColumns+" FROM meal_plans WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date.String()})
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusOK, nutrition.EmptyPlanDay(date))
			return
		}
		h.respondError(c, err, "failed to fetch meal plan")
		return
	}

	c.JSON(http.StatusOK, row.toSaved())
}

// getMealPlanRange returns the saved days in [start, end], oldest first.
// Dates without a saved plan are omitted.
// GET /api/nutrition/mealplan/range?start=YYYY-MM-DD&end=YYYY-MM-DD. Both required.
func (h *Handler) getMealPlanRange(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, err := rangeParams(c)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	rows, err := queryMany[savedPlanRow](c, h.db,
		"SELECT "+savedPlanColumns+` FROM meal_plans
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start.String(), "end": end.String()})
	if err != nil {
		h.respondError(c, err, "failed to fetch meal plans")
		return
	}

	days := make([]nutrition.SavedMealPlan, 0, len(rows))
	for _, r := range rows {
		days = append(days, r.toSaved())
	}
	c.JSON(http.StatusOK, days)
}
