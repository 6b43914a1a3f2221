package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-go-api/internal/nutrition"
)

const mealLogColumns = `id, date, meal_type, items, total_calories`

// loadMealLogs returns the user's meal logs in [start, end], oldest first.
// Always read fresh so a delete shows up on the next summary.
func (h *Handler) loadMealLogs(ctx context.Context, userID int, start, end nutrition.DateOnly) ([]nutrition.MealLogEntry, error) {
	return queryMany[nutrition.MealLogEntry](ctx, h.db,
		"SELECT "+mealLogColumns+` FROM meal_logs
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date, created_at, id`,
		pgx.NamedArgs{"userID": userID, "start": start.String(), "end": end.String()})
}

// getDayMeals returns the day's consumed total, per-meal breakdown and raw logs.
// GET /api/nutrition/meals/day?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDayMeals(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, err := h.dateParam(c, "date")
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	logs, err := h.loadMealLogs(c, userID, date, date)
	if err != nil {
		h.respondError(c, err, "failed to fetch meals")
		return
	}
	_, targets, err := h.loadTargets(c, userID)
	if err != nil {
		h.respondError(c, err, "failed to load targets")
		return
	}

	c.JSON(http.StatusOK, dayMealsResponse{
		Summary: daySummaryResponse{
			DaySummary:     nutrition.SummarizeDay(date, logs),
			CaloriesTarget: targets.CalorieTarget,
		},
		Logs: logs,
	})
}

// createMealLog records a meal. The total is computed from the items; any
// totalCalories in the body is ignored.
// POST /api/nutrition/meals. Body: { "date"?, "mealType", "items": [...] }.
func (h *Handler) createMealLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date := nutrition.NewDate(h.now())
	if body.Date != "" {
		d, err := nutrition.ParseDate(body.Date)
		if err != nil {
			h.respondError(c, nutrition.NewValidationError("date", "invalid date, expected YYYY-MM-DD"), "")
			return
		}
		date = d
	}

	entry, err := nutrition.NewMealLogEntry(date, nutrition.MealSlot(body.MealType), body.Items)
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	items, err := json.Marshal(entry.Items)
	if err != nil {
		h.respondError(c, fmt.Errorf("encode items: %w", err), "failed to create meal")
		return
	}

	err = h.db.QueryRow(c,
		`INSERT INTO meal_logs (user_id, date, meal_type, items, total_calories)
		 VALUES (@userID, @date, @mealType, @items::jsonb, @totalCalories)
		 RETURNING id`,
		pgx.NamedArgs{
			"userID": userID, "date": entry.Date.String(), "mealType": string(entry.MealType),
			"items": string(items), "totalCalories": entry.TotalCalories,
		}).Scan(&entry.ID)
	if err != nil {
		h.respondError(c, err, "failed to create meal")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteMealLog removes a meal log entry by ID. Returns 204 on success, 404 if
// not found. Ownership is enforced by requiring both id and user_id to match.
// DELETE /api/nutrition/meals/:id.
func (h *Handler) deleteMealLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM meal_logs WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		h.respondError(c, err, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.Status(http.StatusNoContent)
}
