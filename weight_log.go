package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-go-api/internal/nutrition"
)

const (
	weightColumns = `id, date, weight_kg, notes`
	maxWeightKg   = 999.9
	maxNotesLen   = 500
)

// loadWeights returns weight entries in [start, end], oldest first.
func (h *Handler) loadWeights(ctx context.Context, userID int, start, end nutrition.DateOnly) ([]nutrition.WeightLogEntry, error) {
	return queryMany[nutrition.WeightLogEntry](ctx, h.db,
		"SELECT "+weightColumns+` FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start.String(), "end": end.String()})
}

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/nutrition/weight?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, err := rangeParams(c)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	entries, err := h.loadWeights(c, userID, start, end)
	if err != nil {
		h.respondError(c, err, "failed to fetch weight log")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// upsertWeightEntry creates or updates the weight entry for the given date.
// POST /api/nutrition/weight. Body: { "date": "YYYY-MM-DD", "weightKg": 82.5, "notes"? }.
// The UNIQUE(user_id, date) constraint means posting the same date updates in place.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body weightRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		h.respondError(c, nutrition.NewValidationError("date", "is required"), "")
		return
	}
	date, err := nutrition.ParseDate(body.Date)
	if err != nil {
		h.respondError(c, nutrition.NewValidationError("date", "invalid date, expected YYYY-MM-DD"), "")
		return
	}
	if body.WeightKg <= 0 || body.WeightKg > maxWeightKg {
		h.respondError(c, nutrition.NewValidationError("weightKg", "must be between 0 and 999.9"), "")
		return
	}
	body.Notes = strings.TrimSpace(body.Notes)
	if len(body.Notes) > maxNotesLen {
		h.respondError(c, nutrition.NewValidationError("notes", "must be at most 500 characters"), "")
		return
	}

	entry, err := queryOne[nutrition.WeightLogEntry](c, h.db,
		`INSERT INTO weight_log (user_id, date, weight_kg, notes)
		 VALUES (@userID, @date, @weightKg, @notes)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			notes = EXCLUDED.notes
		 RETURNING `+weightColumns,
		pgx.NamedArgs{"userID": userID, "date": date.String(), "weightKg": body.WeightKg, "notes": body.Notes})
	if err != nil {
		h.respondError(c, err, "failed to upsert weight entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/nutrition/weight/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		h.respondError(c, err, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
