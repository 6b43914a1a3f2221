package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/nutrition-go-api/internal/nutrition"
)

// getAnalyticsSummary returns the daily series, weight trend and adherence for
// [start, end] against the user's current targets, plus feedback on the last day.
// GET /api/nutrition/analytics/summary?start=YYYY-MM-DD&end=YYYY-MM-DD. Both required.
func (h *Handler) getAnalyticsSummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, err := rangeParams(c)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	_, targets, err := h.loadTargets(c, userID)
	if err != nil {
		h.respondError(c, err, "failed to load targets")
		return
	}
	logs, err := h.loadMealLogs(c, userID, start, end)
	if err != nil {
		h.respondError(c, err, "failed to fetch meals")
		return
	}
	weights, err := h.loadWeights(c, userID, start, end)
	if err != nil {
		h.respondError(c, err, "failed to fetch weight log")
		return
	}

	summary, err := nutrition.Summarize(logs, weights, targets, start, end)
	if err != nil {
		h.respondError(c, err, "failed to summarize")
		return
	}
	feedback := nutrition.ClassifyFeedback(summary)

	c.JSON(http.StatusOK, analyticsResponse{
		AnalyticsSummary: summary,
		Feedback:         feedback,
		FeedbackMessage:  feedback.Message(),
	})
}
