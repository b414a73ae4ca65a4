package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mockmate/internal/middleware"
	"mockmate/internal/models"
	"mockmate/internal/utils"
)

// AnalyticsHandler serves the per-user performance history behind the
// analytics charts.
type AnalyticsHandler struct {
	Interviews InterviewRepository
	Logger     *zap.Logger
}

func NewAnalyticsHandler(interviews InterviewRepository, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{Interviews: interviews, Logger: logger}
}

// SummaryHandler returns the caller's completed interviews ascending by
// creation time, each with the per-question feedback objects.
func (h *AnalyticsHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	interviews, err := h.Interviews.ListCompletedWithFeedback(userID)
	if err != nil {
		h.Logger.Error("Failed to load analytics data", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "db_error",
			Message: "Failed to load analytics data",
		})
		return
	}

	entries := make([]models.AnalyticsEntry, 0, len(interviews))
	for _, interview := range interviews {
		entry := models.AnalyticsEntry{
			CreatedAt:    interview.CreatedAt,
			OverallScore: *interview.OverallScore,
		}
		for _, q := range interview.Questions {
			entry.Questions = append(entry.Questions, models.AnalyticsFeedback{AIFeedback: q.AIFeedback})
		}
		entries = append(entries, entry)
	}

	utils.JSON(w, http.StatusOK, entries)
}
