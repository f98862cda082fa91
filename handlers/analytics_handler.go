package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"kultivateAPI/middleware"
	"kultivateAPI/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.analyticsService.GetDashboard(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting dashboard stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetHabitsPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	performance, err := h.analyticsService.GetHabitsPerformance(ctx, userID, daysParam(r, 30))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting habit performance")
		return
	}

	respondWithJSON(w, http.StatusOK, performance)
}

func (h *AnalyticsHandler) GetMoodTrends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	trends, err := h.analyticsService.GetMoodTrends(ctx, userID, daysParam(r, 30))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting mood trends")
		return
	}

	respondWithJSON(w, http.StatusOK, trends)
}

func (h *AnalyticsHandler) GetStreakLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	leaderboard, err := h.analyticsService.GetStreakLeaderboard(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting streak leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, leaderboard)
}

// daysParam reads the "days" query parameter, clamped to [1, 365].
func daysParam(r *http.Request, fallback int) int {
	d, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || d < 1 {
		return fallback
	}
	if d > 365 {
		return 365
	}
	return d
}
