package handlers

import (
	"context"
	"net/http"
	"time"

	"kultivateAPI/middleware"
	"kultivateAPI/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
}

func NewAchievementHandler(achievementService *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	achievements, err := h.achievementService.GetAchievements(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}
