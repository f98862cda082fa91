package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kultivateAPI/internal/mood"
	"kultivateAPI/middleware"
	"kultivateAPI/services"
)

type MoodHandler struct {
	moodService *services.MoodService
}

func NewMoodHandler(moodService *services.MoodService) *MoodHandler {
	return &MoodHandler{
		moodService: moodService,
	}
}

func (h *MoodHandler) CreateMoodEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req mood.CreateMoodEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.MoodRating < 1 || req.MoodRating > 10 {
		respondWithError(w, http.StatusBadRequest, "Mood rating must be between 1 and 10")
		return
	}
	if req.StressLevel != nil && (*req.StressLevel < 1 || *req.StressLevel > 10) {
		respondWithError(w, http.StatusBadRequest, "Stress level must be between 1 and 10")
		return
	}
	if req.EnergyLevel != nil && (*req.EnergyLevel < 1 || *req.EnergyLevel > 10) {
		respondWithError(w, http.StatusBadRequest, "Energy level must be between 1 and 10")
		return
	}

	entry, err := h.moodService.CreateEntry(ctx, userID, &req)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error recording mood")
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

func (h *MoodHandler) GetMoodEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.moodService.GetEntries(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting mood entries")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}
