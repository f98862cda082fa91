package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"kultivateAPI/internal/habit"
	"kultivateAPI/internal/habitlog"
	"kultivateAPI/middleware"
	"kultivateAPI/services"
)

type HabitHandler struct {
	habitService *services.HabitService
}

func NewHabitHandler(habitService *services.HabitService) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
	}
}

func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req habit.CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Frequency != "" && !req.Frequency.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid frequency")
		return
	}
	if req.Priority != "" && !req.Priority.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	newHabit, err := h.habitService.CreateHabit(ctx, userID, &req)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error creating habit")
		return
	}

	respondWithJSON(w, http.StatusCreated, newHabit)
}

func (h *HabitHandler) GetHabits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habits, err := h.habitService.GetHabits(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting habits")
		return
	}

	respondWithJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := uuid.Parse(mux.Vars(r)["habitId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid habit id")
		return
	}

	found, err := h.habitService.GetHabit(ctx, userID, habitID)
	if err != nil {
		respondWithError(w, statusFromError(err), "Habit not found")
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := uuid.Parse(mux.Vars(r)["habitId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid habit id")
		return
	}

	var req habit.UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Frequency != nil && !req.Frequency.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid frequency")
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	updated, err := h.habitService.UpdateHabit(ctx, userID, habitID, &req)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error updating habit")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := uuid.Parse(mux.Vars(r)["habitId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid habit id")
		return
	}

	if err := h.habitService.DeleteHabit(ctx, userID, habitID); err != nil {
		respondWithError(w, statusFromError(err), "Error deleting habit")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Habit deleted"})
}

func (h *HabitHandler) GetHabitLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := uuid.Parse(mux.Vars(r)["habitId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid habit id")
		return
	}

	logs, err := h.habitService.GetHabitLogs(ctx, userID, habitID)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error getting habit logs")
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

func (h *HabitHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := uuid.Parse(mux.Vars(r)["habitId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid habit id")
		return
	}

	st, err := h.habitService.GetStreak(ctx, userID, habitID)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error getting streak")
		return
	}

	respondWithJSON(w, http.StatusOK, st)
}

func (h *HabitHandler) LogCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := uuid.Parse(mux.Vars(r)["habitId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid habit id")
		return
	}

	req := &habitlog.LogCompletionRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if req.MoodRating != nil && (*req.MoodRating < 1 || *req.MoodRating > 10) {
		respondWithError(w, http.StatusBadRequest, "Mood rating must be between 1 and 10")
		return
	}
	if req.QualityRating != nil && (*req.QualityRating < 1 || *req.QualityRating > 5) {
		respondWithError(w, http.StatusBadRequest, "Quality rating must be between 1 and 5")
		return
	}

	result, err := h.habitService.LogCompletion(ctx, userID, habitID, req)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error logging completion")
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}
