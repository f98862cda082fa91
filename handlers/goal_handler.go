package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"kultivateAPI/internal/goal"
	"kultivateAPI/middleware"
	"kultivateAPI/services"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req goal.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.TargetValue <= 0 {
		respondWithError(w, http.StatusBadRequest, "Target value must be positive")
		return
	}

	newGoal, err := h.goalService.CreateGoal(ctx, userID, &req)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error creating goal")
		return
	}

	respondWithJSON(w, http.StatusCreated, newGoal)
}

func (h *GoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goals, err := h.goalService.GetGoals(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting goals")
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goalID, err := uuid.Parse(mux.Vars(r)["goalId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	found, err := h.goalService.GetGoal(ctx, userID, goalID)
	if err != nil {
		respondWithError(w, statusFromError(err), "Goal not found")
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goalID, err := uuid.Parse(mux.Vars(r)["goalId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	var req goal.UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TargetValue != nil && *req.TargetValue <= 0 {
		respondWithError(w, http.StatusBadRequest, "Target value must be positive")
		return
	}

	updated, err := h.goalService.UpdateGoal(ctx, userID, goalID, &req)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error updating goal")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goalID, err := uuid.Parse(mux.Vars(r)["goalId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	if err := h.goalService.DeleteGoal(ctx, userID, goalID); err != nil {
		respondWithError(w, statusFromError(err), "Error deleting goal")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})
}
