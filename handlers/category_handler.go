package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"kultivateAPI/internal/category"
	"kultivateAPI/middleware"
	"kultivateAPI/services"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req category.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	newCategory, err := h.categoryService.CreateCategory(ctx, userID, &req)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error creating category")
		return
	}

	respondWithJSON(w, http.StatusCreated, newCategory)
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	categories, err := h.categoryService.GetCategories(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error getting categories")
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	categoryID, err := uuid.Parse(mux.Vars(r)["categoryId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	var req category.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.categoryService.UpdateCategory(ctx, userID, categoryID, &req)
	if err != nil {
		respondWithError(w, statusFromError(err), "Error updating category")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	categoryID, err := uuid.Parse(mux.Vars(r)["categoryId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.categoryService.DeleteCategory(ctx, userID, categoryID); err != nil {
		respondWithError(w, statusFromError(err), "Error deleting category")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
