package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kultivateAPI/internal/category"
)

type CategoryService struct {
	db *pgxpool.Pool
}

func NewCategoryService(db *pgxpool.Pool) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, req *category.CreateCategoryRequest) (*category.Category, error) {
	color := req.Color
	if color == "" {
		color = "#6B7280"
	}
	icon := req.Icon
	if icon == "" {
		icon = "folder"
	}

	query := `
	INSERT INTO categories (id, user_id, name, description, color, icon, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	RETURNING id, user_id, name, description, color, icon, created_at, updated_at
	`

	c := &category.Category{}
	err := s.db.QueryRow(ctx, query, uuid.New(), userID, req.Name, req.Description, color, icon).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return c, nil
}

func (s *CategoryService) GetCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `
	SELECT id, user_id, name, description, color, icon, created_at, updated_at
	FROM categories
	WHERE user_id = $1
	ORDER BY name ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	categories := []*category.Category{}
	for rows.Next() {
		c := &category.Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, req *category.UpdateCategoryRequest) (*category.Category, error) {
	query := `
	UPDATE categories
	SET
		name = COALESCE(NULLIF($3, ''), name),
		description = COALESCE(NULLIF($4, ''), description),
		color = COALESCE(NULLIF($5, ''), color),
		icon = COALESCE(NULLIF($6, ''), icon),
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, name, description, color, icon, created_at, updated_at
	`

	c := &category.Category{}
	err := s.db.QueryRow(ctx, query, categoryID, userID, req.Name, req.Description, req.Color, req.Icon).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return c, nil
}

// DeleteCategory detaches the category's habits before removing it; habits
// outlive their category.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE habits SET category_id = NULL WHERE category_id = $1 AND user_id = $2`, categoryID, userID); err != nil {
		return fmt.Errorf("failed to detach habits: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("category: %w", ErrNotFound)
	}

	return tx.Commit(ctx)
}
