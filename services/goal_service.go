package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kultivateAPI/internal/goal"
	"kultivateAPI/internal/notification"
	"kultivateAPI/utils"
)

type GoalService struct {
	db            *pgxpool.Pool
	notifications *NotificationService
}

func NewGoalService(db *pgxpool.Pool, notifications *NotificationService) *GoalService {
	return &GoalService{db: db, notifications: notifications}
}

const goalColumns = `id, user_id, title, description, target_value, current_value, unit, deadline, is_completed, completed_at, progress_percentage, created_at, updated_at`

func scanGoal(row pgx.Row) (*goal.Goal, error) {
	g := &goal.Goal{}
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.TargetValue,
		&g.CurrentValue,
		&g.Unit,
		&g.Deadline,
		&g.IsCompleted,
		&g.CompletedAt,
		&g.ProgressPercentage,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func (s *GoalService) CreateGoal(ctx context.Context, userID uuid.UUID, req *goal.CreateGoalRequest) (*goal.Goal, error) {
	query := fmt.Sprintf(`
	INSERT INTO goals (id, user_id, title, description, target_value, current_value, unit, deadline, is_completed, progress_percentage, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 0, $6, $7, false, 0, NOW(), NOW())
	RETURNING %s
	`, goalColumns)

	g, err := scanGoal(s.db.QueryRow(ctx, query, uuid.New(), userID, req.Title, req.Description, req.TargetValue, req.Unit, req.Deadline))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return g, nil
}

func (s *GoalService) GetGoals(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE user_id = $1 ORDER BY created_at ASC`, goalColumns)

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	defer rows.Close()

	goals := []*goal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	return goals, nil
}

func (s *GoalService) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*goal.Goal, error) {
	query := fmt.Sprintf(`SELECT %s FROM goals WHERE id = $1 AND user_id = $2`, goalColumns)

	g, err := scanGoal(s.db.QueryRow(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("goal: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return g, nil
}

// UpdateGoal merges the supplied fields, rederives progress_percentage, and
// stamps completed_at only on the transition to completed.
func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, req *goal.UpdateGoalRequest) (*goal.Goal, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`SELECT %s FROM goals WHERE id = $1 AND user_id = $2 FOR UPDATE`, goalColumns)
	g, err := scanGoal(tx.QueryRow(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("goal: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	if req.Title != nil {
		g.Title = *req.Title
	}
	if req.Description != nil {
		g.Description = req.Description
	}
	if req.TargetValue != nil {
		g.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		g.CurrentValue = *req.CurrentValue
	}
	if req.Unit != nil {
		g.Unit = req.Unit
	}
	if req.Deadline != nil {
		g.Deadline = req.Deadline
	}

	g.ProgressPercentage = utils.GoalProgress(g.CurrentValue, g.TargetValue)
	justCompleted := !g.IsCompleted && g.ProgressPercentage >= 100
	if justCompleted {
		g.IsCompleted = true
	}

	update := fmt.Sprintf(`
	UPDATE goals
	SET title = $3, description = $4, target_value = $5, current_value = $6, unit = $7,
		deadline = $8, is_completed = $9, progress_percentage = $10,
		completed_at = CASE WHEN $11 THEN NOW() ELSE completed_at END,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING %s
	`, goalColumns)

	g, err = scanGoal(tx.QueryRow(
		ctx,
		update,
		goalID,
		userID,
		g.Title,
		g.Description,
		g.TargetValue,
		g.CurrentValue,
		g.Unit,
		g.Deadline,
		g.IsCompleted,
		g.ProgressPercentage,
		justCompleted,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	if justCompleted {
		message := fmt.Sprintf("You reached your goal %q", g.Title)
		if _, err := s.notifications.Create(ctx, tx, userID, notification.TypeGoal, "Goal completed", message, nil); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return g, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("goal: %w", ErrNotFound)
	}
	return nil
}
