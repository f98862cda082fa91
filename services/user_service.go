package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kultivateAPI/internal/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	query := `
	SELECT id, email, username, first_name, last_name, role, is_active, is_verified, profile_picture, bio, timezone, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.IsActive,
		&u.IsVerified,
		&u.ProfilePicture,
		&u.Bio,
		&u.Timezone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		username = COALESCE(NULLIF($2, ''), username),
		first_name = COALESCE(NULLIF($3, ''), first_name),
		last_name = COALESCE(NULLIF($4, ''), last_name),
		profile_picture = COALESCE(NULLIF($5, ''), profile_picture),
		bio = COALESCE(NULLIF($6, ''), bio),
		timezone = COALESCE(NULLIF($7, ''), timezone),
		updated_at = NOW()
	WHERE id = $1
	RETURNING id, email, username, first_name, last_name, role, is_active, is_verified, profile_picture, bio, timezone, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		userID,
		req.Username,
		req.FirstName,
		req.LastName,
		req.ProfilePicture,
		req.Bio,
		req.Timezone,
	).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.IsActive,
		&u.IsVerified,
		&u.ProfilePicture,
		&u.Bio,
		&u.Timezone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username already taken: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// DeleteUser removes the account and every record it owns in one transaction.
// Children go first so the delete never trips a foreign key.
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"habit_logs",
		"streaks",
		"notifications",
		"achievements",
		"mood_entries",
		"goals",
		"habits",
		"categories",
	}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table), userID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}

	return tx.Commit(ctx)
}
