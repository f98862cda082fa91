package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kultivateAPI/internal/achievement"
	"kultivateAPI/internal/notification"
)

type AchievementService struct {
	db            *pgxpool.Pool
	notifications *NotificationService
}

func NewAchievementService(db *pgxpool.Pool, notifications *NotificationService) *AchievementService {
	return &AchievementService{db: db, notifications: notifications}
}

func (s *AchievementService) GetAchievements(ctx context.Context, userID uuid.UUID) ([]*achievement.Achievement, error) {
	query := `
	SELECT id, user_id, title, description, icon, points, is_unlocked, unlocked_at, created_at
	FROM achievements
	WHERE user_id = $1
	ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}
	defer rows.Close()

	achievements := []*achievement.Achievement{}
	for rows.Next() {
		a := &achievement.Achievement{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Icon, &a.Points, &a.IsUnlocked, &a.UnlockedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}

	return achievements, nil
}

// UnlockStreakMilestones unlocks every milestone the streak has reached,
// inside the caller's transaction. unlocked_at is only stamped on the
// transition to unlocked; already-unlocked rows are left alone.
func (s *AchievementService) UnlockStreakMilestones(ctx context.Context, q querier, userID uuid.UUID, habitTitle string, streakLength int) error {
	for _, m := range achievement.StreakMilestones {
		if streakLength < m.Length {
			continue
		}

		var unlocked bool
		err := q.QueryRow(ctx, `SELECT is_unlocked FROM achievements WHERE user_id = $1 AND title = $2`, userID, m.Title).Scan(&unlocked)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			insert := `
			INSERT INTO achievements (id, user_id, title, description, icon, points, is_unlocked, unlocked_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, true, NOW(), NOW())
			`
			if _, err := q.Exec(ctx, insert, uuid.New(), userID, m.Title, m.Description, m.Icon, m.Points); err != nil {
				return fmt.Errorf("failed to unlock achievement %q: %w", m.Title, err)
			}
		case err != nil:
			return fmt.Errorf("failed to check achievement %q: %w", m.Title, err)
		case unlocked:
			continue
		default:
			update := `UPDATE achievements SET is_unlocked = true, unlocked_at = NOW() WHERE user_id = $1 AND title = $2`
			if _, err := q.Exec(ctx, update, userID, m.Title); err != nil {
				return fmt.Errorf("failed to unlock achievement %q: %w", m.Title, err)
			}
		}

		message := fmt.Sprintf("%q hit a %d-unit streak and unlocked %q (+%d points)", habitTitle, m.Length, m.Title, m.Points)
		if _, err := s.notifications.Create(ctx, q, userID, notification.TypeAchievement, m.Title, message, nil); err != nil {
			return fmt.Errorf("failed to notify achievement %q: %w", m.Title, err)
		}

		log.Printf("Unlocked achievement %q for user %s (streak %d)", m.Title, userID, streakLength)
	}

	return nil
}
