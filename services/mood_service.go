package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"kultivateAPI/internal/mood"
)

type MoodService struct {
	db *pgxpool.Pool
}

func NewMoodService(db *pgxpool.Pool) *MoodService {
	return &MoodService{db: db}
}

func (s *MoodService) CreateEntry(ctx context.Context, userID uuid.UUID, req *mood.CreateMoodEntryRequest) (*mood.MoodEntry, error) {
	query := `
	INSERT INTO mood_entries (id, user_id, mood_rating, mood_emoji, notes, activities, sleep_hours, stress_level, energy_level, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	RETURNING id, user_id, mood_rating, mood_emoji, notes, activities, sleep_hours, stress_level, energy_level, recorded_at
	`

	m := &mood.MoodEntry{}
	err := s.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		userID,
		req.MoodRating,
		req.MoodEmoji,
		req.Notes,
		req.Activities,
		req.SleepHours,
		req.StressLevel,
		req.EnergyLevel,
	).Scan(
		&m.ID, &m.UserID, &m.MoodRating, &m.MoodEmoji, &m.Notes, &m.Activities,
		&m.SleepHours, &m.StressLevel, &m.EnergyLevel, &m.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}

	return m, nil
}

func (s *MoodService) GetEntries(ctx context.Context, userID uuid.UUID) ([]*mood.MoodEntry, error) {
	query := `
	SELECT id, user_id, mood_rating, mood_emoji, notes, activities, sleep_hours, stress_level, energy_level, recorded_at
	FROM mood_entries
	WHERE user_id = $1
	ORDER BY recorded_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entries: %w", err)
	}
	defer rows.Close()

	entries := []*mood.MoodEntry{}
	for rows.Next() {
		m := &mood.MoodEntry{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.MoodRating, &m.MoodEmoji, &m.Notes, &m.Activities, &m.SleepHours, &m.StressLevel, &m.EnergyLevel, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		entries = append(entries, m)
	}

	return entries, nil
}
