package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kultivateAPI/internal/habit"
	"kultivateAPI/internal/habitlog"
	"kultivateAPI/internal/streak"
	"kultivateAPI/utils"
)

type HabitService struct {
	db           *pgxpool.Pool
	achievements *AchievementService
}

func NewHabitService(db *pgxpool.Pool, achievements *AchievementService) *HabitService {
	return &HabitService{db: db, achievements: achievements}
}

const habitColumns = `id, user_id, category_id, title, description, frequency, priority, target_count, current_streak, longest_streak, reminder_time, is_active, color, icon, created_at, updated_at`

func scanHabit(row pgx.Row) (*habit.Habit, error) {
	h := &habit.Habit{}
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.CategoryID,
		&h.Title,
		&h.Description,
		&h.Frequency,
		&h.Priority,
		&h.TargetCount,
		&h.CurrentStreak,
		&h.LongestStreak,
		&h.ReminderTime,
		&h.IsActive,
		&h.Color,
		&h.Icon,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	return h, err
}

func (s *HabitService) CreateHabit(ctx context.Context, userID uuid.UUID, req *habit.CreateHabitRequest) (*habit.Habit, error) {
	frequency := req.Frequency
	if frequency == "" {
		frequency = habit.FrequencyDaily
	}
	priority := req.Priority
	if priority == "" {
		priority = habit.PriorityMedium
	}
	targetCount := 1
	if req.TargetCount != nil {
		targetCount = *req.TargetCount
	}
	color := req.Color
	if color == "" {
		color = "#3B82F6"
	}
	icon := req.Icon
	if icon == "" {
		icon = "star"
	}

	query := fmt.Sprintf(`
	INSERT INTO habits (id, user_id, category_id, title, description, frequency, priority, target_count, current_streak, longest_streak, reminder_time, is_active, color, icon, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, true, $10, $11, NOW(), NOW())
	RETURNING %s
	`, habitColumns)

	h, err := scanHabit(s.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		userID,
		req.CategoryID,
		req.Title,
		req.Description,
		frequency,
		priority,
		targetCount,
		req.ReminderTime,
		color,
		icon,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return h, nil
}

// Reads join the streaks row so a lapsed streak reports as 0 even before the
// next completion rewrites the stored counter.
const habitReadColumns = `h.id, h.user_id, h.category_id, h.title, h.description, h.frequency, h.priority, h.target_count, h.current_streak, h.longest_streak, h.reminder_time, h.is_active, h.color, h.icon, h.created_at, h.updated_at, s.last_completion_date`

func scanHabitRead(row pgx.Row, now time.Time) (*habit.Habit, error) {
	h := &habit.Habit{}
	var lastCompletion *time.Time
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.CategoryID,
		&h.Title,
		&h.Description,
		&h.Frequency,
		&h.Priority,
		&h.TargetCount,
		&h.CurrentStreak,
		&h.LongestStreak,
		&h.ReminderTime,
		&h.IsActive,
		&h.Color,
		&h.Icon,
		&h.CreatedAt,
		&h.UpdatedAt,
		&lastCompletion,
	)
	if err != nil {
		return nil, err
	}

	h.CurrentStreak = utils.EffectiveStreak(h.CurrentStreak, lastCompletion, h.Frequency, now)
	return h, nil
}

func (s *HabitService) GetHabits(ctx context.Context, userID uuid.UUID) ([]*habit.Habit, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM habits h
	LEFT JOIN streaks s ON s.habit_id = h.id
	WHERE h.user_id = $1
	ORDER BY h.created_at ASC
	`, habitReadColumns)

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	habits := []*habit.Habit{}
	for rows.Next() {
		h, err := scanHabitRead(rows, now)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}

	return habits, nil
}

func (s *HabitService) GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*habit.HabitWithLogs, error) {
	query := fmt.Sprintf(`
	SELECT %s FROM habits h
	LEFT JOIN streaks s ON s.habit_id = h.id
	WHERE h.id = $1 AND h.user_id = $2
	`, habitReadColumns)

	h, err := scanHabitRead(s.db.QueryRow(ctx, query, habitID, userID), time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("habit: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	logs, err := s.getLogs(ctx, s.db, habitID)
	if err != nil {
		return nil, err
	}

	return &habit.HabitWithLogs{Habit: *h, Logs: logs}, nil
}

// UpdateHabit merges the supplied fields onto the stored record inside one
// transaction, so a concurrent completion log never interleaves with a
// half-applied patch.
func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, req *habit.UpdateHabitRequest) (*habit.Habit, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`SELECT %s FROM habits WHERE id = $1 AND user_id = $2 FOR UPDATE`, habitColumns)
	h, err := scanHabit(tx.QueryRow(ctx, query, habitID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("habit: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	if req.Title != nil {
		h.Title = *req.Title
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.CategoryID != nil {
		h.CategoryID = req.CategoryID
	}
	if req.Frequency != nil {
		h.Frequency = *req.Frequency
	}
	if req.Priority != nil {
		h.Priority = *req.Priority
	}
	if req.TargetCount != nil {
		h.TargetCount = *req.TargetCount
	}
	if req.ReminderTime != nil {
		h.ReminderTime = req.ReminderTime
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}
	if req.Color != nil {
		h.Color = *req.Color
	}
	if req.Icon != nil {
		h.Icon = *req.Icon
	}

	update := fmt.Sprintf(`
	UPDATE habits
	SET category_id = $3, title = $4, description = $5, frequency = $6, priority = $7,
		target_count = $8, reminder_time = $9, is_active = $10, color = $11, icon = $12,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING %s
	`, habitColumns)

	h, err = scanHabit(tx.QueryRow(
		ctx,
		update,
		habitID,
		userID,
		h.CategoryID,
		h.Title,
		h.Description,
		h.Frequency,
		h.Priority,
		h.TargetCount,
		h.ReminderTime,
		h.IsActive,
		h.Color,
		h.Icon,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return h, nil
}

// DeleteHabit removes the habit together with its logs and streaks in one
// transaction.
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM habits WHERE id = $1 AND user_id = $2)`, habitID, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check habit: %w", err)
	}
	if !exists {
		return fmt.Errorf("habit: %w", ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM habit_logs WHERE habit_id = $1`, habitID); err != nil {
		return fmt.Errorf("failed to delete habit logs: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM streaks WHERE habit_id = $1`, habitID); err != nil {
		return fmt.Errorf("failed to delete streaks: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM habits WHERE id = $1`, habitID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *HabitService) GetHabitLogs(ctx context.Context, userID, habitID uuid.UUID) ([]*habitlog.HabitLog, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM habits WHERE id = $1 AND user_id = $2)`, habitID, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check habit: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("habit: %w", ErrNotFound)
	}

	return s.getLogs(ctx, s.db, habitID)
}

func (s *HabitService) getLogs(ctx context.Context, q querier, habitID uuid.UUID) ([]*habitlog.HabitLog, error) {
	query := `
	SELECT id, user_id, habit_id, completed_at, notes, mood_rating, completion_time, is_completed, quality_rating
	FROM habit_logs
	WHERE habit_id = $1
	ORDER BY completed_at DESC
	`

	rows, err := q.Query(ctx, query, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit logs: %w", err)
	}
	defer rows.Close()

	logs := []*habitlog.HabitLog{}
	for rows.Next() {
		l := &habitlog.HabitLog{}
		if err := rows.Scan(&l.ID, &l.UserID, &l.HabitID, &l.CompletedAt, &l.Notes, &l.MoodRating, &l.CompletionTime, &l.IsCompleted, &l.QualityRating); err != nil {
			return nil, fmt.Errorf("failed to scan habit log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, nil
}

// GetStreak returns the habit's streak row. The current figure is gated to 0
// when the streak has lapsed since its last recompute.
func (s *HabitService) GetStreak(ctx context.Context, userID, habitID uuid.UUID) (*streak.Streak, error) {
	query := `
	SELECT s.id, s.user_id, s.habit_id, s.current_streak, s.longest_streak, s.start_date, s.last_completion_date, s.is_active, s.created_at, s.updated_at, h.frequency
	FROM streaks s
	JOIN habits h ON h.id = s.habit_id
	WHERE s.habit_id = $1 AND s.user_id = $2
	`

	st := &streak.Streak{}
	var frequency habit.Frequency
	err := s.db.QueryRow(ctx, query, habitID, userID).Scan(
		&st.ID,
		&st.UserID,
		&st.HabitID,
		&st.CurrentStreak,
		&st.LongestStreak,
		&st.StartDate,
		&st.LastCompletionDate,
		&st.IsActive,
		&st.CreatedAt,
		&st.UpdatedAt,
		&frequency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A habit with no completions yet still answers with zero counters.
			var exists bool
			if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM habits WHERE id = $1 AND user_id = $2)`, habitID, userID).Scan(&exists); err != nil {
				return nil, fmt.Errorf("failed to check habit: %w", err)
			}
			if !exists {
				return nil, fmt.Errorf("habit: %w", ErrNotFound)
			}
			return &streak.Streak{UserID: userID, HabitID: habitID}, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	st.CurrentStreak = utils.EffectiveStreak(st.CurrentStreak, st.LastCompletionDate, frequency, time.Now())
	if st.CurrentStreak == 0 {
		st.IsActive = false
	}

	return st, nil
}

// LogCompletion inserts the log and recomputes the habit's streak in one
// transaction, so no reader ever sees a log without its streak update.
func (s *HabitService) LogCompletion(ctx context.Context, userID, habitID uuid.UUID, req *habitlog.LogCompletionRequest) (*habitlog.LogCompletionResponse, error) {
	if req == nil {
		req = &habitlog.LogCompletionRequest{}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var frequency habit.Frequency
	var title string
	var longestStreak int
	err = tx.QueryRow(ctx, `SELECT frequency, title, longest_streak FROM habits WHERE id = $1 AND user_id = $2 FOR UPDATE`, habitID, userID).
		Scan(&frequency, &title, &longestStreak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("habit: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	insert := `
	INSERT INTO habit_logs (id, user_id, habit_id, completed_at, notes, mood_rating, completion_time, is_completed, quality_rating)
	VALUES ($1, $2, $3, NOW(), $4, $5, $6, true, $7)
	RETURNING id, user_id, habit_id, completed_at, notes, mood_rating, completion_time, is_completed, quality_rating
	`

	l := &habitlog.HabitLog{}
	err = tx.QueryRow(ctx, insert, uuid.New(), userID, habitID, req.Notes, req.MoodRating, req.CompletionTime, req.QualityRating).
		Scan(&l.ID, &l.UserID, &l.HabitID, &l.CompletedAt, &l.Notes, &l.MoodRating, &l.CompletionTime, &l.IsCompleted, &l.QualityRating)
	if err != nil {
		return nil, fmt.Errorf("failed to insert habit log: %w", err)
	}

	current, longest, err := s.recomputeStreak(ctx, tx, userID, habitID, frequency, longestStreak)
	if err != nil {
		return nil, err
	}

	if err := s.achievements.UnlockStreakMilestones(ctx, tx, userID, title, current); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return &habitlog.LogCompletionResponse{
		Log:           l,
		CurrentStreak: current,
		LongestStreak: longest,
	}, nil
}

// recomputeStreak walks the habit's completion dates backwards from today and
// rewrites both the habit counters and the streaks row. Runs inside the
// caller's transaction.
func (s *HabitService) recomputeStreak(ctx context.Context, tx pgx.Tx, userID, habitID uuid.UUID, frequency habit.Frequency, storedLongest int) (int, int, error) {
	rows, err := tx.Query(ctx, `SELECT completed_at FROM habit_logs WHERE habit_id = $1 AND is_completed = true`, habitID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load completions: %w", err)
	}
	defer rows.Close()

	var completions []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return 0, 0, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, t)
	}
	rows.Close()

	now := time.Now()
	current := utils.ComputeStreak(completions, frequency, now)
	longest := storedLongest
	if current > longest {
		longest = current
	}

	update := `UPDATE habits SET current_streak = $3, longest_streak = $4, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	if _, err := tx.Exec(ctx, update, habitID, userID, current, longest); err != nil {
		return 0, 0, fmt.Errorf("failed to update habit streak: %w", err)
	}

	startDate := utils.StartOfUnit(now, frequency)
	if current > 0 {
		startDate = utils.StreakStart(now, frequency, current)
	}

	upsert := `
	INSERT INTO streaks (id, user_id, habit_id, current_streak, longest_streak, start_date, last_completion_date, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	ON CONFLICT (habit_id) DO UPDATE SET
		current_streak = EXCLUDED.current_streak,
		longest_streak = GREATEST(streaks.longest_streak, EXCLUDED.longest_streak),
		start_date = EXCLUDED.start_date,
		last_completion_date = EXCLUDED.last_completion_date,
		is_active = EXCLUDED.is_active,
		updated_at = NOW()
	`
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	_, err = tx.Exec(ctx, upsert, uuid.New(), userID, habitID, current, longest, startDate, today, current > 0)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to upsert streak: %w", err)
	}

	return current, longest, nil
}
