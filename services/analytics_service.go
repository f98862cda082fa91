package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"kultivateAPI/internal/analytics"
	"kultivateAPI/internal/habit"
	"kultivateAPI/utils"
)

type AnalyticsService struct {
	db *pgxpool.Pool
}

func NewAnalyticsService(db *pgxpool.Pool) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) GetDashboard(ctx context.Context, userID uuid.UUID) (*analytics.DashboardStats, error) {
	stats := &analytics.DashboardStats{}

	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1 AND is_active = true`, userID).Scan(&stats.TotalHabits)
	if err != nil {
		return nil, fmt.Errorf("failed to count habits: %w", err)
	}

	err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM habit_logs WHERE user_id = $1 AND completed_at::date = CURRENT_DATE`, userID).Scan(&stats.CompletedToday)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's completions: %w", err)
	}

	err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM habit_logs WHERE user_id = $1 AND completed_at::date >= CURRENT_DATE - 7`, userID).Scan(&stats.WeeklyCompletions)
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly completions: %w", err)
	}

	// Streak maxima come from the streak rows; the current figure is gated
	// in Go so a lapsed run reads as 0 even before its row is rewritten.
	query := `
	SELECT s.current_streak, s.longest_streak, s.last_completion_date, s.is_active, h.frequency
	FROM streaks s
	JOIN habits h ON h.id = s.habit_id
	WHERE s.user_id = $1
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streaks: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	for rows.Next() {
		var current, longest int
		var lastCompletion *time.Time
		var isActive bool
		var frequency habit.Frequency
		if err := rows.Scan(&current, &longest, &lastCompletion, &isActive, &frequency); err != nil {
			return nil, fmt.Errorf("failed to scan streak: %w", err)
		}

		if isActive {
			if effective := utils.EffectiveStreak(current, lastCompletion, frequency, now); effective > stats.CurrentStreak {
				stats.CurrentStreak = effective
			}
		}
		if longest > stats.LongestStreak {
			stats.LongestStreak = longest
		}
	}

	stats.WeeklyCompletionRate = utils.WeeklyCompletionRate(stats.WeeklyCompletions, stats.TotalHabits)

	return stats, nil
}

// The ::int casts on the window parameter matter: without one, Postgres
// resolves `CURRENT_DATE - $n` as date - date and the int no longer binds.
func (s *AnalyticsService) GetHabitsPerformance(ctx context.Context, userID uuid.UUID, days int) ([]*analytics.HabitPerformance, error) {
	query := `
	SELECT h.id, h.title, h.frequency, h.current_streak, h.longest_streak, s.last_completion_date,
		COUNT(l.id) FILTER (WHERE l.completed_at::date >= CURRENT_DATE - $2::int AND l.completed_at::date <= CURRENT_DATE) AS completions
	FROM habits h
	LEFT JOIN streaks s ON s.habit_id = h.id
	LEFT JOIN habit_logs l ON l.habit_id = h.id
	WHERE h.user_id = $1 AND h.is_active = true
	GROUP BY h.id, h.title, h.frequency, h.current_streak, h.longest_streak, s.last_completion_date
	ORDER BY h.created_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit performance: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	performance := []*analytics.HabitPerformance{}
	for rows.Next() {
		var frequency habit.Frequency
		var lastCompletion *time.Time
		p := &analytics.HabitPerformance{}
		if err := rows.Scan(&p.HabitID, &p.Title, &frequency, &p.CurrentStreak, &p.LongestStreak, &lastCompletion, &p.Completions); err != nil {
			return nil, fmt.Errorf("failed to scan habit performance: %w", err)
		}

		p.CurrentStreak = utils.EffectiveStreak(p.CurrentStreak, lastCompletion, frequency, now)
		p.CompletionRate = utils.CompletionRate(p.Completions, days)
		performance = append(performance, p)
	}

	return performance, nil
}

func (s *AnalyticsService) GetMoodTrends(ctx context.Context, userID uuid.UUID, days int) ([]*analytics.MoodTrendPoint, error) {
	query := `
	SELECT recorded_at, mood_rating, mood_emoji, stress_level, energy_level
	FROM mood_entries
	WHERE user_id = $1
		AND recorded_at::date >= CURRENT_DATE - $2::int
		AND recorded_at::date <= CURRENT_DATE
	ORDER BY recorded_at ASC
	`

	rows, err := s.db.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood trends: %w", err)
	}
	defer rows.Close()

	trends := []*analytics.MoodTrendPoint{}
	for rows.Next() {
		var recordedAt time.Time
		p := &analytics.MoodTrendPoint{}
		if err := rows.Scan(&recordedAt, &p.MoodRating, &p.MoodEmoji, &p.StressLevel, &p.EnergyLevel); err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		p.Date = recordedAt.Format("2006-01-02")
		trends = append(trends, p)
	}

	return trends, nil
}

// GetStreakLeaderboard ranks the user's top 10 live streaks. Ties on
// current_streak break on habit id so the order is deterministic.
func (s *AnalyticsService) GetStreakLeaderboard(ctx context.Context, userID uuid.UUID) ([]*analytics.LeaderboardEntry, error) {
	query := `
	SELECT s.habit_id, h.title, h.frequency, s.current_streak, s.longest_streak, s.start_date, s.last_completion_date
	FROM streaks s
	JOIN habits h ON h.id = s.habit_id
	WHERE s.user_id = $1 AND s.is_active = true
	ORDER BY s.current_streak DESC, s.habit_id ASC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	leaderboard := []*analytics.LeaderboardEntry{}
	for rows.Next() {
		var frequency habit.Frequency
		var startDate time.Time
		var lastCompletion *time.Time
		e := &analytics.LeaderboardEntry{}
		if err := rows.Scan(&e.HabitID, &e.HabitTitle, &frequency, &e.CurrentStreak, &e.LongestStreak, &startDate, &lastCompletion); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}

		e.CurrentStreak = utils.EffectiveStreak(e.CurrentStreak, lastCompletion, frequency, now)
		if e.CurrentStreak == 0 {
			continue // lapsed since its last recompute
		}

		e.StartDate = startDate.Format("2006-01-02")
		e.Rank = len(leaderboard) + 1
		leaderboard = append(leaderboard, e)

		if len(leaderboard) == 10 {
			break
		}
	}

	return leaderboard, nil
}
