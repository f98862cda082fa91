package analytics

import "github.com/google/uuid"

type DashboardStats struct {
	TotalHabits          int     `json:"total_habits"`
	CompletedToday       int     `json:"completed_today"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
	WeeklyCompletionRate float64 `json:"weekly_completion_rate"`
	WeeklyCompletions    int     `json:"weekly_completions"`
}

type HabitPerformance struct {
	HabitID        uuid.UUID `json:"habit_id"`
	Title          string    `json:"title"`
	Completions    int       `json:"completions"`
	CompletionRate float64   `json:"completion_rate"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
}

type MoodTrendPoint struct {
	Date        string   `json:"date"`
	MoodRating  float64  `json:"mood_rating"`
	MoodEmoji   *string  `json:"mood_emoji,omitempty"`
	StressLevel *float64 `json:"stress_level,omitempty"`
	EnergyLevel *float64 `json:"energy_level,omitempty"`
}

type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	HabitID       uuid.UUID `json:"habit_id"`
	HabitTitle    string    `json:"habit_title"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	StartDate     string    `json:"start_date"`
}
