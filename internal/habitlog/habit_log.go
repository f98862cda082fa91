package habitlog

import (
	"time"

	"github.com/google/uuid"
)

type HabitLog struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	HabitID        uuid.UUID `json:"habit_id"`
	CompletedAt    time.Time `json:"completed_at"`
	Notes          *string   `json:"notes,omitempty"`
	MoodRating     *float64  `json:"mood_rating,omitempty"`
	CompletionTime *int      `json:"completion_time,omitempty"`
	IsCompleted    bool      `json:"is_completed"`
	QualityRating  *float64  `json:"quality_rating,omitempty"`
}

type LogCompletionRequest struct {
	Notes          *string  `json:"notes,omitempty"`
	MoodRating     *float64 `json:"mood_rating,omitempty" validate:"omitempty,min=1,max=10"`
	QualityRating  *float64 `json:"quality_rating,omitempty" validate:"omitempty,min=1,max=5"`
	CompletionTime *int     `json:"completion_time,omitempty"`
}

type LogCompletionResponse struct {
	Log           *HabitLog `json:"log"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
}
