package streak

import (
	"time"

	"github.com/google/uuid"
)

type Streak struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	HabitID            uuid.UUID  `json:"habit_id"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	StartDate          time.Time  `json:"start_date"`
	LastCompletionDate *time.Time `json:"last_completion_date,omitempty"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
