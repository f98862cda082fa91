package mood

import (
	"time"

	"github.com/google/uuid"
)

type MoodEntry struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	MoodRating  float64   `json:"mood_rating"`
	MoodEmoji   *string   `json:"mood_emoji,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Activities  *string   `json:"activities,omitempty"`
	SleepHours  *float64  `json:"sleep_hours,omitempty"`
	StressLevel *float64  `json:"stress_level,omitempty"`
	EnergyLevel *float64  `json:"energy_level,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type CreateMoodEntryRequest struct {
	MoodRating  float64  `json:"mood_rating" validate:"required,min=1,max=10"`
	MoodEmoji   *string  `json:"mood_emoji,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Activities  *string  `json:"activities,omitempty"`
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	StressLevel *float64 `json:"stress_level,omitempty" validate:"omitempty,min=1,max=10"`
	EnergyLevel *float64 `json:"energy_level,omitempty" validate:"omitempty,min=1,max=10"`
}
