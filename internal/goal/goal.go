package goal

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	TargetValue        float64    `json:"target_value"`
	CurrentValue       float64    `json:"current_value"`
	Unit               *string    `json:"unit,omitempty"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	IsCompleted        bool       `json:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ProgressPercentage float64    `json:"progress_percentage"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type CreateGoalRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description,omitempty"`
	TargetValue float64    `json:"target_value" validate:"required,gt=0"`
	Unit        *string    `json:"unit,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateGoalRequest carries a sparse field set. Nil means "leave unchanged".
type UpdateGoalRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	TargetValue  *float64   `json:"target_value,omitempty"`
	CurrentValue *float64   `json:"current_value,omitempty"`
	Unit         *string    `json:"unit,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}
