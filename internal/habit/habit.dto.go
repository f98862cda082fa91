package habit

import (
	"github.com/google/uuid"

	"kultivateAPI/internal/habitlog"
)

type CreateHabitRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Frequency    Frequency  `json:"frequency,omitempty"`
	Priority     Priority   `json:"priority,omitempty"`
	TargetCount  *int       `json:"target_count,omitempty"`
	ReminderTime *string    `json:"reminder_time,omitempty"`
	Color        string     `json:"color,omitempty"`
	Icon         string     `json:"icon,omitempty"`
}

// UpdateHabitRequest carries a sparse field set. Nil means "leave unchanged".
type UpdateHabitRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Frequency    *Frequency `json:"frequency,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	TargetCount  *int       `json:"target_count,omitempty"`
	ReminderTime *string    `json:"reminder_time,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
	Color        *string    `json:"color,omitempty"`
	Icon         *string    `json:"icon,omitempty"`
}

type HabitWithLogs struct {
	Habit
	Logs []*habitlog.HabitLog `json:"logs"`
}
