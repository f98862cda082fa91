package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeReminder    Type = "reminder"
	TypeAchievement Type = "achievement"
	TypeStreak      Type = "streak"
	TypeGoal        Type = "goal"
	TypeSystem      Type = "system"
)

func (t Type) Valid() bool {
	switch t {
	case TypeReminder, TypeAchievement, TypeStreak, TypeGoal, TypeSystem:
		return true
	}
	return false
}

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message,omitempty"`
	Type      Type       `json:"type"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	Data      *string    `json:"data,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
	Total         int             `json:"total"`
}
