package achievement

import (
	"time"

	"github.com/google/uuid"
)

type Achievement struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Points      int        `json:"points"`
	IsUnlocked  bool       `json:"is_unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// StreakMilestone describes an achievement earned at a streak length.
type StreakMilestone struct {
	Length      int
	Title       string
	Description string
	Icon        string
	Points      int
}

var StreakMilestones = []StreakMilestone{
	{Length: 7, Title: "One Week Strong", Description: "Kept a streak alive for 7 units in a row", Icon: "flame", Points: 10},
	{Length: 30, Title: "Monthly Master", Description: "Kept a streak alive for 30 units in a row", Icon: "trophy", Points: 50},
	{Length: 100, Title: "Century Club", Description: "Kept a streak alive for 100 units in a row", Icon: "crown", Points: 200},
}
