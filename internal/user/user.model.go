package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	FirstName      string    `json:"firstName,omitempty"`
	LastName       string    `json:"lastName,omitempty"`
	Role           Role      `json:"role"`
	IsActive       bool      `json:"isActive"`
	IsVerified     bool      `json:"isVerified"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Timezone       string    `json:"timezone"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
