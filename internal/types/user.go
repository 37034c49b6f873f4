package types

import (
	"time"

	"github.com/google/uuid"
)

type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileParams defines the fields allowed for profile updates.
// Pointers distinguish "not provided" from an explicit empty value.
type UpdateProfileParams struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}
