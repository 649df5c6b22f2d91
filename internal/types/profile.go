package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the public view of a user account
type UserProfile struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	HealthContext string    `json:"health_context"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateProfileRequest represents a request to update a user's profile.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name          *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	HealthContext *string `json:"health_context,omitempty" binding:"omitempty,max=4000"`
}
