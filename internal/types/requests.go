package types

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// MealRequest is used for both creating and updating a meal
type MealRequest struct {
	Name        string    `json:"name" binding:"required,max=255"`
	MealType    string    `json:"meal_type" binding:"required,oneof=BREAKFAST LUNCH DINNER SNACK OTHER"`
	Ingredients []string  `json:"ingredients" binding:"omitempty,dive,required,max=255"`
	Notes       string    `json:"notes" binding:"max=4000"`
	LoggedAt    time.Time `json:"logged_at" binding:"required"`
}

// SymptomRequest is used for both creating and updating a symptom
type SymptomRequest struct {
	Name     string    `json:"name" binding:"required,max=255"`
	Severity int       `json:"severity" binding:"required,min=1,max=5"`
	Notes    string    `json:"notes" binding:"max=4000"`
	LoggedAt time.Time `json:"logged_at" binding:"required"`
}

// ReportSummary is a list entry in the report history
type ReportSummary struct {
	ID               uuid.UUID `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	SchemaVersion    string    `json:"schema_version"`
	ExecutiveSummary string    `json:"executive_summary"`
	SuspectFoodCount int       `json:"suspect_food_count"`
}

// TimelineEntry is one item of the merged meal/symptom timeline
type TimelineEntry struct {
	Kind     string      `json:"kind"`
	LoggedAt time.Time   `json:"logged_at"`
	Item     interface{} `json:"item"`
}
