package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinSeverity = 1
	MaxSeverity = 5
)

type Symptom struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_symptoms_user_logged" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Severity  int       `gorm:"not null;check:severity >= 1 AND severity <= 5" json:"severity"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	LoggedAt  time.Time `gorm:"not null;index:idx_symptoms_user_logged" json:"logged_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Symptom) TableName() string {
	return "symptoms"
}

func (s *Symptom) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
