package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealtracker/backend/internal/types"
)

// Report is a stored sensitivity report. Reports are immutable once created.
type Report struct {
	ID            uuid.UUID           `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID           `gorm:"type:varchar(36);not null;index:idx_reports_user_created" json:"user_id"`
	SchemaVersion string              `gorm:"size:10;not null" json:"schema_version"`
	Content       types.ReportContent `gorm:"type:jsonb;not null" json:"content"`
	CreatedAt     time.Time           `gorm:"index:idx_reports_user_created" json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.SchemaVersion == "" {
		r.SchemaVersion = types.ReportSchemaVersion
	}
	return nil
}
