package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealtracker/backend/internal/models"
	"github.com/pageza/mealtracker/backend/internal/types"
)

// SymptomService manages symptoms. Every method is scoped by the owning user.
type SymptomService struct {
	db *gorm.DB
}

func NewSymptomService(db *gorm.DB) *SymptomService {
	return &SymptomService{db: db}
}

func (s *SymptomService) Create(ctx context.Context, userID uuid.UUID, req *types.SymptomRequest) (*models.Symptom, error) {
	if err := checkSeverity(req.Severity); err != nil {
		return nil, err
	}
	symptom := &models.Symptom{UserID: userID}
	applySymptomRequest(symptom, req)

	if err := s.db.WithContext(ctx).Create(symptom).Error; err != nil {
		return nil, fmt.Errorf("failed to create symptom: %w", err)
	}
	return symptom, nil
}

func (s *SymptomService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Symptom, error) {
	var symptom models.Symptom
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&symptom).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get symptom: %w", err)
	}
	return &symptom, nil
}

// List returns the user's symptoms, most recent first.
func (s *SymptomService) List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Symptom, error) {
	var symptoms []models.Symptom
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC, id DESC").
		Limit(clampLimit(limit)).
		Find(&symptoms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list symptoms: %w", err)
	}
	return symptoms, nil
}

func (s *SymptomService) Update(ctx context.Context, userID, id uuid.UUID, req *types.SymptomRequest) (*models.Symptom, error) {
	if err := checkSeverity(req.Severity); err != nil {
		return nil, err
	}
	symptom, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	applySymptomRequest(symptom, req)

	if err := s.db.WithContext(ctx).Save(symptom).Error; err != nil {
		return nil, fmt.Errorf("failed to update symptom: %w", err)
	}
	return symptom, nil
}

func (s *SymptomService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Symptom{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete symptom: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SymptomService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Symptom{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count symptoms: %w", err)
	}
	return count, nil
}

// ErrInvalidSeverity is returned for severities outside 1..5.
var ErrInvalidSeverity = fmt.Errorf("severity must be between %d and %d", models.MinSeverity, models.MaxSeverity)

func checkSeverity(severity int) error {
	if severity < models.MinSeverity || severity > models.MaxSeverity {
		return ErrInvalidSeverity
	}
	return nil
}

func applySymptomRequest(symptom *models.Symptom, req *types.SymptomRequest) {
	symptom.Name = strings.TrimSpace(req.Name)
	symptom.Severity = req.Severity
	symptom.Notes = strings.TrimSpace(req.Notes)
	symptom.LoggedAt = req.LoggedAt.UTC()
}
