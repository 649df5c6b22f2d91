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

const (
	// DefaultPageSize bounds list endpoints that take no explicit limit.
	DefaultPageSize = 50
	maxPageSize     = 200
)

// MealService manages meals. Every method is scoped by the owning user.
type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

func (s *MealService) Create(ctx context.Context, userID uuid.UUID, req *types.MealRequest) (*models.Meal, error) {
	meal := &models.Meal{UserID: userID}
	applyMealRequest(meal, req)

	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	return meal, nil
}

func (s *MealService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return &meal, nil
}

// List returns the user's meals, most recent first.
func (s *MealService) List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC, id DESC").
		Limit(clampLimit(limit)).
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

func (s *MealService) Update(ctx context.Context, userID, id uuid.UUID, req *types.MealRequest) (*models.Meal, error) {
	meal, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	applyMealRequest(meal, req)

	if err := s.db.WithContext(ctx).Save(meal).Error; err != nil {
		return nil, fmt.Errorf("failed to update meal: %w", err)
	}
	return meal, nil
}

func (s *MealService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Meal{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete meal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MealService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Meal{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count meals: %w", err)
	}
	return count, nil
}

func applyMealRequest(meal *models.Meal, req *types.MealRequest) {
	meal.Name = strings.TrimSpace(req.Name)
	meal.MealType = models.MealType(req.MealType)
	meal.Notes = strings.TrimSpace(req.Notes)
	meal.LoggedAt = req.LoggedAt.UTC()

	ingredients := make(models.StringArray, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	meal.Ingredients = ingredients
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
