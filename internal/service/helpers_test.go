package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/mealtracker/backend/internal/models"
	"github.com/pageza/mealtracker/backend/internal/service"
	"github.com/pageza/mealtracker/backend/internal/types"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// seedScenario logs three meals over two days and one evening symptom.
func seedScenario(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	meals := service.NewMealService(db)
	symptoms := service.NewSymptomService(db)

	for _, req := range []types.MealRequest{
		{Name: "Oatmeal", MealType: "BREAKFAST", Ingredients: []string{"oats", "milk"}, LoggedAt: at("2024-01-01T08:00:00Z")},
		{Name: "Pasta with garlic", MealType: "LUNCH", Ingredients: []string{"wheat pasta", "garlic", "olive oil"}, LoggedAt: at("2024-01-01T13:00:00Z")},
		{Name: "Eggs", MealType: "BREAKFAST", Ingredients: []string{"eggs"}, LoggedAt: at("2024-01-02T09:00:00Z")},
	} {
		req := req
		_, err := meals.Create(ctx, userID, &req)
		require.NoError(t, err)
	}

	_, err := symptoms.Create(ctx, userID, &types.SymptomRequest{
		Name:     "Bloating",
		Severity: 4,
		Notes:    "after lunch",
		LoggedAt: at("2024-01-01T19:00:00Z"),
	})
	require.NoError(t, err)
}

func scenarioDiary() *service.Diary {
	meals := []models.Meal{
		{Name: "Oatmeal", MealType: models.MealTypeBreakfast, Ingredients: models.StringArray{"oats", "milk"}, LoggedAt: at("2024-01-01T08:00:00Z")},
		{Name: "Pasta with garlic", MealType: models.MealTypeLunch, Ingredients: models.StringArray{"wheat pasta", "garlic"}, LoggedAt: at("2024-01-01T13:00:00Z")},
		{Name: "Eggs", MealType: models.MealTypeBreakfast, LoggedAt: at("2024-01-02T09:00:00Z")},
	}
	symptoms := []models.Symptom{
		{Name: "Bloating", Severity: 4, LoggedAt: at("2024-01-01T19:00:00Z")},
	}
	return &service.Diary{
		Meals:    meals,
		Symptoms: symptoms,
		Stats:    service.ComputeStats(meals, symptoms, time.UTC),
	}
}
