package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/mealtracker/backend/config"
	"github.com/pageza/mealtracker/backend/internal/database"
	"github.com/pageza/mealtracker/backend/internal/logging"
	"github.com/pageza/mealtracker/backend/internal/service"
	"github.com/pageza/mealtracker/backend/internal/types"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demopassword123"
)

type demoMeal struct {
	daysAgo     int
	hour        int
	name        string
	mealType    string
	ingredients []string
}

type demoSymptom struct {
	daysAgo  int
	hour     int
	name     string
	severity int
	notes    string
}

// A week with a recurring garlic/onion pattern so a generated report has
// something to find.
var (
	demoMeals = []demoMeal{
		{6, 8, "Oatmeal", "BREAKFAST", []string{"oats", "milk", "banana"}},
		{6, 12, "Pasta with garlic sauce", "LUNCH", []string{"pasta", "garlic", "olive oil"}},
		{5, 13, "Rice and beans", "LUNCH", []string{"rice", "black beans", "onion"}},
		{4, 8, "Toast", "BREAKFAST", []string{"bread", "butter"}},
		{4, 19, "Chicken stir fry", "DINNER", []string{"chicken", "garlic", "soy sauce", "peppers"}},
		{3, 12, "Salad", "LUNCH", []string{"lettuce", "tomato", "cucumber"}},
		{2, 13, "Pizza", "LUNCH", []string{"dough", "cheese", "tomato", "garlic"}},
		{1, 16, "Apple", "SNACK", []string{"apple"}},
		{1, 20, "Onion soup", "DINNER", []string{"onion", "beef broth", "cheese"}},
	}
	demoSymptoms = []demoSymptom{
		{6, 15, "Bloating", 4, "after lunch"},
		{5, 17, "Gas", 3, ""},
		{4, 22, "Bloating", 3, ""},
		{4, 23, "Abdominal pain", 2, ""},
		{2, 16, "Bloating", 4, "felt heavy all afternoon"},
		{1, 23, "Gas", 3, ""},
	}
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(ctx, db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	auth := service.NewAuthService(db, cfg.JWTSecret)
	user, _, err := auth.Register(ctx, &types.RegisterRequest{
		Name:     "Demo User",
		Email:    demoEmail,
		Password: demoPassword,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		logger.Info("Demo user already exists, skipping", zap.String("email", demoEmail))
		return
	}
	if err != nil {
		logger.Fatal("Failed to create demo user", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		logger.Fatal("Invalid report timezone", zap.Error(err))
	}
	today := time.Now().In(loc)
	at := func(daysAgo, hour int) time.Time {
		d := today.AddDate(0, 0, -daysAgo)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
	}

	meals := service.NewMealService(db)
	for _, m := range demoMeals {
		_, err := meals.Create(ctx, user.ID, &types.MealRequest{
			Name:        m.name,
			MealType:    m.mealType,
			Ingredients: m.ingredients,
			LoggedAt:    at(m.daysAgo, m.hour),
		})
		if err != nil {
			logger.Fatal("Failed to create meal", zap.String("meal", m.name), zap.Error(err))
		}
	}

	symptoms := service.NewSymptomService(db)
	for _, s := range demoSymptoms {
		_, err := symptoms.Create(ctx, user.ID, &types.SymptomRequest{
			Name:     s.name,
			Severity: s.severity,
			Notes:    s.notes,
			LoggedAt: at(s.daysAgo, s.hour),
		})
		if err != nil {
			logger.Fatal("Failed to create symptom", zap.String("symptom", s.name), zap.Error(err))
		}
	}

	logger.Info("Demo diary created",
		zap.String("email", demoEmail),
		zap.String("password", demoPassword),
		zap.Int("meals", len(demoMeals)),
		zap.Int("symptoms", len(demoSymptoms)))
}
