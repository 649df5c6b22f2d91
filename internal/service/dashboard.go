package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/mealtracker/backend/internal/models"
	"github.com/pageza/mealtracker/backend/internal/types"
)

const (
	dashboardRecent = 5
	timelineLimit   = 50
)

// Dashboard is the landing view: latest entries and totals.
type Dashboard struct {
	RecentMeals    []models.Meal    `json:"recent_meals"`
	RecentSymptoms []models.Symptom `json:"recent_symptoms"`
	TotalMeals     int64            `json:"total_meals"`
	TotalSymptoms  int64            `json:"total_symptoms"`
}

type DashboardService struct {
	meals    *MealService
	symptoms *SymptomService
}

func NewDashboardService(meals *MealService, symptoms *SymptomService) *DashboardService {
	return &DashboardService{meals: meals, symptoms: symptoms}
}

func (s *DashboardService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	d := &Dashboard{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.RecentMeals, err = s.meals.List(ctx, userID, dashboardRecent)
		return err
	})
	g.Go(func() (err error) {
		d.RecentSymptoms, err = s.symptoms.List(ctx, userID, dashboardRecent)
		return err
	})
	g.Go(func() (err error) {
		d.TotalMeals, err = s.meals.Count(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.TotalSymptoms, err = s.symptoms.Count(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// Timeline merges the latest meals and symptoms into one list, newest first.
func (s *DashboardService) Timeline(ctx context.Context, userID uuid.UUID) ([]types.TimelineEntry, error) {
	var (
		meals    []models.Meal
		symptoms []models.Symptom
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		meals, err = s.meals.List(gctx, userID, timelineLimit)
		return err
	})
	g.Go(func() (err error) {
		symptoms, err = s.symptoms.List(gctx, userID, timelineLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]types.TimelineEntry, 0, len(meals)+len(symptoms))
	for i := range meals {
		entries = append(entries, types.TimelineEntry{Kind: "meal", LoggedAt: meals[i].LoggedAt, Item: meals[i]})
	}
	for i := range symptoms {
		entries = append(entries, types.TimelineEntry{Kind: "symptom", LoggedAt: symptoms[i].LoggedAt, Item: symptoms[i]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LoggedAt.After(entries[j].LoggedAt)
	})
	return entries, nil
}
