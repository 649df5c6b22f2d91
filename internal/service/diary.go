package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/pageza/mealtracker/backend/internal/models"
)

// Diary is a user's complete meal and symptom history in chronological order.
type Diary struct {
	Meals    []models.Meal
	Symptoms []models.Symptom
	Stats    DiaryStats
}

// DiaryStats summarises a diary for the prompt and the data-quality section.
type DiaryStats struct {
	Earliest      time.Time
	Latest        time.Time
	TotalMeals    int
	TotalSymptoms int
	// TrackingDays counts the calendar days touched between the first and
	// last entry, inclusive.
	TrackingDays int
}

// DiaryAggregator loads diaries from the record store.
type DiaryAggregator struct {
	db  *gorm.DB
	loc *time.Location
}

// NewDiaryAggregator returns an aggregator that counts calendar days in loc.
// A nil loc means UTC.
func NewDiaryAggregator(db *gorm.DB, loc *time.Location) *DiaryAggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &DiaryAggregator{db: db, loc: loc}
}

// Load returns every meal and symptom of the user ordered by logged_at
// ascending. It returns ErrNoDiaryData when both are empty.
func (a *DiaryAggregator) Load(ctx context.Context, userID uuid.UUID) (*Diary, error) {
	var (
		meals    []models.Meal
		symptoms []models.Symptom
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := a.db.WithContext(gctx).
			Where("user_id = ?", userID).
			Order("logged_at ASC, id ASC").
			Find(&meals).Error
		if err != nil {
			return fmt.Errorf("failed to load meals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := a.db.WithContext(gctx).
			Where("user_id = ?", userID).
			Order("logged_at ASC, id ASC").
			Find(&symptoms).Error
		if err != nil {
			return fmt.Errorf("failed to load symptoms: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(meals) == 0 && len(symptoms) == 0 {
		return nil, ErrNoDiaryData
	}

	return &Diary{
		Meals:    meals,
		Symptoms: symptoms,
		Stats:    ComputeStats(meals, symptoms, a.loc),
	}, nil
}

// ComputeStats derives the summary of the given entries. Both slices must be
// ordered by LoggedAt ascending.
func ComputeStats(meals []models.Meal, symptoms []models.Symptom, loc *time.Location) DiaryStats {
	stats := DiaryStats{
		TotalMeals:    len(meals),
		TotalSymptoms: len(symptoms),
	}

	var first, last []time.Time
	if len(meals) > 0 {
		first = append(first, meals[0].LoggedAt)
		last = append(last, meals[len(meals)-1].LoggedAt)
	}
	if len(symptoms) > 0 {
		first = append(first, symptoms[0].LoggedAt)
		last = append(last, symptoms[len(symptoms)-1].LoggedAt)
	}
	if len(first) == 0 {
		return stats
	}

	stats.Earliest = first[0]
	for _, t := range first[1:] {
		if t.Before(stats.Earliest) {
			stats.Earliest = t
		}
	}
	stats.Latest = last[0]
	for _, t := range last[1:] {
		if t.After(stats.Latest) {
			stats.Latest = t
		}
	}

	stats.TrackingDays = calendarDaysBetween(stats.Earliest, stats.Latest, loc) + 1
	return stats
}

func calendarDaysBetween(from, to time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
