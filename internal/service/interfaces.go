package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/mealtracker/backend/internal/models"
	"github.com/pageza/mealtracker/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req *types.LoginRequest) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.UserProfile, error)
}

type IMealService interface {
	Create(ctx context.Context, userID uuid.UUID, req *types.MealRequest) (*models.Meal, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Meal, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Meal, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *types.MealRequest) (*models.Meal, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type ISymptomService interface {
	Create(ctx context.Context, userID uuid.UUID, req *types.SymptomRequest) (*models.Symptom, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Symptom, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]models.Symptom, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *types.SymptomRequest) (*models.Symptom, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type IDashboardService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
	Timeline(ctx context.Context, userID uuid.UUID) ([]types.TimelineEntry, error)
}

// IReportService defines the interface for report generation and history
type IReportService interface {
	Generate(ctx context.Context, userID uuid.UUID) (*GeneratedReport, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]types.ReportSummary, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Report, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ExportURL(ctx context.Context, userID, id uuid.UUID) (string, error)
}

var (
	_ IAuthService      = (*AuthService)(nil)
	_ IProfileService   = (*ProfileService)(nil)
	_ IMealService      = (*MealService)(nil)
	_ ISymptomService   = (*SymptomService)(nil)
	_ IDashboardService = (*DashboardService)(nil)
	_ IReportService    = (*ReportService)(nil)
	_ DiaryLoader       = (*DiaryAggregator)(nil)
	_ ReportModel       = (*GeminiModel)(nil)
)
