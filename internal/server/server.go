package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealtracker/backend/config"
	"github.com/pageza/mealtracker/backend/internal/api"
	"github.com/pageza/mealtracker/backend/internal/database"
	"github.com/pageza/mealtracker/backend/internal/middleware"
	"github.com/pageza/mealtracker/backend/internal/router"
	"github.com/pageza/mealtracker/backend/internal/service"
)

// Deps are the external resources the server is built on. Redis, S3 and
// Model may be nil.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	S3    *config.S3Config
	Model service.ReportModel
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires services, handlers and middleware.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Server, error) {
	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone: %w", err)
	}

	svc := NewServices(cfg, deps, loc, logger)
	engine := router.SetupRouter(svc, cfg.CORSOrigins, logger)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			// Report generation may take up to the model deadline.
			WriteTimeout: cfg.ReportTimeout + 30*time.Second,
			IdleTimeout:  2 * time.Minute,
		},
		logger: logger,
	}, nil
}

// NewServices builds the service graph used by the HTTP layer.
func NewServices(cfg *config.Config, deps Deps, loc *time.Location, logger *zap.Logger) api.Services {
	meals := service.NewMealService(deps.DB)
	symptoms := service.NewSymptomService(deps.DB)
	profiles := service.NewProfileService(deps.DB)

	reports := service.NewReportService(
		service.NewDiaryAggregator(deps.DB, loc),
		profiles,
		service.NewPromptComposer(cfg.ReportLanguage, loc),
		service.NewReportGateway(deps.Model, cfg.ReportTimeout, logger),
		service.NewReportStore(deps.DB),
		service.NewReportArchive(deps.S3),
		logger,
	)

	var limiter *middleware.RateLimiter
	if deps.Redis != nil {
		limiter = middleware.NewReportGenerationRateLimiter(deps.Redis, cfg.ReportRateLimit, logger)
	}

	return api.Services{
		Auth:          service.NewAuthService(deps.DB, cfg.JWTSecret),
		Profiles:      profiles,
		Meals:         meals,
		Symptoms:      symptoms,
		Dashboard:     service.NewDashboardService(meals, symptoms),
		Reports:       reports,
		ReportLimiter: limiter,
		Ping: func(ctx context.Context) error {
			return database.HealthCheck(ctx, deps.DB)
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
