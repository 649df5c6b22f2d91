package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/mealtracker/backend/internal/middleware"
	"github.com/pageza/mealtracker/backend/internal/service"
)

// Services groups everything the HTTP layer depends on.
type Services struct {
	Auth      service.IAuthService
	Profiles  service.IProfileService
	Meals     service.IMealService
	Symptoms  service.ISymptomService
	Dashboard service.IDashboardService
	Reports   service.IReportService
	// ReportLimiter guards report generation; nil disables it.
	ReportLimiter *middleware.RateLimiter
	// Ping checks the database for /health; nil skips the check.
	Ping func(ctx context.Context) error
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services) {
	health := HealthCheck(svc.Ping)
	router.GET("/health", health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", health)

	NewAuthHandler(svc.Auth).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))

	NewProfileHandler(svc.Profiles).RegisterRoutes(protected)
	NewMealHandler(svc.Meals).RegisterRoutes(protected)
	NewSymptomHandler(svc.Symptoms).RegisterRoutes(protected)
	NewDashboardHandler(svc.Dashboard).RegisterRoutes(protected)
	NewReportHandler(svc.Reports, svc.ReportLimiter).RegisterRoutes(protected)
}

// HealthCheck returns the health status of the API
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	return id, ok
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Malformed ids cannot name an existing record.
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondError maps service errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var genErr *service.GenerationError
	switch {
	case errors.As(err, &genErr):
		body := gin.H{"error": genErr.Message, "category": string(genErr.Kind)}
		status := http.StatusInternalServerError
		if genErr.Kind == service.KindThrottled {
			status = http.StatusTooManyRequests
			seconds := int(genErr.RetryAfter / time.Second)
			body["retry_after_seconds"] = seconds
			c.Header("Retry-After", strconv.Itoa(seconds))
		}
		_ = c.Error(err)
		c.JSON(status, body)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrArchiveDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNoDiaryData),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidSeverity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
