package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealtracker/backend/internal/api"
	"github.com/pageza/mealtracker/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(svc api.Services, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.CORS(corsOrigins),
	)

	api.RegisterRoutes(router, svc)
	return router
}
