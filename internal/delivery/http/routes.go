package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/techchoose/backend/config"
	"github.com/techchoose/backend/internal/infrastructure/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, recorder *metrics.Recorder, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger, recorder))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(recorder.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/personas", handler.ListPersonas)
		v1.GET("/devices", handler.ListDevices)
		v1.POST("/recommendations", handler.Recommend)
		v1.POST("/compare", handler.Compare)
		v1.POST("/catalog/refresh", handler.RefreshCatalog)
	}

	return router
}
