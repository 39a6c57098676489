package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Scott-Hewitt/midi-tool-api/internal/api/handlers"
	apimiddleware "github.com/Scott-Hewitt/midi-tool-api/internal/api/middleware"
	"github.com/Scott-Hewitt/midi-tool-api/internal/config"
	"github.com/Scott-Hewitt/midi-tool-api/internal/metrics"
)

func SetupRouter(cfg *config.Config, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS(cfg.AllowedOrigins))

	// Health check
	healthHandler := handlers.NewHealthHandler(version)
	router.GET("/health", healthHandler.HealthCheck)

	// Generation API v1. Everything is stateless: no auth, no persistence,
	// every response is a pure function of the request plus its seed.
	v1 := router.Group("/api/v1")
	{
		metricsHandler := handlers.NewMetricsHandler(version)
		v1.GET("/metrics", metricsHandler.GetMetrics)

		generationHandler := handlers.NewGenerationHandler(cw)
		v1.POST("/compositions", generationHandler.Compose)
		v1.POST("/melodies", generationHandler.Melody)
		v1.POST("/progressions", generationHandler.Progression)
		v1.POST("/basslines", generationHandler.BassLine)

		// Catalog of generator names the front-end can offer
		presetsHandler := handlers.NewPresetsHandler()
		v1.GET("/presets", presetsHandler.ListPresets)
	}

	return router
}
