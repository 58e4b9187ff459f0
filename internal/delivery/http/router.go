package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	SignalHandler *SignalHandler
	AdminHandler  *AdminHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for polling endpoints to reduce noise
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics" || path == "/api/admin/system/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "signalwired-api",
		})
	})

	// Prometheus metrics
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API group
	api := e.Group("/api")

	// Public signal routes
	signals := api.Group("/signals")
	{
		signals.GET("/latest", config.SignalHandler.GetLatest)
		signals.GET("/performance", config.SignalHandler.GetPerformance)
		signals.GET("/:id", config.SignalHandler.GetByID)
	}

	// Admin routes
	admin := api.Group("/admin")
	{
		admin.POST("/signals/generate", config.AdminHandler.GenerateSignals)
		admin.PUT("/signals/:id/outcome", config.AdminHandler.UpdateSignalOutcome)
		admin.GET("/performance", config.AdminHandler.GetPerformance)
		admin.PUT("/strategies/:name/status", config.AdminHandler.SetStrategyStatus)
		admin.GET("/system/health", config.AdminHandler.GetSystemHealth)
	}
}
