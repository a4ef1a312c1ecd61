package api

import (
	"net/http"

	"orderservice/api/health"
	"orderservice/api/item"
	"orderservice/api/middleware"
	"orderservice/api/order"
	"orderservice/config"
	"orderservice/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// Router Route configuration
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	healthController *health.Controller
	orderController  *order.Controller
	itemController   *item.Controller
	metricsHandler   http.Handler
}

// NewRouter Create route configuration. metricsHandler may be nil when metrics are disabled.
func NewRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	metricsHandler http.Handler,
	healthController *health.Controller,
	orderController *order.Controller,
	itemController *item.Controller,
) *Router {
	// Set Gin mode based on environment
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())                        // 3. Logging middleware
	engine.Use(middleware.MetricsMiddleware(m))                       // 4. Request metrics
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 5. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 6. Rate limiting
	engine.Use(middleware.PrincipalMiddleware())                      // 7. Caller identity

	return &Router{
		engine:           engine,
		config:           cfg,
		healthController: healthController,
		orderController:  orderController,
		itemController:   itemController,
		metricsHandler:   metricsHandler,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.orderController.RegisterRoutes(apiGroup)
		r.itemController.RegisterRoutes(apiGroup)
	}

	if r.metricsHandler != nil {
		path := r.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(r.metricsHandler))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
