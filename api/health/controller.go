package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"orderservice/config"

	"github.com/gin-gonic/gin"
)

const probeTimeout = 2 * time.Second

// Probe returns nil when the dependency is usable
type Probe func(ctx context.Context) error

// Controller Health check controller
type Controller struct {
	config    *config.Config
	probes    map[string]Probe
	info      map[string]func() string
	startTime time.Time
}

// NewController Create health check controller
func NewController(cfg *config.Config) *Controller {
	return &Controller{
		config:    cfg,
		probes:    make(map[string]Probe),
		info:      make(map[string]func() string),
		startTime: time.Now(),
	}
}

// AddProbe registers a dependency that must be healthy for readiness
func (c *Controller) AddProbe(name string, probe Probe) *Controller {
	c.probes[name] = probe
	return c
}

// AddInfo registers an informational check that never fails readiness, such as a breaker state
func (c *Controller) AddInfo(name string, state func() string) *Controller {
	c.info[name] = state
	return c
}

// RegisterRoutes Register health check routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

// HealthResponse Health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check Check item
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo System information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health Complete health check
func (c *Controller) Health(ctx *gin.Context) {
	checks, healthy := c.runProbes(ctx.Request.Context())
	for name, state := range c.info {
		checks[name] = Check{Status: "info", Message: state()}
	}

	overallStatus := "healthy"
	if !healthy {
		overallStatus = "unhealthy"
	}

	response := HealthResponse{
		Status:    overallStatus,
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	// Only expose system info in development mode
	if c.config.IsDevelopment() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		response.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		}
	}

	statusCode := http.StatusOK
	if !healthy {
		statusCode = http.StatusServiceUnavailable
	}

	ctx.JSON(statusCode, response)
}

// Liveness Liveness check (Kubernetes liveness probe)
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Readiness Readiness check (Kubernetes readiness probe)
func (c *Controller) Readiness(ctx *gin.Context) {
	checks, healthy := c.runProbes(ctx.Request.Context())
	if !healthy {
		var failed []string
		for name, check := range checks {
			if check.Status != "healthy" {
				failed = append(failed, name)
			}
		}
		sort.Strings(failed)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"failed": failed,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

func (c *Controller) runProbes(ctx context.Context) (map[string]Check, bool) {
	checks := make(map[string]Check, len(c.probes)+len(c.info))
	healthy := true
	for name, probe := range c.probes {
		check := runProbe(ctx, probe)
		if check.Status != "healthy" {
			healthy = false
		}
		checks[name] = check
	}
	return checks, healthy
}

func runProbe(ctx context.Context, probe Probe) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	return Check{
		Status:  "healthy",
		Latency: latency.String(),
	}
}
