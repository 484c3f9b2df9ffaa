package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/go-ddd-user-registry/internal/container"
	handlers "github.com/oksasatya/go-ddd-user-registry/internal/interface/http"
	"github.com/oksasatya/go-ddd-user-registry/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-user-registry/internal/router/modules"
)

const metricsNamespace = "user_registry"

// NewEngine builds the Gin engine with the global middleware chain.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowAllOrigins:  len(cfg.CORSOrigins()) == 0,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: len(cfg.CORSOrigins()) > 0,
		MaxAge:           12 * time.Hour,
	}))
	if c.Metrics != nil {
		r.Use(middleware.NewHTTPMetrics(c.Metrics, metricsNamespace).Middleware())
	}
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	return r
}

// InitModules builds the handlers from the container and registers every
// module with the router registry. Call once during startup.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	var reg prometheus.Registerer = prometheus.NewRegistry()
	if c.Metrics != nil {
		reg = c.Metrics
	}
	userHandler := handlers.NewUserHandler(c.Users, c.Logger, handlers.NewUserMetrics(reg, metricsNamespace))
	healthHandler := handlers.NewHealthHandler(c.Store, cfg.StorageDriver, c.Logger)

	limits := modules.Limits{
		WritePerMin: cfg.RateLimitWritePerMin,
		ReadPerMin:  cfg.RateLimitReadPerMin,
		Logger:      c.Logger,
	}
	if c.Redis != nil {
		limits.Redis = c.Redis
	}
	if cfg.Env == "development" {
		limits.Allow = middleware.AllowPrivateIP()
	}

	r.Add(modules.NewHealthModule(healthHandler))
	r.Add(modules.NewUserModule(userHandler, limits))
	if cfg.DebugMetricsEnabled && c.Metrics != nil {
		r.Add(modules.NewDebugModule(c.Metrics, limits))
	}
}
