// Package router assembles the gin engine of the pricing API.
package router

import (
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/infrastructure/logger"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/handler"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar mounts a set of routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config holds what the engine needs besides the registrars
type Config struct {
	Logger         *zap.Logger
	ServiceName    string
	APIVersion     string // default "v1"
	MaxBodySize    int64
	TrustedProxies []string
	TracingEnabled bool
	Security       middleware.SecurityConfig
	Tenants        pricing.TenantReader
	Health         *handler.HealthHandler
}

// New builds the engine. Health endpoints sit outside the API group; every API route
// requires a resolved tenant.
func New(cfg Config, registrars ...RouteRegistrar) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	middleware.SetupValidator()

	if cfg.TracingEnabled {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.Secure(cfg.Security),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	if cfg.Health != nil {
		engine.GET("/health", cfg.Health.Live)
		engine.GET("/ready", cfg.Health.Ready)
	}

	api := engine.Group("/api/" + cfg.APIVersion)
	if cfg.Tenants != nil {
		api.Use(middleware.Tenant(cfg.Tenants))
	}
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
	return engine, nil
}
