package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
)

// Options configure the middleware shared by the /v1 routes.  A nil Redis
// client turns rate limiting and response caching off.
type Options struct {
	JWTSecret string
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Redis     *redis.Client
	Log       *zap.Logger
}

// RegisterRoutes registers routes that sit outside /v1.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// API creates the /v1 group.  Every route in it resolves the optional
// bearer identity and is rate limited.
func API(e *echo.Echo, o Options) *echo.Group {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	return e.Group("/v1",
		middleware.Identity(o.JWTSecret),
		middleware.RateLimit(o.RateLimit, o.Redis, log),
	)
}

// Cache returns the response cache for read-only catalog routes.
func Cache(o Options) echo.MiddlewareFunc {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	return middleware.Cache(o.Cache, o.Redis, log)
}
