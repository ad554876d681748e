// Package router wires the control API routes to their handlers and
// middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/post-office-sim/internal/config"
	"github.com/iliyamo/post-office-sim/internal/handler"
	"github.com/iliyamo/post-office-sim/internal/middleware"
)

// RegisterRoutes registers the unauthenticated routes: the health probe and
// the read-only simulation views.  The views carry the rate limiter and the
// response cache; both degrade to pass-through when Redis is unavailable.
func RegisterRoutes(e *echo.Echo, s *handler.SimHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	v1 := e.Group("/v1", rl, cache)
	v1.GET("/stats", s.GetStats)
	v1.GET("/stats/daily", s.GetDailyStats)
	v1.GET("/seats", s.GetSeats)
	v1.GET("/clock", s.GetClock)
}

// RegisterAdmin registers the admin login plus the protected population
// endpoint.  Callers should skip this registration entirely when no admin
// credentials are configured, leaving the server read-only.
func RegisterAdmin(e *echo.Echo, a *handler.AuthHandler, s *handler.SimHandler, jwtSecret string) {
	e.POST("/v1/auth/login", a.Login)

	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))
	admin.GET("/me", a.Me)
	admin.POST("/customers", s.AddCustomers)
}
