// Package router assembles the Echo instance: global middleware,
// public guest routes and the JWT-protected host group.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-reservation/internal/config"
	"github.com/iliyamo/event-reservation/internal/handler"
	"github.com/iliyamo/event-reservation/internal/middleware"
)

// Deps collects everything the router needs.
type Deps struct {
	Cfg    config.Config
	Redis  *redis.Client // nil disables caching and rate limiting
	Auth   *handler.AuthHandler
	Guest  *handler.GuestEventHandler
	Res    *handler.GuestReservationHandler
	Events *handler.HostEventHandler
	Attend *handler.HostReservationHandler
}

// New builds the configured Echo instance.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	cache := middleware.ResponseCache(d.Redis, config.LoadCacheConfig())
	limit := middleware.RateLimit(d.Redis, config.LoadRateLimitConfig())

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register, limit)
	auth.POST("/login", d.Auth.Login, limit)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	api.GET("/events", d.Guest.ListPublic, cache)
	api.GET("/events/:code", d.Guest.GetByCode, cache)

	res := api.Group("/reservations")
	res.POST("", d.Res.Create, limit)
	res.GET("/lookup", d.Res.Lookup)
	res.GET("/token/:token", d.Res.GetByToken)
	res.GET("/:id", d.Res.Get)
	res.POST("/:id/cancel", d.Res.Cancel)

	host := api.Group("/host", middleware.JWTAuth(d.Cfg.JWTSecret))
	host.GET("/me", d.Auth.Me)
	host.POST("/events", d.Events.Create)
	host.GET("/events", d.Events.ListMine)
	host.GET("/events/:id", d.Events.Get)
	host.PUT("/events/:id", d.Events.Update)
	host.PATCH("/events/:id/visibility", d.Events.UpdateVisibility)
	host.GET("/events/:id/dashboard", d.Attend.Dashboard)
	host.GET("/schedules/:id/status", d.Attend.ScheduleStatus)
	host.GET("/reservations/:id", d.Attend.Reservation)
	host.POST("/reservations/:id/cancel", d.Attend.Cancel)
	host.POST("/reservations/:id/checkin", d.Attend.CheckInByID)
	host.POST("/checkin", d.Attend.CheckInByToken)

	return e
}
