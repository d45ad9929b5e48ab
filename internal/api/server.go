// Package api assembles the HTTP router: middleware, health and metrics
// endpoints, and the versioned Huma API surface.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mshelton/car-value-tracker/internal/api/handlers"
	"github.com/mshelton/car-value-tracker/internal/api/middleware"
	"github.com/mshelton/car-value-tracker/internal/auth"
	"github.com/mshelton/car-value-tracker/internal/store"
	"github.com/mshelton/car-value-tracker/pkg/fueleconomy"
	score "github.com/mshelton/car-value-tracker/pkg/scorer"
)

// Options carries everything the router needs.
type Options struct {
	Store store.Store

	// Auth enables bearer-token checks on mutating routes; nil runs open.
	Auth *auth.Service

	Data       *fueleconomy.Dataset
	Thresholds score.Thresholds

	// FuelPricePerGallon enables fuel-adjusted scoring when positive.
	FuelPricePerGallon float64

	// MaxPrice rejects car records priced above it; zero disables the bound.
	MaxPrice float64

	// RateLimitPerSecond caps requests per client; zero disables limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int

	Log     *slog.Logger
	Version string
}

// NewRouter builds the Echo instance with all middleware and routes wired.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLog(opts.Log))
	e.Use(middleware.Recovery(opts.Log))
	e.Use(middleware.Metrics())
	if opts.RateLimitPerSecond > 0 {
		e.Use(middleware.RateLimit(opts.RateLimitPerSecond, opts.RateLimitBurst))
	}

	health := handlers.NewHealthHandler(opts.Store)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	config := huma.DefaultConfig("Car Value Tracker API", opts.Version)
	humaAPI := humaecho.New(e, config)

	handlers.RegisterCarRoutes(humaAPI, handlers.NewCarsHandler(opts.Store, opts.Auth, opts.MaxPrice))
	handlers.RegisterScoreRoutes(humaAPI, handlers.NewScoreHandler(opts.Data, opts.Thresholds, opts.FuelPricePerGallon))
	handlers.RegisterListRoutes(humaAPI, handlers.NewListsHandler(opts.Store, opts.Auth))
	handlers.RegisterCatalogRoutes(humaAPI, handlers.NewCatalogHandler(opts.Data))
	if opts.Auth != nil {
		handlers.RegisterAuthRoutes(humaAPI, handlers.NewAuthHandler(opts.Auth))
	}

	return e
}
