package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/realworld/conduit-api/docs" // registers swagger docs
	"github.com/realworld/conduit-api/internal/api/handler"
	"github.com/realworld/conduit-api/internal/api/metrics"
	"github.com/realworld/conduit-api/internal/api/middleware"
	"github.com/realworld/conduit-api/internal/core/ports"
	"github.com/realworld/conduit-api/internal/infrastructure/http/handlers"
)

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Users  ports.UserService
	Tags   ports.TagService
	Tokens ports.TokenService
	Health *handlers.HealthDependenciesHandler
	Logger zerolog.Logger

	// Registry receives the HTTP request metrics and the custom conduit
	// collectors and backs /metrics. Nil selects the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
		if err := metrics.Register(deps.Registry); err != nil {
			panic(fmt.Sprintf("register metrics: %v", err))
		}
	}

	// --- Global middleware ---
	// Authenticate runs for every request and only attaches a principal;
	// protected routes opt in to RequireUser below.
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "conduit",
		Registerer: registerer,
	}))
	e.Use(middleware.Authenticate(deps.Tokens, deps.Users, deps.Logger))

	// --- Handlers ---
	userHandler := handler.NewUserHandler(deps.Users, deps.Tokens)
	tagHandler := handler.NewTagHandler(deps.Tags)
	requireUser := middleware.RequireUser()

	// --- Public routes ---
	e.GET("/tags", tagHandler.List)
	e.POST("/users/register", userHandler.Register)
	e.POST("/users/login", userHandler.Login)

	// --- Protected routes ---
	e.GET("/users/user", handler.WithCurrentUser(userHandler.Current), requireUser)
	e.PUT("/users/user", userHandler.Update, requireUser)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	if deps.Health != nil {
		e.GET("/health/ready", deps.Health.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
