package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/taskly/taskly-api/internal/api/handler"
	"github.com/taskly/taskly-api/internal/api/middleware"
	"github.com/taskly/taskly-api/internal/core/ports"

	_ "github.com/taskly/taskly-api/docs"
)

// RouterConfig carries everything the HTTP layer depends on.
type RouterConfig struct {
	Auth          ports.AuthService
	Tasks         ports.TaskService
	Notifications ports.NotificationService
	Tokens        ports.TokenIssuer
	// Health maps dependency names to readiness checks. Nil entries are skipped.
	Health      map[string]ports.Pinger
	CORSOrigins []string
	Log         zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Defaults to
	// the global Prometheus registry, which also holds the domain metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "taskly",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.Auth)
	taskHandler := handler.NewTaskHandler(cfg.Tasks)
	notificationHandler := handler.NewNotificationHandler(cfg.Notifications)
	healthHandler := handler.NewHealthHandler(cfg.Health)

	// --- Public routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Authenticated routes ---
	requireAuth := middleware.Auth(cfg.Tokens)
	e.GET("/me", authHandler.Me, requireAuth)
	e.PUT("/me/profile-image", authHandler.SetProfileImage, requireAuth)

	e.POST("/tasks", taskHandler.Create, requireAuth)
	e.GET("/tasks", taskHandler.List, requireAuth)
	e.PATCH("/tasks/:id", taskHandler.UpdateStatus, requireAuth)
	e.PUT("/tasks/:id", taskHandler.Update, requireAuth)

	e.GET("/notifications", notificationHandler.List, requireAuth)
	e.POST("/notifications/read-all", notificationHandler.MarkAllRead, requireAuth)
	e.PATCH("/notifications/:id", notificationHandler.MarkRead, requireAuth)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)       // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
