// internal/api/api.go
package api

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gocache "github.com/patrickmn/go-cache"

	"github.com/faunawatch/faunawatch-go/internal/buildinfo"
	"github.com/faunawatch/faunawatch-go/internal/conf"
	"github.com/faunawatch/faunawatch-go/internal/datastore"
	"github.com/faunawatch/faunawatch-go/internal/errors"
	"github.com/faunawatch/faunawatch-go/internal/imagestore"
	"github.com/faunawatch/faunawatch-go/internal/ingest"
	"github.com/faunawatch/faunawatch-go/internal/logging"
	"github.com/faunawatch/faunawatch-go/internal/observability"
	"github.com/faunawatch/faunawatch-go/internal/realtime"
	"github.com/faunawatch/faunawatch-go/internal/stats"
	"github.com/faunawatch/faunawatch-go/internal/streamregistry"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	Settings *conf.Settings

	Pipeline   *ingest.Pipeline
	Detections datastore.DetectionStore
	Alerts     datastore.AlertStore
	Aggregator *stats.Aggregator
	Streams    *streamregistry.Registry
	Publisher  *realtime.Publisher
	Images     *imagestore.Store
	Metrics    *observability.Metrics

	verifier   Verifier
	statsCache *gocache.Cache
	apiLogger  *slog.Logger
	startTime  time.Time
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithVerifier replaces the default shared-secret credential verifier.
func WithVerifier(v Verifier) Option {
	return func(c *Controller) {
		c.verifier = v
	}
}

// New creates the API controller and registers all routes on e.
func New(e *echo.Echo, settings *conf.Settings, pipeline *ingest.Pipeline,
	detections datastore.DetectionStore, alerts datastore.AlertStore,
	aggregator *stats.Aggregator, streams *streamregistry.Registry,
	publisher *realtime.Publisher, images *imagestore.Store,
	metrics *observability.Metrics, opts ...Option) *Controller {

	c := &Controller{
		Echo:       e,
		Settings:   settings,
		Pipeline:   pipeline,
		Detections: detections,
		Alerts:     alerts,
		Aggregator: aggregator,
		Streams:    streams,
		Publisher:  publisher,
		Images:     images,
		Metrics:    metrics,
		verifier:   NewSecretVerifier(settings.Security.APISecret),
		statsCache: gocache.New(30*time.Second, time.Minute),
		apiLogger:  logging.ForService("api"),
		startTime:  time.Now(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Group = e.Group("/api/v1")
	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.CORS())
	c.Group.Use(middleware.BodyLimit("10M")) // snapshots arrive base64 encoded
	c.Group.Use(c.LoggingMiddleware())

	c.initRoutes()
	return c
}

// initRoutes registers all API endpoints.
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	c.initDetectionRoutes()
	c.initStreamRoutes()
	c.initAlertRoutes()
	c.initStatsRoutes()
	c.initSSERoutes()

	// Stored snapshots, referenced by Detection.ImageURL.
	c.Echo.Static(imagestore.URLPrefix, c.Images.Root())

	// Prometheus exposition.
	c.Echo.GET("/metrics", echo.WrapHandler(c.Metrics.Handler()))
}

// HealthCheck reports process status and uptime. Publicly accessible.
func (c *Controller) HealthCheck(ctx echo.Context) error {
	uptime := time.Since(c.startTime)
	return ctx.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        buildinfo.Version(),
		"timestamp":      time.Now().Format(time.RFC3339),
		"uptime":         uptime.String(),
		"uptime_seconds": uptime.Seconds(),
	})
}

// LoggingMiddleware logs API requests with latency and status.
func (c *Controller) LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			attrs := []slog.Attr{
				slog.String("method", ctx.Request().Method),
				slog.String("path", ctx.Request().URL.Path),
				slog.Int("status", ctx.Response().Status),
				slog.String("ip", ctx.RealIP()),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			c.apiLogger.LogAttrs(ctx.Request().Context(), slog.LevelInfo, "API request", attrs...)

			return err
		}
	}
}

// ErrorResponse is the JSON error body returned by all handlers.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates a new API error response.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: generateCorrelationID(),
	}
}

// generateCorrelationID creates a short random identifier for error tracking.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "ERR-RAND"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError logs and returns an error response with the status derived
// from the error's category.
func (c *Controller) HandleError(ctx echo.Context, err error, message string) error {
	code := statusForError(err)
	errorResp := NewErrorResponse(err, message, code)

	c.apiLogger.Error("API error",
		"correlation_id", errorResp.CorrelationID,
		"message", message,
		"error", errorResp.Error,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP())

	return ctx.JSON(code, errorResp)
}

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.HasCategory(err, errors.CategoryValidation):
		return http.StatusBadRequest
	case errors.HasCategory(err, errors.CategoryUnauthorized):
		return http.StatusUnauthorized
	case errors.HasCategory(err, errors.CategoryNotFound):
		return http.StatusNotFound
	case errors.HasCategory(err, errors.CategoryExpired):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
