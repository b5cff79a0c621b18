// internal/api/api.go
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mvirtanen/timesheet-go/internal/conf"
	"github.com/mvirtanen/timesheet-go/internal/datastore"
	"github.com/mvirtanen/timesheet-go/internal/errors"
	"github.com/mvirtanen/timesheet-go/internal/logging"
	"github.com/mvirtanen/timesheet-go/internal/observability"
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	DS       datastore.Interface
	Settings *conf.Settings

	metrics        *observability.Metrics
	apiLogger      *slog.Logger
	apiLevelVar    *slog.LevelVar
	apiLoggerClose func() error
}

// New creates a new API controller, attaching all routes to the given echo
// instance.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings, m *observability.Metrics) (*Controller, error) {
	c := &Controller{
		Echo:        e,
		DS:          ds,
		Settings:    settings,
		metrics:     m,
		apiLevelVar: new(slog.LevelVar),
	}

	if settings.WebServer.Debug {
		c.apiLevelVar.Set(slog.LevelDebug)
	} else {
		c.apiLevelVar.Set(slog.LevelInfo)
	}

	if settings.WebServer.Log.Enabled {
		logger, closeFunc, err := logging.NewFileLogger(settings.WebServer.Log.Path, "api", c.apiLevelVar)
		if err != nil {
			return nil, err
		}
		c.apiLogger = logger
		c.apiLoggerClose = closeFunc
	} else {
		c.apiLogger = logging.ForService("api")
	}

	c.initMiddleware()
	c.Group = e.Group("/api/v1")
	c.initRoutes()

	return c, nil
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	c.initEntryRoutes()
	c.initReportRoutes()
	c.initCompanyRoutes()
	c.initCategoryRoutes()
	c.initProjectRoutes()

	c.Echo.GET("/healthz", c.Health)
	if c.metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	}
}

// initMiddleware attaches recovery and request logging middleware.
func (c *Controller) initMiddleware() {
	c.Echo.Use(middleware.Recover())
	c.Echo.Use(c.requestLogger)
}

func (c *Controller) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		if err != nil {
			ctx.Error(err)
		}

		status := ctx.Response().Status
		method := ctx.Request().Method
		path := ctx.Path()

		if c.metrics != nil {
			c.metrics.HTTP.RecordRequest(method, path, status)
		}
		if c.apiLogger != nil {
			c.apiLogger.Debug("request served",
				"method", method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", ctx.RealIP(),
			)
		}
		return nil
	}
}

// Health handles GET /healthz
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Shutdown releases controller resources.
func (c *Controller) Shutdown() error {
	if c.apiLoggerClose != nil {
		return c.apiLoggerClose()
	}
	return nil
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse builds an error response with a fresh correlation id.
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	resp := &ErrorResponse{
		Message:       message,
		Code:          code,
		CorrelationID: uuid.NewString()[:8],
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// HandleError constructs and returns an appropriate error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	if c.apiLogger != nil {
		var errorStr string
		if err != nil {
			errorStr = err.Error()
		} else {
			errorStr = message
		}
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"message", message,
			"error", errorStr,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ctx.RealIP(),
		)
	}

	return ctx.JSON(code, errorResp)
}

// handleStoreError maps a datastore error to its HTTP status by category.
func (c *Controller) handleStoreError(ctx echo.Context, err error, message string) error {
	return c.HandleError(ctx, err, message, statusFromError(err))
}

func statusFromError(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Debug logs debug messages when debug mode is enabled
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug && c.apiLogger != nil {
		c.apiLogger.Debug(fmt.Sprintf(format, v...))
	}
}
