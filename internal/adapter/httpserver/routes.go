package httpserver

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arvidhall/wellnessflow/internal/adapter/metrics"
)

func (s *Server) registerRoutes() {
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())
	// Metrics wrap the error middleware so they observe the rendered status.
	s.echo.Use(metricsMiddleware())
	s.echo.Use(ErrorHandlingMiddleware())

	s.registerHealthRoutes()
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authLimiter := newAuthRateLimiter(s.config.AuthRatePerSecond, s.config.AuthRateBurst)

	api := s.echo.Group("/api")
	api.POST("/auth/register", s.handleRegister, authLimiter)
	api.POST("/auth/login", s.handleLogin, authLimiter)

	api.POST("/sessions", s.handleCreateSession, s.requireAuth)
	api.GET("/sessions/mine", s.handleListMySessions, s.requireAuth)
	api.GET("/sessions/public", s.handleListPublished)
	api.GET("/sessions/:id", s.handleGetSession, s.optionalAuth)
	api.PUT("/sessions/:id", s.handleUpdateSession, s.requireAuth)
	api.DELETE("/sessions/:id", s.handleDeleteSession, s.requireAuth)
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("Request", attrs...)
			return nil
		},
	})
}

func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()

			return err
		}
	}
}
