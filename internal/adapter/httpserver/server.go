// Package httpserver exposes the WellnessFlow REST API: registration, login,
// session CRUD and the two listings. Handlers are stateless; every mutating
// endpoint resolves the caller from a bearer token.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/arvidhall/wellnessflow/internal/app"
	"github.com/arvidhall/wellnessflow/internal/auth"
	"github.com/arvidhall/wellnessflow/internal/domain"
	"github.com/arvidhall/wellnessflow/internal/platform/config"
)

type appService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	VerifyToken(token string) (*auth.Claims, error)
	CreateSession(ctx context.Context, authorID uuid.UUID, input app.NewSession) (*domain.Session, error)
	GetSessionForViewer(ctx context.Context, sessionID uuid.UUID, viewerID *uuid.UUID) (*domain.Session, error)
	UpdateSession(ctx context.Context, authorID, sessionID uuid.UUID, changes domain.SessionChanges) (*domain.Session, error)
	DeleteSession(ctx context.Context, authorID, sessionID uuid.UUID) error
	ListMySessions(ctx context.Context, authorID uuid.UUID) ([]domain.Session, error)
	ListPublished(ctx context.Context) ([]domain.SessionWithAuthor, error)
}

// HealthCheck is a named dependency probe run by the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app          appService
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
