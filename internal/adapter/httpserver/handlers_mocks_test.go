package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/arvidhall/wellnessflow/internal/app"
	"github.com/arvidhall/wellnessflow/internal/auth"
	"github.com/arvidhall/wellnessflow/internal/domain"
	"github.com/arvidhall/wellnessflow/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	registerFn            func(ctx context.Context, name, email, password string) (*domain.User, string, error)
	loginFn               func(ctx context.Context, email, password string) (*domain.User, string, error)
	verifyTokenFn         func(token string) (*auth.Claims, error)
	createSessionFn       func(ctx context.Context, authorID uuid.UUID, input app.NewSession) (*domain.Session, error)
	getSessionForViewerFn func(ctx context.Context, sessionID uuid.UUID, viewerID *uuid.UUID) (*domain.Session, error)
	updateSessionFn       func(ctx context.Context, authorID, sessionID uuid.UUID, changes domain.SessionChanges) (*domain.Session, error)
	deleteSessionFn       func(ctx context.Context, authorID, sessionID uuid.UUID) error
	listMySessionsFn      func(ctx context.Context, authorID uuid.UUID) ([]domain.Session, error)
	listPublishedFn       func(ctx context.Context) ([]domain.SessionWithAuthor, error)
}

func (m *mockAppService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, name, email, password)
	}
	return nil, "", errors.New("not implemented")
}

func (m *mockAppService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, "", domain.ErrInvalidCredentials
}

func (m *mockAppService) VerifyToken(token string) (*auth.Claims, error) {
	if m.verifyTokenFn != nil {
		return m.verifyTokenFn(token)
	}
	return nil, domain.ErrInvalidToken
}

func (m *mockAppService) CreateSession(ctx context.Context, authorID uuid.UUID, input app.NewSession) (*domain.Session, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, authorID, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) GetSessionForViewer(ctx context.Context, sessionID uuid.UUID, viewerID *uuid.UUID) (*domain.Session, error) {
	if m.getSessionForViewerFn != nil {
		return m.getSessionForViewerFn(ctx, sessionID, viewerID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockAppService) UpdateSession(ctx context.Context, authorID, sessionID uuid.UUID, changes domain.SessionChanges) (*domain.Session, error) {
	if m.updateSessionFn != nil {
		return m.updateSessionFn(ctx, authorID, sessionID, changes)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockAppService) DeleteSession(ctx context.Context, authorID, sessionID uuid.UUID) error {
	if m.deleteSessionFn != nil {
		return m.deleteSessionFn(ctx, authorID, sessionID)
	}
	return domain.ErrSessionNotFound
}

func (m *mockAppService) ListMySessions(ctx context.Context, authorID uuid.UUID) ([]domain.Session, error) {
	if m.listMySessionsFn != nil {
		return m.listMySessionsFn(ctx, authorID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAppService) ListPublished(ctx context.Context) ([]domain.SessionWithAuthor, error) {
	if m.listPublishedFn != nil {
		return m.listPublishedFn(ctx)
	}
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService) *Server {
	t.Helper()

	srv := &Server{
		echo:      echo.New(),
		config:    &config.Config{Port: "8080", AuthRatePerSecond: 100, AuthRateBurst: 100},
		app:       app,
		startTime: time.Now(),
	}

	// Register routes so endpoints are available for testing
	srv.registerRoutes()

	return srv
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}

func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func testSession(authorID uuid.UUID) *domain.Session {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	return &domain.Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     "Morning Flow",
		Tags:      []string{"yoga"},
		Content:   `{"steps":["breathe"]}`,
		Status:    domain.StatusDraft,
		AuthorID:  authorID,
	}
}
