package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidhall/wellnessflow/internal/domain"
)

func testUser(email string) *domain.User {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Name:      "Ana",
		Email:     email,
	}
}

// --- handleRegister tests ---

func TestHandleRegister_Success(t *testing.T) {
	user := testUser("ana@x.com")
	app := &mockAppService{
		registerFn: func(_ context.Context, name, email, password string) (*domain.User, string, error) {
			assert.Equal(t, "Ana", name)
			assert.Equal(t, "ana@x.com", email)
			assert.Equal(t, "secret1", password)
			return user, "tok123", nil
		},
	}

	srv := newTestServer(t, app)
	req := newJSONRequest(http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"ana@x.com","password":"secret1"}`)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleRegister(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"tok123"`)
	assert.Contains(t, rec.Body.String(), `"email":"ana@x.com"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandleRegister_MissingFields(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	for name, body := range map[string]string{
		"no name":     `{"email":"ana@x.com","password":"secret1"}`,
		"no email":    `{"name":"Ana","password":"secret1"}`,
		"no password": `{"name":"Ana","email":"ana@x.com"}`,
		"empty":       `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := newJSONRequest(http.MethodPost, "/api/auth/register", body)
			rec := httptest.NewRecorder()
			c := srv.echo.NewContext(req, rec)

			_ = callHandler(srv.handleRegister, c)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleRegister_ShortPassword(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})
	req := newJSONRequest(http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"ana@x.com","password":"12345"}`)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	_ = callHandler(srv.handleRegister, c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 6 characters")
}

func TestHandleRegister_BadEmail(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	for _, email := range []string{"not-an-email", "a@b", "a b@c.d", "@x.com"} {
		req := newJSONRequest(http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"`+email+`","password":"secret1"}`)
		rec := httptest.NewRecorder()
		c := srv.echo.NewContext(req, rec)

		_ = callHandler(srv.handleRegister, c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "email %q should be rejected", email)
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	app := &mockAppService{
		registerFn: func(_ context.Context, _, _, _ string) (*domain.User, string, error) {
			return nil, "", domain.ErrEmailTaken
		},
	}

	srv := newTestServer(t, app)
	req := newJSONRequest(http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"ana@x.com","password":"secret1"}`)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	_ = callHandler(srv.handleRegister, c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

// --- handleLogin tests ---

func TestHandleLogin_Success(t *testing.T) {
	user := testUser("ana@x.com")
	app := &mockAppService{
		loginFn: func(_ context.Context, email, password string) (*domain.User, string, error) {
			return user, "tok456", nil
		},
	}

	srv := newTestServer(t, app)
	req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@x.com","password":"secret1"}`)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	require.NoError(t, srv.handleLogin(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"tok456"`)
}

func TestHandleLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})
	req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@x.com"}`)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	_ = callHandler(srv.handleLogin, c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	app := &mockAppService{
		loginFn: func(_ context.Context, _, _ string) (*domain.User, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}

	srv := newTestServer(t, app)
	req := newJSONRequest(http.MethodPost, "/api/auth/login", `{"email":"ana@x.com","password":"wrong"}`)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	_ = callHandler(srv.handleLogin, c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")
}
