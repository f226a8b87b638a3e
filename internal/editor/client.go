package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/arvidhall/wellnessflow/internal/platform/errors"
)

// SessionDocument is the wire representation of a stored session.
type SessionDocument struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Tags      []string    `json:"tags"`
	Content   string      `json:"content"`
	Status    string      `json:"status"`
	AuthorID  string      `json:"authorId"`
	Author    *AuthorInfo `json:"author,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// AuthorInfo is the display snapshot attached to public listings.
type AuthorInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionDraft is the persist payload for create and update calls.
type SessionDraft struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
	Status  string   `json:"status,omitempty"`
}

// UserInfo is the sanitized user returned by register and login.
type UserInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Account bundles the authenticated user with its bearer token.
type Account struct {
	User  UserInfo `json:"user"`
	Token string   `json:"token"`
}

// Client talks to the session API. It holds the session context: the bearer
// token set by Login or Register and cleared by Logout.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, name, email, password string) (*Account, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var account Account
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &account); err != nil {
		return nil, err
	}
	c.setToken(account.Token)
	return &account, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Account, error) {
	body := map[string]string{"email": email, "password": password}
	var account Account
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &account); err != nil {
		return nil, err
	}
	c.setToken(account.Token)
	return &account, nil
}

// Logout drops the token. Tokens are stateless, so this is client-local.
func (c *Client) Logout() {
	c.setToken("")
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// --- Sessions ---

// sessionEnvelope is the server's wrapper around single-session responses.
type sessionEnvelope struct {
	Session SessionDocument `json:"session"`
}

func (c *Client) CreateSession(ctx context.Context, draft SessionDraft) (*SessionDocument, error) {
	var envelope sessionEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/sessions", draft, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Session, nil
}

func (c *Client) UpdateSession(ctx context.Context, sessionID string, draft SessionDraft) (*SessionDocument, error) {
	var envelope sessionEnvelope
	if err := c.do(ctx, http.MethodPut, "/api/sessions/"+sessionID, draft, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Session, nil
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionDocument, error) {
	var envelope sessionEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Session, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+sessionID, nil, nil)
}

func (c *Client) ListMySessions(ctx context.Context) ([]SessionDocument, error) {
	var response struct {
		Sessions []SessionDocument `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sessions/mine", nil, &response); err != nil {
		return nil, err
	}
	return response.Sessions, nil
}

func (c *Client) ListPublished(ctx context.Context) ([]SessionDocument, error) {
	var response struct {
		Sessions []SessionDocument `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sessions/public", nil, &response); err != nil {
		return nil, err
	}
	return response.Sessions, nil
}

// LoadBuffer hydrates an edit buffer from a stored session. The buffer's
// snapshot starts clean, so opening a session does not mark it dirty.
func (c *Client) LoadBuffer(ctx context.Context, sessionID string) (*Buffer, error) {
	doc, err := c.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewBufferFromDocument(doc), nil
}

// --- Transport ---

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError rebuilds the server's structured error from the wire shape
// so callers can switch on the error type.
func decodeAPIError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var wire apperrors.ErrorResponse
	if err := json.Unmarshal(raw, &wire); err != nil || wire.Error == "" {
		return &apperrors.Error{
			Type:    typeForStatus(resp.StatusCode),
			Message: fmt.Sprintf("server returned %d", resp.StatusCode),
		}
	}

	errType := wire.Type
	if errType == "" {
		errType = typeForStatus(resp.StatusCode)
	}
	return &apperrors.Error{Type: errType, Message: wire.Error}
}

func typeForStatus(status int) apperrors.ErrorType {
	switch status {
	case http.StatusBadRequest:
		return apperrors.TypeValidation
	case http.StatusUnauthorized:
		return apperrors.TypeAuthentication
	case http.StatusNotFound:
		return apperrors.TypeNotFound
	case http.StatusConflict:
		return apperrors.TypeConflict
	case http.StatusTooManyRequests:
		return apperrors.TypeRateLimit
	default:
		return apperrors.TypeInternal
	}
}
