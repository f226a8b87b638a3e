package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/arvidhall/wellnessflow/internal/app"
	"github.com/arvidhall/wellnessflow/internal/domain"
	apperrors "github.com/arvidhall/wellnessflow/internal/platform/errors"
)

type sessionRequest struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
	Status  *string  `json:"status"`
}

func (req *sessionRequest) status() (*domain.Status, error) {
	if req.Status == nil {
		return nil, nil
	}
	status := domain.Status(*req.Status)
	if !status.Valid() {
		return nil, apperrors.ValidationError("status must be draft or published").WithField("status", *req.Status)
	}
	return &status, nil
}

func (s *Server) handleCreateSession(c echo.Context) error {
	authorID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return apperrors.InternalError("invalid user ID in context", nil)
	}

	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.ValidationError("title is required")
	}
	status, err := req.status()
	if err != nil {
		return err
	}

	input := app.NewSession{
		Title:   req.Title,
		Tags:    req.Tags,
		Content: req.Content,
	}
	if status != nil {
		input.Status = *status
	}

	session, err := s.app.CreateSession(c.Request().Context(), authorID, input)
	if err != nil {
		return apperrors.InternalError("failed to create session", err)
	}

	if err := c.JSON(http.StatusOK, sessionResponse{Session: toSessionPayload(session)}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetSession(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid session ID").WithField("id", c.Param("id"))
	}

	var viewerID *uuid.UUID
	if userID, ok := c.Get("userID").(uuid.UUID); ok {
		viewerID = &userID
	}

	session, err := s.app.GetSessionForViewer(c.Request().Context(), sessionID, viewerID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return apperrors.NotFoundError("session not found")
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return apperrors.AuthenticationError("unauthorized")
	}
	if err != nil {
		return apperrors.InternalError("failed to load session", err)
	}

	if err := c.JSON(http.StatusOK, sessionResponse{Session: toSessionPayload(session)}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateSession(c echo.Context) error {
	authorID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return apperrors.InternalError("invalid user ID in context", nil)
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid session ID").WithField("id", c.Param("id"))
	}

	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.ValidationError("title is required")
	}
	status, err := req.status()
	if err != nil {
		return err
	}

	changes := domain.SessionChanges{
		Title:   req.Title,
		Tags:    req.Tags,
		Content: req.Content,
		Status:  status,
	}

	session, err := s.app.UpdateSession(c.Request().Context(), authorID, sessionID, changes)
	if errors.Is(err, domain.ErrSessionNotFound) {
		// Covers both missing and not-owned sessions.
		return apperrors.NotFoundError("session not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to update session", err)
	}

	if err := c.JSON(http.StatusOK, sessionResponse{Session: toSessionPayload(session)}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	authorID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return apperrors.InternalError("invalid user ID in context", nil)
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ValidationError("invalid session ID").WithField("id", c.Param("id"))
	}

	err = s.app.DeleteSession(c.Request().Context(), authorID, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return apperrors.NotFoundError("session not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to delete session", err)
	}

	if err := c.JSON(http.StatusOK, map[string]string{"message": "session deleted"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListMySessions(c echo.Context) error {
	authorID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return apperrors.InternalError("invalid user ID in context", nil)
	}

	sessions, err := s.app.ListMySessions(c.Request().Context(), authorID)
	if err != nil {
		return apperrors.InternalError("failed to list sessions", err)
	}

	response := map[string]any{"sessions": toSessionPayloads(sessions)}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListPublished(c echo.Context) error {
	sessions, err := s.app.ListPublished(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list published sessions", err)
	}

	response := map[string]any{"sessions": toPublishedPayloads(sessions)}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
