package httpserver

import (
	"time"

	"github.com/arvidhall/wellnessflow/internal/domain"
)

// Wire representations. IDs travel as strings and timestamps as RFC 3339 so
// clients never depend on server-internal types.

type userPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type authorPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sessionPayload struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Tags      []string       `json:"tags"`
	Content   string         `json:"content"`
	Status    string         `json:"status"`
	AuthorID  string         `json:"authorId"`
	Author    *authorPayload `json:"author,omitempty"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// sessionResponse wraps a single session the same way listings wrap their
// array, so every endpoint answers with a named envelope.
type sessionResponse struct {
	Session sessionPayload `json:"session"`
}

func toUserPayload(user *domain.User) userPayload {
	return userPayload{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func toSessionPayload(session *domain.Session) sessionPayload {
	tags := session.Tags
	if tags == nil {
		tags = []string{}
	}
	return sessionPayload{
		ID:        session.ID.String(),
		Title:     session.Title,
		Tags:      tags,
		Content:   session.Content,
		Status:    string(session.Status),
		AuthorID:  session.AuthorID.String(),
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
		UpdatedAt: session.UpdatedAt.Format(time.RFC3339),
	}
}

func toSessionPayloads(sessions []domain.Session) []sessionPayload {
	payloads := make([]sessionPayload, 0, len(sessions))
	for i := range sessions {
		payloads = append(payloads, toSessionPayload(&sessions[i]))
	}
	return payloads
}

func toPublishedPayloads(sessions []domain.SessionWithAuthor) []sessionPayload {
	payloads := make([]sessionPayload, 0, len(sessions))
	for i := range sessions {
		payload := toSessionPayload(&sessions[i].Session)
		payload.Author = &authorPayload{
			ID:   sessions[i].Author.ID.String(),
			Name: sessions[i].Author.Name,
		}
		payloads = append(payloads, payload)
	}
	return payloads
}
