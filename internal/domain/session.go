package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the publication state of a session document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Session is a wellness-content document authored by a user. It is unrelated
// to the login-session concept; the name comes from the product domain.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	Title    string
	Tags     []string
	Content  string
	Status   Status
	AuthorID uuid.UUID
}

// Author is the denormalized display snapshot attached to public listings.
// It is read from the users table at query time, never stored on the session.
type Author struct {
	ID   uuid.UUID
	Name string
}

type SessionWithAuthor struct {
	Session
	Author Author
}

// SessionChanges is the partial update payload for a session. Title, Tags and
// Content are full replacements; a nil Status keeps the stored status.
// AuthorID and CreatedAt are immutable and not representable here.
type SessionChanges struct {
	Title   string
	Tags    []string
	Content string
	Status  *Status
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) (*Session, error)
	GetByID(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	// GetByIDForAuthor returns ErrSessionNotFound both when no session with
	// the id exists and when it belongs to a different author.
	GetByIDForAuthor(ctx context.Context, sessionID, authorID uuid.UUID) (*Session, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]Session, error)
	ListPublished(ctx context.Context) ([]SessionWithAuthor, error)
	// Update stamps a fresh UpdatedAt and never changes AuthorID or CreatedAt.
	Update(ctx context.Context, sessionID uuid.UUID, changes SessionChanges) (*Session, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}
