package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/arvidhall/wellnessflow/internal/auth"
	"github.com/arvidhall/wellnessflow/internal/domain"
)

// Service implements the credential and session use cases on top of the
// domain repositories. Input shape validation happens at the HTTP boundary;
// the service enforces business rules and ownership.
type Service struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	tokens   *auth.TokenService
}

func NewService(users domain.UserRepository, sessions domain.SessionRepository, tokens *auth.TokenService) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// Register creates a user with a salted password hash and issues a token.
// Returns domain.ErrEmailTaken when the email is already registered.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.Create(ctx, name, email, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password both return domain.ErrInvalidCredentials; callers cannot tell
// which check failed.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// VerifyToken validates a bearer token and returns its claims.
func (s *Service) VerifyToken(token string) (*auth.Claims, error) {
	return s.tokens.Verify(token)
}

// NewSession is the create payload. Zero values fall back to the store
// defaults: empty tags, empty content, draft status.
type NewSession struct {
	Title   string
	Tags    []string
	Content string
	Status  domain.Status
}

func (s *Service) CreateSession(ctx context.Context, authorID uuid.UUID, input NewSession) (*domain.Session, error) {
	return s.sessions.Create(ctx, &domain.Session{
		Title:    strings.TrimSpace(input.Title),
		Tags:     input.Tags,
		Content:  input.Content,
		Status:   input.Status,
		AuthorID: authorID,
	})
}

// GetSessionForViewer returns a session if it is published, or if the viewer
// is its author. Drafts read by anyone else (or anonymously) return
// domain.ErrUnauthorized.
func (s *Service) GetSessionForViewer(ctx context.Context, sessionID uuid.UUID, viewerID *uuid.UUID) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status == domain.StatusDraft {
		if viewerID == nil || *viewerID != session.AuthorID {
			return nil, domain.ErrUnauthorized
		}
	}

	return session, nil
}

// UpdateSession applies changes to the author's own session. The ownership
// check goes through the store's collapsed lookup, so a session owned by
// someone else is indistinguishable from a missing one.
func (s *Service) UpdateSession(ctx context.Context, authorID, sessionID uuid.UUID, changes domain.SessionChanges) (*domain.Session, error) {
	if _, err := s.sessions.GetByIDForAuthor(ctx, sessionID, authorID); err != nil {
		return nil, err
	}

	changes.Title = strings.TrimSpace(changes.Title)
	return s.sessions.Update(ctx, sessionID, changes)
}

func (s *Service) DeleteSession(ctx context.Context, authorID, sessionID uuid.UUID) error {
	if _, err := s.sessions.GetByIDForAuthor(ctx, sessionID, authorID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

// ListMySessions returns the author's sessions, most recently updated first.
func (s *Service) ListMySessions(ctx context.Context, authorID uuid.UUID) ([]domain.Session, error) {
	return s.sessions.ListByAuthor(ctx, authorID)
}

// ListPublished returns all published sessions, newest first, with the
// author display snapshot.
func (s *Service) ListPublished(ctx context.Context) ([]domain.SessionWithAuthor, error) {
	return s.sessions.ListPublished(ctx)
}
