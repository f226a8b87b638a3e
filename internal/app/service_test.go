package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvidhall/wellnessflow/internal/auth"
	"github.com/arvidhall/wellnessflow/internal/domain"
)

// --- Mock repositories ---

type mockUserRepo struct {
	createFn     func(ctx context.Context, name, email, passwordHash string) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn    func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, name, email, passwordHash)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

type mockSessionRepo struct {
	createFn           func(ctx context.Context, session *domain.Session) (*domain.Session, error)
	getByIDFn          func(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	getByIDForAuthorFn func(ctx context.Context, sessionID, authorID uuid.UUID) (*domain.Session, error)
	listByAuthorFn     func(ctx context.Context, authorID uuid.UUID) ([]domain.Session, error)
	listPublishedFn    func(ctx context.Context) ([]domain.SessionWithAuthor, error)
	updateFn           func(ctx context.Context, sessionID uuid.UUID, changes domain.SessionChanges) (*domain.Session, error)
	deleteFn           func(ctx context.Context, sessionID uuid.UUID) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSessionRepo) GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockSessionRepo) GetByIDForAuthor(ctx context.Context, sessionID, authorID uuid.UUID) (*domain.Session, error) {
	if m.getByIDForAuthorFn != nil {
		return m.getByIDForAuthorFn(ctx, sessionID, authorID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockSessionRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Session, error) {
	if m.listByAuthorFn != nil {
		return m.listByAuthorFn(ctx, authorID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSessionRepo) ListPublished(ctx context.Context) ([]domain.SessionWithAuthor, error) {
	if m.listPublishedFn != nil {
		return m.listPublishedFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSessionRepo) Update(ctx context.Context, sessionID uuid.UUID, changes domain.SessionChanges) (*domain.Session, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, sessionID, changes)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSessionRepo) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, sessionID)
	}
	return errors.New("not implemented")
}

func newTestService(users domain.UserRepository, sessions domain.SessionRepository) *Service {
	tokens := auth.NewTokenService("test-secret-key-32-bytes-long!!!", 7*24*time.Hour, clockwork.NewFakeClock())
	return NewService(users, sessions, tokens)
}

// --- Credential service ---

func TestRegister_HashesPassword(t *testing.T) {
	var storedHash string
	users := &mockUserRepo{
		createFn: func(_ context.Context, name, email, passwordHash string) (*domain.User, error) {
			storedHash = passwordHash
			return &domain.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash}, nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	user, token, err := svc.Register(context.Background(), "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana@x.com", user.Email)

	// Never the raw password
	assert.NotEqual(t, "secret1", storedHash)
	assert.True(t, auth.VerifyPassword("secret1", storedHash))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(_ context.Context, _, _, _ string) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	_, _, err := svc.Register(context.Background(), "Ana", "ana@x.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	userID := uuid.New()
	users := &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: userID, Name: "Ana", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	user, token, err := svc.Login(context.Background(), "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	users := &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "ana@x.com" {
				return &domain.User{ID: uuid.New(), Email: email, PasswordHash: hash}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	svc := newTestService(users, &mockSessionRepo{})

	_, _, errUnknown := svc.Login(context.Background(), "nobody@x.com", "secret1")
	_, _, errWrongPw := svc.Login(context.Background(), "ana@x.com", "wrong")

	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, domain.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

// --- Session service ---

func TestCreateSession_TrimsTitleAndSetsAuthor(t *testing.T) {
	authorID := uuid.New()
	sessions := &mockSessionRepo{
		createFn: func(_ context.Context, session *domain.Session) (*domain.Session, error) {
			created := *session
			created.ID = uuid.New()
			return &created, nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessions)

	session, err := svc.CreateSession(context.Background(), authorID, NewSession{
		Title: "  Morning Flow  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Morning Flow", session.Title)
	assert.Equal(t, authorID, session.AuthorID)
	assert.NotEqual(t, uuid.Nil, session.ID)
}

func TestGetSessionForViewer_PublishedIsPublic(t *testing.T) {
	sessionID := uuid.New()
	sessions := &mockSessionRepo{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*domain.Session, error) {
			return &domain.Session{ID: id, Status: domain.StatusPublished, AuthorID: uuid.New()}, nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessions)

	session, err := svc.GetSessionForViewer(context.Background(), sessionID, nil)
	require.NoError(t, err)
	assert.Equal(t, sessionID, session.ID)
}

func TestGetSessionForViewer_DraftRequiresOwner(t *testing.T) {
	authorID := uuid.New()
	otherID := uuid.New()
	sessions := &mockSessionRepo{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*domain.Session, error) {
			return &domain.Session{ID: id, Status: domain.StatusDraft, AuthorID: authorID}, nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessions)
	ctx := context.Background()

	// Anonymous
	_, err := svc.GetSessionForViewer(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Different user
	_, err = svc.GetSessionForViewer(ctx, uuid.New(), &otherID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Owner
	session, err := svc.GetSessionForViewer(ctx, uuid.New(), &authorID)
	require.NoError(t, err)
	assert.Equal(t, authorID, session.AuthorID)
}

func TestUpdateSession_OwnershipCollapsed(t *testing.T) {
	authorID := uuid.New()
	sessions := &mockSessionRepo{
		getByIDForAuthorFn: func(_ context.Context, _, author uuid.UUID) (*domain.Session, error) {
			if author == authorID {
				return &domain.Session{AuthorID: author}, nil
			}
			return nil, domain.ErrSessionNotFound
		},
		updateFn: func(_ context.Context, id uuid.UUID, changes domain.SessionChanges) (*domain.Session, error) {
			return &domain.Session{ID: id, Title: changes.Title, AuthorID: authorID}, nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessions)
	ctx := context.Background()

	// Not the owner: plain not-found, nothing leaks
	_, err := svc.UpdateSession(ctx, uuid.New(), uuid.New(), domain.SessionChanges{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Owner succeeds; title gets trimmed on the way through
	session, err := svc.UpdateSession(ctx, authorID, uuid.New(), domain.SessionChanges{Title: " Evening Flow "})
	require.NoError(t, err)
	assert.Equal(t, "Evening Flow", session.Title)
}

func TestDeleteSession_OwnershipCollapsed(t *testing.T) {
	authorID := uuid.New()
	var deleted bool
	sessions := &mockSessionRepo{
		getByIDForAuthorFn: func(_ context.Context, _, author uuid.UUID) (*domain.Session, error) {
			if author == authorID {
				return &domain.Session{AuthorID: author}, nil
			}
			return nil, domain.ErrSessionNotFound
		},
		deleteFn: func(_ context.Context, _ uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessions)
	ctx := context.Background()

	err := svc.DeleteSession(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, deleted)

	require.NoError(t, svc.DeleteSession(ctx, authorID, uuid.New()))
	assert.True(t, deleted)
}
