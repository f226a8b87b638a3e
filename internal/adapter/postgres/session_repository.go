package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/arvidhall/wellnessflow/internal/domain"
)

// sessionColumns must match the Scan order in scanSession.
const sessionColumns = `id, title, tags, content, status, author_id, created_at, updated_at`

// SessionRepo implements domain.SessionRepository backed by PostgreSQL.
// Timestamps are stamped from the injected clock rather than NOW() so that
// updatedAt monotonicity is under test control.
type SessionRepo struct {
	pool  *pgxpool.Pool
	clock clockwork.Clock
}

func NewSessionRepo(pool *pgxpool.Pool, clock clockwork.Clock) *SessionRepo {
	return &SessionRepo{pool: pool, clock: clock}
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID, &s.Title, &s.Tags, &s.Content, &s.Status, &s.AuthorID,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	now := r.clock.Now().UTC()

	tags := session.Tags
	if tags == nil {
		tags = []string{}
	}
	status := session.Status
	if status == "" {
		status = domain.StatusDraft
	}

	created, err := scanSession(r.pool.QueryRow(ctx, `
		INSERT INTO sessions (title, tags, content, status, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+sessionColumns+`
	`, session.Title, tags, session.Content, status, session.AuthorID, now))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return created, nil
}

func (r *SessionRepo) GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	session, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}
	return session, nil
}

// GetByIDForAuthor collapses "missing" and "not yours" into the same
// not-found error. Callers cannot probe for other authors' sessions.
func (r *SessionRepo) GetByIDForAuthor(ctx context.Context, sessionID, authorID uuid.UUID) (*domain.Session, error) {
	session, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 AND author_id = $2`,
		sessionID, authorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session for author: %w", err)
	}
	return session, nil
}

func (r *SessionRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE author_id = $1
		ORDER BY updated_at DESC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by author: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// ListPublished joins the author display name at query time.
func (r *SessionRepo) ListPublished(ctx context.Context) ([]domain.SessionWithAuthor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.title, s.tags, s.content, s.status, s.author_id,
		       s.created_at, s.updated_at, u.id, u.name
		FROM sessions s
		JOIN users u ON u.id = s.author_id
		WHERE s.status = 'published'
		ORDER BY s.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list published sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.SessionWithAuthor, 0)
	for rows.Next() {
		var s domain.SessionWithAuthor
		err := rows.Scan(
			&s.ID, &s.Title, &s.Tags, &s.Content, &s.Status, &s.AuthorID,
			&s.CreatedAt, &s.UpdatedAt, &s.Author.ID, &s.Author.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan published session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate published sessions: %w", err)
	}

	return sessions, nil
}

// Update replaces title, tags and content, keeps the stored status when
// changes.Status is nil, and stamps a fresh updated_at. author_id and
// created_at are never part of the SET list.
func (r *SessionRepo) Update(ctx context.Context, sessionID uuid.UUID, changes domain.SessionChanges) (*domain.Session, error) {
	now := r.clock.Now().UTC()

	tags := changes.Tags
	if tags == nil {
		tags = []string{}
	}
	var status *string
	if changes.Status != nil {
		s := string(*changes.Status)
		status = &s
	}

	session, err := scanSession(r.pool.QueryRow(ctx, `
		UPDATE sessions
		SET title = $2, tags = $3, content = $4,
		    status = COALESCE($5, status), updated_at = $6
		WHERE id = $1
		RETURNING `+sessionColumns+`
	`, sessionID, changes.Title, tags, changes.Content, status, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}

func (r *SessionRepo) Delete(ctx context.Context, sessionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
