package domain

import "errors"

var (
	// ErrSessionNotFound covers both a missing session and a session owned by
	// a different author. The store deliberately does not distinguish the two,
	// so callers cannot probe for the existence of other authors' drafts.
	ErrSessionNotFound = errors.New("session not found")

	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned on registration with an already-used email.
	ErrEmailTaken = errors.New("user already exists with this email")

	// ErrInvalidCredentials is the single error for both unknown email and
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized is returned when a draft session is read without a
	// valid owner identity.
	ErrUnauthorized = errors.New("unauthorized")
)
