// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/critiq/internal/user"
)

// UserDirectory is the slice of the user store the auth flow needs.
//
// It is satisfied by [user.Repository]; declaring it here keeps the auth
// service's dependency surface explicit and mockable.
type UserDirectory interface {
	// GetOrCreateByEmail returns the account registered under email,
	// creating a fresh one when none exists. Sign-in and sign-up are the
	// same operation in the passwordless flow.
	GetOrCreateByEmail(ctx context.Context, email string) (*user.User, error)

	// FindByID returns the user with the given ID.
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// SessionRepository defines the persistence contract for refresh sessions.
type SessionRepository interface {
	// Create persists a new session record.
	Create(ctx context.Context, session *Session) error

	// FindByTokenHash retrieves an active, unexpired session by its token
	// hash. It returns [dberr.ErrNotFound] for revoked or expired sessions.
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Revoke marks a specific session as revoked.
	Revoke(ctx context.Context, sessionID string) error

	// RevokeAll marks all active sessions for a user as revoked.
	RevokeAll(ctx context.Context, userID string) error

	// DeleteExpired permanently removes sessions past their expiration date.
	DeleteExpired(ctx context.Context) error
}

// CodeRepository defines the transient store for confirmation codes.
//
// # Lifetime
//
// Codes are keyed by email, carry a TTL, and hold only the SHA-256 hash of
// the code. Writing a new code replaces any previous one for the same
// email, so at most one code is live per account.
type CodeRepository interface {
	// Set stores the hash of a confirmation code under the email with TTL.
	Set(ctx context.Context, email, codeHash string, ttl time.Duration) error

	// Get retrieves the stored code hash for an email.
	//
	// It returns [apperr.NotFound] when no code is live (never requested,
	// expired, or already consumed).
	Get(ctx context.Context, email string) (string, error)

	// Delete removes the code for an email, consuming it.
	Delete(ctx context.Context, email string) error
}
