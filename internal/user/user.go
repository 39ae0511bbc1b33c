// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"time"

	"github.com/taibuivan/critiq/internal/platform/sec"
)

// User is a registered member of the platform.
//
// # Identity
//
// The email address is the account's anchor: it is how users sign in and is
// immutable through the public API. The username is chosen later and is the
// public handle admin endpoints address users by; it stays nil until set.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Username *string  `json:"username"`
	Role     sec.Role `json:"role"`
	Bio      *string  `json:"bio"`

	// Superuser grants admin capability regardless of role. It can only be
	// set out-of-band (bootstrap/ops), never through the API, and is not
	// part of the public representation.
	Superuser bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines the data access contract for user accounts.
type Repository interface {
	// List returns a page of users ordered by creation time, with the
	// total count.
	List(ctx context.Context, limit, offset int) ([]*User, int, error)

	// FindByID returns the user with the given ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername returns the user with the given username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// GetOrCreateByEmail returns the user registered under email, creating
	// a fresh account with the default role when none exists. The lookup
	// and insert are race-safe: a concurrent insert resolves to the winner.
	GetOrCreateByEmail(ctx context.Context, email string) (*User, error)

	// Update persists changes to a user's mutable fields.
	//
	// It returns [dberr.ErrUniqueViolation] when the username is taken.
	Update(ctx context.Context, u *User) error

	// Delete removes a user account. Reviews, comments, and sessions are
	// removed by the storage layer's cascade rules.
	Delete(ctx context.Context, id string) error
}
