// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed user store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userSelectColumns = `id, email, username, role, superuser, bio, createdat, updatedat`

// List returns a page of users ordered by creation time (ID order matches
// creation order for UUIDv7 keys).
func (repository *repository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	const query = `
		SELECT ` + userSelectColumns + `, COUNT(*) OVER() AS total_count
		FROM users.account
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "user_list")
	}
	defer rows.Close()

	var users []*User
	var totalCount int

	for rows.Next() {
		user := &User{}
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Username,
			&user.Role,
			&user.Superuser,
			&user.Bio,
			&user.CreatedAt,
			&user.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "user_list_scan")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "user_list_rows")
	}

	return users, totalCount, nil
}

// FindByID retrieves a user record by their unique ID.
func (repository *repository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `SELECT ` + userSelectColumns + ` FROM users.account WHERE id = $1`
	return repository.findOne(ctx, query, id)
}

// FindByUsername retrieves a user record by their unique username.
func (repository *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	const query = `SELECT ` + userSelectColumns + ` FROM users.account WHERE username = $1`
	return repository.findOne(ctx, query, username)
}

// findByEmail retrieves a user record by their unique email address.
func (repository *repository) findByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT ` + userSelectColumns + ` FROM users.account WHERE email = $1`
	return repository.findOne(ctx, query, email)
}

/*
GetOrCreateByEmail returns the account registered under email, creating one
when absent.

Description: The insert relies on the unique email constraint for race
safety — when two concurrent sign-in requests both miss the lookup, the
loser's insert collides and resolves to the winner's row with a second read.

Parameters:
  - ctx: context.Context
  - email: string (Already validated by the service layer)

Returns:
  - *User: The existing or freshly created account
  - error: Database execution errors
*/
func (repository *repository) GetOrCreateByEmail(ctx context.Context, email string) (*User, error) {
	// ── 1. Fast Path: Existing Account ────────────────────────────────────

	user, err := repository.findByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	// ── 2. Create Fresh Account ───────────────────────────────────────────

	now := time.Now()
	user = &User{
		ID:        uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
		Email:     email,
		Role:      sec.RoleUser, // Rule: Default role is always User
		CreatedAt: now,
		UpdatedAt: now,
	}

	const insert = `
		INSERT INTO users.account (id, email, username, role, superuser, bio, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = repository.pool.Exec(ctx, insert,
		user.ID,
		user.Email,
		user.Username,
		user.Role,
		user.Superuser,
		user.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err == nil {
		return user, nil
	}

	// ── 3. Lost the Race: Read the Winner ─────────────────────────────────

	if dberr.IsUniqueViolation(dberr.Wrap(err, "user_get_or_create")) {
		return repository.findByEmail(ctx, email)
	}

	return nil, dberr.Wrap(err, "user_get_or_create")
}

// Update persists changes to a user's mutable fields.
func (repository *repository) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET username = $2, role = $3, bio = $4, updatedat = $5
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Role,
		user.Bio,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "user_update")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Delete removes a user account. Reviews, comments, and sessions cascade at
// the schema level.
func (repository *repository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users.account WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "user_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// findOne runs a single-row user query with the shared projection.
func (repository *repository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Role,
		&user.Superuser,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "user_find")
	}

	return user, nil
}
