// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/pkg/pointer"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// fakeRepo is an in-memory [Repository] enforcing email and username
// uniqueness like the postgres schema.
type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}}
}

func (r *fakeRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var out []*User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeRepo) GetOrCreateByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	u := &User{ID: uuid.New(), Email: email, Role: sec.RoleUser}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeRepo) Update(_ context.Context, u *User) error {
	if _, ok := r.users[u.ID]; !ok {
		return dberr.ErrNotFound
	}
	if u.Username != nil {
		for id, other := range r.users {
			if id != u.ID && other.Username != nil && *other.Username == *u.Username {
				return dberr.ErrUniqueViolation
			}
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// seed registers a user and returns their principal.
func seed(t *testing.T, repo *fakeRepo, email, username string, role sec.Role) *access.Principal {
	t.Helper()

	u, err := repo.GetOrCreateByEmail(context.Background(), email)
	require.NoError(t, err)

	u.Username = &username
	u.Role = role

	return &access.Principal{UserID: u.ID, Username: username, Role: role}
}

func TestMe(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	principal := seed(t, repo, "casey@example.com", "casey", sec.RoleUser)

	t.Run("returns own record", func(t *testing.T) {
		me, err := service.Me(ctx, principal)
		require.NoError(t, err)
		assert.Equal(t, principal.UserID, me.ID)
		assert.Equal(t, "casey@example.com", me.Email)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		_, err := service.Me(ctx, nil)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})
}

func TestUpdateMe(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	principal := seed(t, repo, "casey@example.com", "casey", sec.RoleUser)
	seed(t, repo, "riley@example.com", "riley", sec.RoleUser)

	t.Run("updates username and bio", func(t *testing.T) {
		updated, err := service.UpdateMe(ctx, principal, ProfileInput{
			Username: pointer.To("casey-m"),
			Bio:      pointer.To("Reviews things."),
		})
		require.NoError(t, err)
		assert.Equal(t, "casey-m", pointer.Val(updated.Username))
		assert.Equal(t, "Reviews things.", pointer.Val(updated.Bio))
	})

	t.Run("taken username conflicts", func(t *testing.T) {
		_, err := service.UpdateMe(ctx, principal, ProfileInput{Username: pointer.To("riley")})
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})

	t.Run("malformed username rejected", func(t *testing.T) {
		_, err := service.UpdateMe(ctx, principal, ProfileInput{Username: pointer.To("Not A Handle!")})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

func TestAdminEndpoints(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ctx := context.Background()

	adminPrincipal := seed(t, repo, "root@critiq.app", "root", sec.RoleAdmin)
	memberPrincipal := seed(t, repo, "casey@example.com", "casey", sec.RoleUser)

	t.Run("non-admin cannot list", func(t *testing.T) {
		_, _, err := service.List(ctx, memberPrincipal, 20, 0)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("admin lists users", func(t *testing.T) {
		users, total, err := service.List(ctx, adminPrincipal, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, users, 2)
	})

	t.Run("admin promotes by username", func(t *testing.T) {
		updated, err := service.UpdateByUsername(ctx, adminPrincipal, "casey", AdminInput{
			Role: pointer.To("moderator"),
		})
		require.NoError(t, err)
		assert.Equal(t, sec.RoleModerator, updated.Role)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := service.UpdateByUsername(ctx, adminPrincipal, "casey", AdminInput{
			Role: pointer.To("overlord"),
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		_, err := service.GetByUsername(ctx, adminPrincipal, "nobody")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("superuser with user role administers", func(t *testing.T) {
		superuser := &access.Principal{UserID: adminPrincipal.UserID, Role: sec.RoleUser, Superuser: true}
		_, err := service.GetByUsername(ctx, superuser, "casey")
		require.NoError(t, err)
	})

	t.Run("admin deletes by username", func(t *testing.T) {
		require.NoError(t, service.DeleteByUsername(ctx, adminPrincipal, "casey"))

		_, err := service.GetByUsername(ctx, adminPrincipal, "casey")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}
