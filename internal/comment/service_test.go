// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

// reviewRef identifies a review and the title it belongs to.
type reviewRef struct {
	reviewID string
	titleID  string
}

// fakeRepo is an in-memory [Repository] with an explicit review→title map.
type fakeRepo struct {
	comments map[string]*Comment
	reviews  []reviewRef
}

func newFakeRepo(reviews ...reviewRef) *fakeRepo {
	return &fakeRepo{comments: map[string]*Comment{}, reviews: reviews}
}

func (r *fakeRepo) ListByReview(_ context.Context, reviewID string, limit, offset int) ([]*Comment, int, error) {
	var out []*Comment
	for _, c := range r.comments {
		if c.ReviewID == reviewID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) FindByIDAndReview(_ context.Context, commentID, reviewID string) (*Comment, error) {
	c, ok := r.comments[commentID]
	if !ok || c.ReviewID != reviewID {
		return nil, dberr.ErrNotFound
	}
	return c, nil
}

func (r *fakeRepo) Create(_ context.Context, c *Comment) error {
	r.comments[c.ID] = c
	return nil
}

func (r *fakeRepo) Update(_ context.Context, c *Comment) error {
	if _, ok := r.comments[c.ID]; !ok {
		return dberr.ErrNotFound
	}
	r.comments[c.ID] = c
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, commentID string) error {
	if _, ok := r.comments[commentID]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.comments, commentID)
	return nil
}

func (r *fakeRepo) ReviewExistsInTitle(_ context.Context, reviewID, titleID string) (bool, error) {
	for _, ref := range r.reviews {
		if ref.reviewID == reviewID && ref.titleID == titleID {
			return true, nil
		}
	}
	return false, nil
}

func user(id string) *access.Principal {
	return &access.Principal{UserID: id, Username: "user-" + id, Role: sec.RoleUser}
}

func TestCreateComment(t *testing.T) {
	repo := newFakeRepo(reviewRef{reviewID: "rev-1", titleID: "title-1"})
	service := NewService(repo)
	ctx := context.Background()

	t.Run("authenticated user comments", func(t *testing.T) {
		comment, err := service.Create(ctx, user("u1"), "title-1", "rev-1", "Well said.")
		require.NoError(t, err)
		assert.Equal(t, "rev-1", comment.ReviewID)
		assert.Equal(t, "u1", comment.AuthorID)
	})

	t.Run("multiple comments per user allowed", func(t *testing.T) {
		_, err := service.Create(ctx, user("u1"), "title-1", "rev-1", "One more thought.")
		require.NoError(t, err)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		_, err := service.Create(ctx, nil, "title-1", "rev-1", "Drive-by.")
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("review under wrong title is not found", func(t *testing.T) {
		_, err := service.Create(ctx, user("u1"), "title-other", "rev-1", "Misrouted.")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("unknown review is not found", func(t *testing.T) {
		_, err := service.Create(ctx, user("u1"), "title-1", "rev-404", "Ghost.")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		_, err := service.Create(ctx, user("u1"), "title-1", "rev-1", "")
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

func TestUpdateComment(t *testing.T) {
	repo := newFakeRepo(reviewRef{reviewID: "rev-1", titleID: "title-1"})
	service := NewService(repo)
	ctx := context.Background()

	author := user("u1")
	comment, err := service.Create(ctx, author, "title-1", "rev-1", "First draft.")
	require.NoError(t, err)

	t.Run("author edits own comment", func(t *testing.T) {
		updated, err := service.Update(ctx, author, "title-1", "rev-1", comment.ID, "Second draft.")
		require.NoError(t, err)
		assert.Equal(t, "Second draft.", updated.Text)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		_, err := service.Update(ctx, user("u2"), "title-1", "rev-1", comment.ID, "Hijacked.")
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("moderator edits any comment", func(t *testing.T) {
		moderator := &access.Principal{UserID: "mod-1", Username: "mod", Role: sec.RoleModerator}
		updated, err := service.Update(ctx, moderator, "title-1", "rev-1", comment.ID, "Moderated.")
		require.NoError(t, err)
		assert.Equal(t, "Moderated.", updated.Text)
	})
}

func TestDeleteComment(t *testing.T) {
	repo := newFakeRepo(reviewRef{reviewID: "rev-1", titleID: "title-1"})
	service := NewService(repo)
	ctx := context.Background()

	author := user("u1")

	t.Run("stranger forbidden", func(t *testing.T) {
		comment, err := service.Create(ctx, author, "title-1", "rev-1", "Keep me.")
		require.NoError(t, err)

		err = service.Delete(ctx, user("u2"), "title-1", "rev-1", comment.ID)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("author deletes own comment", func(t *testing.T) {
		comment, err := service.Create(ctx, author, "title-1", "rev-1", "Delete me.")
		require.NoError(t, err)

		require.NoError(t, service.Delete(ctx, author, "title-1", "rev-1", comment.ID))

		_, err = service.Get(ctx, "title-1", "rev-1", comment.ID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("admin deletes any comment", func(t *testing.T) {
		comment, err := service.Create(ctx, author, "title-1", "rev-1", "Spam.")
		require.NoError(t, err)

		admin := &access.Principal{UserID: "adm-1", Username: "root", Role: sec.RoleAdmin}
		require.NoError(t, service.Delete(ctx, admin, "title-1", "rev-1", comment.ID))
	})
}
