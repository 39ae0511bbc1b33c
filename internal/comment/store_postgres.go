// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critiq/internal/platform/dberr"
)

// repository implements the [Repository] interface using pgx.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed comment store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// commentSelectColumns joins the author's account row to denormalize the
// username at read time.
const commentSelectColumns = `
	c.id, c.reviewid, c.authorid, COALESCE(a.username, ''), c.text, c.createdat, c.updatedat`

// ListByReview returns a page of comments for a review, newest first.
func (repository *repository) ListByReview(ctx context.Context, reviewID string, limit, offset int) ([]*Comment, int, error) {
	const query = `
		SELECT ` + commentSelectColumns + `,
			COUNT(*) OVER() AS total_count
		FROM social.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.reviewid = $1
		ORDER BY c.createdat DESC, c.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "comment_list")
	}
	defer rows.Close()

	var comments []*Comment
	var totalCount int

	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.ReviewID,
			&comment.AuthorID,
			&comment.Author,
			&comment.Text,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "comment_list_scan")
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "comment_list_rows")
	}

	return comments, totalCount, nil
}

// FindByIDAndReview returns the comment with the given ID scoped to a review.
func (repository *repository) FindByIDAndReview(ctx context.Context, commentID, reviewID string) (*Comment, error) {
	const query = `
		SELECT ` + commentSelectColumns + `
		FROM social.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.id = $1 AND c.reviewid = $2`

	comment := &Comment{}
	err := repository.pool.QueryRow(ctx, query, commentID, reviewID).Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.Author,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "comment_find")
	}

	return comment, nil
}

// Create persists a new comment record into the social.comment table.
func (repository *repository) Create(ctx context.Context, comment *Comment) error {
	const query = `
		INSERT INTO social.comment (id, reviewid, authorid, text, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		comment.ID,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "comment_create")
	}

	return nil
}

// Update persists changes to a comment's text.
func (repository *repository) Update(ctx context.Context, comment *Comment) error {
	const query = `
		UPDATE social.comment
		SET text = $2, updatedat = $3
		WHERE id = $1`

	comment.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(ctx, query, comment.ID, comment.Text, comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "comment_update")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Delete removes a comment.
func (repository *repository) Delete(ctx context.Context, commentID string) error {
	const query = `DELETE FROM social.comment WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, commentID)
	if err != nil {
		return dberr.Wrap(err, "comment_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// ReviewExistsInTitle verifies the full parent chain in one query.
func (repository *repository) ReviewExistsInTitle(ctx context.Context, reviewID, titleID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM social.review WHERE id = $1 AND titleid = $2)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, reviewID, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "comment_review_exists")
	}

	return exists, nil
}
