// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

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

// NewRepository constructs a PostgreSQL backed review store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// reviewSelectColumns joins the author's account row to denormalize the
// username at read time.
const reviewSelectColumns = `
	r.id, r.titleid, r.authorid, COALESCE(a.username, ''), r.text, r.score, r.createdat, r.updatedat`

/*
ListByTitle returns a page of reviews for a title, newest first.

Description: Uses the COUNT(*) OVER() window function to retrieve the total
record count without a second query.

Parameters:
  - ctx: context.Context
  - titleID: string
  - limit: int
  - offset: int

Returns:
  - []*Review: Slice of hydrated review entities
  - int: Total count for the title
  - error: Database execution errors
*/
func (repository *repository) ListByTitle(ctx context.Context, titleID string, limit, offset int) ([]*Review, int, error) {
	const query = `
		SELECT ` + reviewSelectColumns + `,
			COUNT(*) OVER() AS total_count
		FROM social.review r
		JOIN users.account a ON a.id = r.authorid
		WHERE r.titleid = $1
		ORDER BY r.createdat DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "review_list")
	}
	defer rows.Close()

	var reviews []*Review
	var totalCount int

	for rows.Next() {
		review := &Review{}
		err := rows.Scan(
			&review.ID,
			&review.TitleID,
			&review.AuthorID,
			&review.Author,
			&review.Text,
			&review.Score,
			&review.CreatedAt,
			&review.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "review_list_scan")
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "review_list_rows")
	}

	return reviews, totalCount, nil
}

// FindByIDAndTitle returns the review with the given ID scoped to a title.
// A review reached through the wrong title's URL is treated as absent.
func (repository *repository) FindByIDAndTitle(ctx context.Context, reviewID, titleID string) (*Review, error) {
	const query = `
		SELECT ` + reviewSelectColumns + `
		FROM social.review r
		JOIN users.account a ON a.id = r.authorid
		WHERE r.id = $1 AND r.titleid = $2`

	review := &Review{}
	err := repository.pool.QueryRow(ctx, query, reviewID, titleID).Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "review_find")
	}

	return review, nil
}

// Create persists a new review record into the social.review table.
//
// The unique constraint on (titleid, authorid) surfaces duplicate reviews as
// [dberr.ErrUniqueViolation] for the service to translate.
func (repository *repository) Create(ctx context.Context, review *Review) error {
	const query = `
		INSERT INTO social.review (id, titleid, authorid, text, score, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		review.ID,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "review_create")
	}

	return nil
}

// Update persists changes to a review's text and score.
func (repository *repository) Update(ctx context.Context, review *Review) error {
	const query = `
		UPDATE social.review
		SET text = $2, score = $3, updatedat = $4
		WHERE id = $1`

	review.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(ctx, query, review.ID, review.Text, review.Score, review.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "review_update")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Delete removes a review. Comments cascade at the schema level.
func (repository *repository) Delete(ctx context.Context, reviewID string) error {
	const query = `DELETE FROM social.review WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, reviewID)
	if err != nil {
		return dberr.Wrap(err, "review_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// TitleExists reports whether a title with the given ID is in the catalog.
func (repository *repository) TitleExists(ctx context.Context, titleID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM catalog.title WHERE id = $1)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "review_title_exists")
	}

	return exists, nil
}
