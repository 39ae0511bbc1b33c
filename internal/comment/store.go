// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

// Repository defines the data access contract for comments.
//
// Lookups are scoped to a review the same way reviews are scoped to a
// title: a comment can never be addressed through the wrong review's URL.
type Repository interface {
	// ListByReview returns a page of comments for a review, newest first,
	// along with the total count.
	ListByReview(ctx context.Context, reviewID string, limit, offset int) ([]*Comment, int, error)

	// FindByIDAndReview returns the comment with the given ID if it belongs
	// to the given review.
	//
	// It returns [dberr.ErrNotFound] when the comment does not exist OR
	// belongs to a different review.
	FindByIDAndReview(ctx context.Context, commentID, reviewID string) (*Comment, error)

	// Create persists a new comment. The caller generates the ID.
	Create(ctx context.Context, c *Comment) error

	// Update persists changes to a comment's text.
	Update(ctx context.Context, c *Comment) error

	// Delete removes a comment.
	Delete(ctx context.Context, commentID string) error

	// ReviewExistsInTitle reports whether the review exists AND belongs to
	// the given title.
	//
	// The comment engine verifies the full parent chain before any list or
	// write, so a review reached through the wrong title's URL yields a 404.
	ReviewExistsInTitle(ctx context.Context, reviewID, titleID string) (bool, error)
}
