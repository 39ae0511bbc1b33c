// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "context"

// Repository defines the data access contract for reviews.
//
// # Architecture
//
// The interface lives in the domain package because the service layer (the
// consumer) defines what it needs. Lookups are always scoped to a title so
// that a review can never be addressed through the wrong title's URL.
type Repository interface {
	// ListByTitle returns a page of reviews for a title, newest first,
	// along with the total count.
	ListByTitle(ctx context.Context, titleID string, limit, offset int) ([]*Review, int, error)

	// FindByIDAndTitle returns the review with the given ID if it belongs
	// to the given title.
	//
	// It returns [dberr.ErrNotFound] when the review does not exist OR
	// belongs to a different title.
	FindByIDAndTitle(ctx context.Context, reviewID, titleID string) (*Review, error)

	// Create persists a new review. The caller generates the ID.
	//
	// It returns [dberr.ErrUniqueViolation] when the author already has a
	// review for the title.
	Create(ctx context.Context, r *Review) error

	// Update persists changes to a review's text and score.
	Update(ctx context.Context, r *Review) error

	// Delete removes a review. Comments under it are removed by the storage
	// layer's cascade rules.
	Delete(ctx context.Context, reviewID string) error

	// TitleExists reports whether a title with the given ID is in the catalog.
	//
	// The review engine verifies the parent before any list or write so that
	// an unknown title yields a 404 rather than an empty success.
	TitleExists(ctx context.Context, titleID string) (bool, error)
}
