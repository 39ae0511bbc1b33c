// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package review implements the review engine: scored opinions users
// publish under catalog titles.
//
// # Architecture
//
// The service orchestrates domain entities through the [Repository]
// interface and delegates authorization to the access package. It enforces
// the one-review-per-user-per-title rule twice: an early lookup for a clean
// error, and the storage unique constraint as the race-proof backstop.
package review

import (
	"context"
	"fmt"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// maxTextLength bounds review bodies.
const maxTextLength = 10000

// Service implements review use cases.
type Service struct {
	reviewRepository Repository
}

// NewService constructs a new review [Service].
func NewService(reviewRepo Repository) *Service {
	return &Service{reviewRepository: reviewRepo}
}

// ListByTitle returns a page of reviews for a title, newest first.
// This read is public.
//
// An unknown title yields [apperr.NotFound] rather than an empty page.
func (service *Service) ListByTitle(ctx context.Context, titleID string, limit, offset int) ([]*Review, int, error) {
	if err := service.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}

	return service.reviewRepository.ListByTitle(ctx, titleID, limit, offset)
}

// Get returns a single review scoped to its title. This read is public.
func (service *Service) Get(ctx context.Context, titleID, reviewID string) (*Review, error) {
	if err := service.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	return service.findReview(ctx, reviewID, titleID)
}

// Input holds the data to create or fully update a review.
type Input struct {
	Text  string
	Score int
}

// Create validates and persists a new review under a title.
//
// # Business Rules
//   - The caller must be authenticated.
//   - Score must be on the 1..10 scale.
//   - One review per user per title; a second attempt conflicts.
func (service *Service) Create(ctx context.Context, principal *access.Principal, titleID string, input Input) (*Review, error) {
	// ── 1. Authorization ──────────────────────────────────────────────────

	if err := access.Require(principal, access.CanCreateContent(principal)); err != nil {
		return nil, err
	}

	// ── 2. Validation ─────────────────────────────────────────────────────

	if err := validateInput(input); err != nil {
		return nil, err
	}

	if err := service.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	// ── 3. Entity Construction & Persistence ──────────────────────────────

	review := &Review{
		ID:       uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
		TitleID:  titleID,
		AuthorID: principal.UserID,
		Author:   principal.Username,
		Text:     input.Text,
		Score:    input.Score,
	}

	// The unique constraint on (titleid, authorid) is the race-proof
	// enforcement of the one-review rule; translate it to a clean conflict.
	if err := service.reviewRepository.Create(ctx, review); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("You have already reviewed this title")
		}
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	return review, nil
}

// UpdateInput holds a partial review update. Nil fields are unchanged.
type UpdateInput struct {
	Text  *string
	Score *int
}

// Update applies a partial update to an existing review.
//
// The author may edit their own review; moderators and admins may edit any.
func (service *Service) Update(ctx context.Context, principal *access.Principal, titleID, reviewID string, input UpdateInput) (*Review, error) {
	// ── 1. Load & Authorize ───────────────────────────────────────────────

	review, err := service.findReview(ctx, reviewID, titleID)
	if err != nil {
		return nil, err
	}

	if err := access.Require(principal, access.CanMutateContent(principal, review.AuthorID)); err != nil {
		return nil, err
	}

	// ── 2. Apply Patch & Validate ─────────────────────────────────────────

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	if err := validateInput(Input{Text: review.Text, Score: review.Score}); err != nil {
		return nil, err
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	if err := service.reviewRepository.Update(ctx, review); err != nil {
		return nil, reviewNotFound(err)
	}

	return review, nil
}

// Delete removes a review and, by cascade, its comments.
//
// The author may delete their own review; moderators and admins may delete any.
func (service *Service) Delete(ctx context.Context, principal *access.Principal, titleID, reviewID string) error {
	review, err := service.findReview(ctx, reviewID, titleID)
	if err != nil {
		return err
	}

	if err := access.Require(principal, access.CanMutateContent(principal, review.AuthorID)); err != nil {
		return err
	}

	if err := service.reviewRepository.Delete(ctx, review.ID); err != nil {
		return reviewNotFound(err)
	}

	return nil
}

// # Helpers

// validateInput enforces review field rules.
func validateInput(input Input) error {
	validator := &validate.Validator{}
	validator.
		Required("text", input.Text).
		MaxLen("text", input.Text, maxTextLength).
		Range("score", input.Score, MinScore, MaxScore)
	return validator.Err()
}

// requireTitle maps a missing parent title to [apperr.NotFound].
func (service *Service) requireTitle(ctx context.Context, titleID string) error {
	exists, err := service.reviewRepository.TitleExists(ctx, titleID)
	if err != nil {
		return fmt.Errorf("review_service_title_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// findReview resolves a review scoped to its title.
func (service *Service) findReview(ctx context.Context, reviewID, titleID string) (*Review, error) {
	review, err := service.reviewRepository.FindByIDAndTitle(ctx, reviewID, titleID)
	if err != nil {
		return nil, reviewNotFound(err)
	}

	return review, nil
}

// reviewNotFound maps a storage not-found to a client-facing Review error.
func reviewNotFound(err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound("Review")
	}
	return err
}
