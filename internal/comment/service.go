// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment implements the comment engine: threaded replies users
// attach to reviews.
//
// # Architecture
//
// Mirrors the review engine one level down the hierarchy. Every operation
// first verifies the review/title parent chain so that objects can never be
// reached through a foreign URL.
package comment

import (
	"context"
	"fmt"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// maxTextLength bounds comment bodies.
const maxTextLength = 5000

// Service implements comment use cases.
type Service struct {
	commentRepository Repository
}

// NewService constructs a new comment [Service].
func NewService(commentRepo Repository) *Service {
	return &Service{commentRepository: commentRepo}
}

// ListByReview returns a page of a review's comments, newest first.
// This read is public.
func (service *Service) ListByReview(ctx context.Context, titleID, reviewID string, limit, offset int) ([]*Comment, int, error) {
	if err := service.requireReview(ctx, reviewID, titleID); err != nil {
		return nil, 0, err
	}

	return service.commentRepository.ListByReview(ctx, reviewID, limit, offset)
}

// Get returns a single comment scoped to its review. This read is public.
func (service *Service) Get(ctx context.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if err := service.requireReview(ctx, reviewID, titleID); err != nil {
		return nil, err
	}

	comment, err := service.commentRepository.FindByIDAndReview(ctx, commentID, reviewID)
	if err != nil {
		return nil, commentNotFound(err)
	}

	return comment, nil
}

// Create validates and persists a new comment under a review.
//
// Any authenticated user may comment; there is no one-comment limit.
func (service *Service) Create(ctx context.Context, principal *access.Principal, titleID, reviewID, text string) (*Comment, error) {
	// ── 1. Authorization ──────────────────────────────────────────────────

	if err := access.Require(principal, access.CanCreateContent(principal)); err != nil {
		return nil, err
	}

	// ── 2. Validation ─────────────────────────────────────────────────────

	if err := validateText(text); err != nil {
		return nil, err
	}

	if err := service.requireReview(ctx, reviewID, titleID); err != nil {
		return nil, err
	}

	// ── 3. Entity Construction & Persistence ──────────────────────────────

	comment := &Comment{
		ID:       uuid.New(), // Time-sortable ID to prevent PG index fragmentation.
		ReviewID: reviewID,
		AuthorID: principal.UserID,
		Author:   principal.Username,
		Text:     text,
	}

	if err := service.commentRepository.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	return comment, nil
}

// Update replaces a comment's text.
//
// The author may edit their own comment; moderators and admins may edit any.
func (service *Service) Update(ctx context.Context, principal *access.Principal, titleID, reviewID, commentID, text string) (*Comment, error) {
	// ── 1. Load & Authorize ───────────────────────────────────────────────

	if err := service.requireReview(ctx, reviewID, titleID); err != nil {
		return nil, err
	}

	comment, err := service.commentRepository.FindByIDAndReview(ctx, commentID, reviewID)
	if err != nil {
		return nil, commentNotFound(err)
	}

	if err := access.Require(principal, access.CanMutateContent(principal, comment.AuthorID)); err != nil {
		return nil, err
	}

	// ── 2. Validate & Persist ─────────────────────────────────────────────

	if err := validateText(text); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := service.commentRepository.Update(ctx, comment); err != nil {
		return nil, commentNotFound(err)
	}

	return comment, nil
}

// Delete removes a comment.
//
// The author may delete their own comment; moderators and admins may delete any.
func (service *Service) Delete(ctx context.Context, principal *access.Principal, titleID, reviewID, commentID string) error {
	if err := service.requireReview(ctx, reviewID, titleID); err != nil {
		return err
	}

	comment, err := service.commentRepository.FindByIDAndReview(ctx, commentID, reviewID)
	if err != nil {
		return commentNotFound(err)
	}

	if err := access.Require(principal, access.CanMutateContent(principal, comment.AuthorID)); err != nil {
		return err
	}

	if err := service.commentRepository.Delete(ctx, comment.ID); err != nil {
		return commentNotFound(err)
	}

	return nil
}

// # Helpers

// validateText enforces comment body rules.
func validateText(text string) error {
	validator := &validate.Validator{}
	validator.
		Required("text", text).
		MaxLen("text", text, maxTextLength)
	return validator.Err()
}

// requireReview maps a missing or mis-scoped parent review to [apperr.NotFound].
func (service *Service) requireReview(ctx context.Context, reviewID, titleID string) error {
	exists, err := service.commentRepository.ReviewExistsInTitle(ctx, reviewID, titleID)
	if err != nil {
		return fmt.Errorf("comment_service_review_check_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Review")
	}
	return nil
}

// commentNotFound maps a storage not-found to a client-facing Comment error.
func commentNotFound(err error) error {
	if dberr.IsNotFound(err) {
		return apperr.NotFound("Comment")
	}
	return err
}
