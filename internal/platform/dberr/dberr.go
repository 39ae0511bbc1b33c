// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/critiq/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrUniqueViolation is returned when an insert or update hits a unique
	// constraint. Callers that care which constraint fired (e.g. the
	// one-review-per-title rule) translate this into a domain-specific error.
	ErrUniqueViolation = apperr.Conflict("Resource already exists")

	// ErrForeignKeyViolation is returned when a referenced row is missing.
	ErrForeignKeyViolation = apperr.ValidationError("Referenced resource does not exist")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violation mapping via Postgres SQLSTATE
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return ErrUniqueViolation
		case pgerrcode.ForeignKeyViolation:
			return ErrForeignKeyViolation
		}
	}

	// 3. Unknown query errors become Internal Server Errors. The action tag
	// survives in the server-side cause for log correlation.
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err was classified as a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrUniqueViolation)
}

// IsNotFound reports whether err was classified as a missing row.
// Callers use this to rename the generic resource in the client-facing error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
