// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
)

/*
TestWrap verifies the SQLSTATE and sentinel classification rules.
*/
func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, dberr.Wrap(nil, "noop"))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		err := dberr.Wrap(pgx.ErrNoRows, "find_row")
		assert.True(t, dberr.IsNotFound(err))

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})

	t.Run("sqlstate 23505 becomes unique violation", func(t *testing.T) {
		pgError := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		err := dberr.Wrap(pgError, "insert_row")
		assert.True(t, dberr.IsUniqueViolation(err))

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
	})

	t.Run("sqlstate 23503 becomes validation error", func(t *testing.T) {
		pgError := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
		err := dberr.Wrap(pgError, "insert_row")
		assert.True(t, errors.Is(err, dberr.ErrForeignKeyViolation))
	})

	t.Run("unknown errors become internal with action context", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := dberr.Wrap(cause, "list_rows")

		assert.False(t, dberr.IsNotFound(err))
		assert.False(t, dberr.IsUniqueViolation(err))

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.ErrorIs(t, ae.Cause, cause)
	})
}
