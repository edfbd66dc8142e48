package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestWrapErrorNoRows(t *testing.T) {
	err := WrapError("find customer", pgx.ErrNoRows)

	var repoErr *Error
	require.ErrorAs(t, err, &repoErr)
	require.True(t, repoErr.IsNotFound())
	require.False(t, repoErr.IsConflict())
	require.Contains(t, err.Error(), "find customer")
}

func TestWrapErrorSQLStateMapping(t *testing.T) {
	cases := []struct {
		code  string
		check func(*Error) bool
	}{
		{"23505", (*Error).IsConflict},
		{"23503", (*Error).IsInvalidReference},
		{"08006", (*Error).IsUnavailable},
		{"57P01", (*Error).IsUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := WrapError("insert order", &pgconn.PgError{Code: tc.code})

			var repoErr *Error
			require.ErrorAs(t, err, &repoErr)
			require.True(t, tc.check(repoErr))
		})
	}
}

func TestWrapErrorUnknownCode(t *testing.T) {
	err := WrapError("insert order", &pgconn.PgError{Code: "22001"})

	var repoErr *Error
	require.ErrorAs(t, err, &repoErr)
	require.False(t, repoErr.IsNotFound())
	require.False(t, repoErr.IsConflict())
	require.False(t, repoErr.IsInvalidReference())
	require.False(t, repoErr.IsUnavailable())
}

func TestWrapErrorPassesThroughContextErrors(t *testing.T) {
	require.Equal(t, context.Canceled, WrapError("query", context.Canceled))
	require.Equal(t, context.DeadlineExceeded, WrapError("query", context.DeadlineExceeded))
}

func TestWrapErrorIdempotent(t *testing.T) {
	inner := WrapError("", &pgconn.PgError{Code: "23505"})
	outer := WrapError("insert order", inner)

	var repoErr *Error
	require.ErrorAs(t, outer, &repoErr)
	require.True(t, repoErr.IsConflict())
	require.Contains(t, outer.Error(), "insert order")
}

func TestWrapErrorNil(t *testing.T) {
	require.NoError(t, WrapError("query", nil))
	require.False(t, errors.As(WrapError("query", nil), new(*Error)))
}
