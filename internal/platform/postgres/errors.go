package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes and codes relevant to the repository error taxonomy.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	classConnection         = "08"
	classOperatorIntervened = "57"
)

// Error implements repositories.RepositoryError for Postgres backed repositories.
type Error struct {
	op               string
	err              error
	notFound         bool
	conflict         bool
	invalidReference bool
	unavailable      bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.op != "" {
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
	return e.err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// IsNotFound reports whether the error represents a missing row.
func (e *Error) IsNotFound() bool {
	return e != nil && e.notFound
}

// IsConflict reports whether the error represents a unique-key violation.
// Conflicts are safe to retry from the top of the workflow.
func (e *Error) IsConflict() bool {
	return e != nil && e.conflict
}

// IsInvalidReference reports whether the error represents a foreign-key
// violation, i.e. the caller referenced a row that does not exist.
func (e *Error) IsInvalidReference() bool {
	return e != nil && e.invalidReference
}

// IsUnavailable reports whether the error represents a transient backend outage.
func (e *Error) IsUnavailable() bool {
	return e != nil && e.unavailable
}

func newError(op string, err error) *Error {
	e := &Error{op: op, err: err}

	if errors.Is(err, pgx.ErrNoRows) {
		e.notFound = true
		return e
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			e.conflict = true
		case pgErr.Code == codeForeignKeyViolation:
			e.invalidReference = true
		case strings.HasPrefix(pgErr.Code, classConnection), strings.HasPrefix(pgErr.Code, classOperatorIntervened):
			e.unavailable = true
		}
		return e
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		e.unavailable = true
		return e
	}
	if pgconn.SafeToRetry(err) {
		e.unavailable = true
	}
	return e
}

// WrapError annotates pgx errors with repository semantics. Context
// cancellations are passed through untouched.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var repoErr *Error
	if errors.As(err, &repoErr) {
		if op != "" && repoErr.op == "" {
			repoErr.op = op
		}
		return repoErr
	}
	return newError(op, err)
}
