package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/devKanyanta/sambilila-worker/internal/store"
)

// SQLSTATE codes the worker cares about. 53300 (too_many_connections) is
// what a connection-limited backend raises when the pool budget is
// exceeded; everything else is treated as permanent.
const (
	pgCodeTooManyConnections   = "53300"
	pgCodeInsufficientResource = "53000"
)

// IsTransient reports whether err indicates the database rejected the
// request because its connection budget was exceeded. Such errors are
// safe to retry after a short backoff; all other errors (constraint
// violations, missing relations, bad SQL) are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeTooManyConnections, pgCodeInsufficientResource:
			return true
		}
	}

	// Some poolers and drivers surface the condition as a plain error
	// string rather than a structured SQLSTATE.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "too many connections") ||
		strings.Contains(msg, "too many clients")
}

// mapError converts low-level database errors to store sentinel errors
// so callers never depend on driver types.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return err
	}
}
