package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"courtbook/internal/booking"
)

// wrapUnavailable classifies transient persistence failures as the engine's
// retryable StoreUnavailableError. Deadline hits and network timeouts
// qualify; everything else passes through untouched so that not-found and
// conflict results keep their meaning.
func wrapUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return &booking.StoreUnavailableError{Op: op, Err: err}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
