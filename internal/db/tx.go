package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymclass/internal/apperr"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres error codes the ledger reacts to.
const (
	CodeUniqueViolation      = "23505"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeLockNotAvailable     = "55P03"
)

// WithTx runs fn in a transaction. When lockTimeout is positive every row
// lock taken inside fn must be granted within it, otherwise the transaction
// aborts with apperr.ErrTryAgain. fn's error is returned unchanged apart from
// that classification; the transaction is committed only when fn returns nil.
func WithTx(ctx context.Context, db *sqlx.DB, lockTimeout time.Duration, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Classify(err)
	}
	defer tx.Rollback()

	if lockTimeout > 0 {
		// SET does not take bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return Classify(err)
		}
	}

	if err := fn(tx); err != nil {
		return Classify(err)
	}

	if err := tx.Commit(); err != nil {
		return Classify(err)
	}
	return nil
}

// Classify turns lock and serialization failures into apperr.ErrTryAgain.
// Anything else is returned as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case CodeLockNotAvailable, CodeSerializationFailure, CodeDeadlockDetected:
			return fmt.Errorf("%w: %s", apperr.ErrTryAgain, pqErr.Message)
		}
	}
	return err
}

// IsUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
