package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fiscaldesk/pkg/platform/sentinel"
)

// Postgres error classes worth translating. Everything else surfaces as a
// wrapped infrastructure error.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translatePQ maps driver errors onto the sentinel taxonomy: unique
// violations become conflicts, foreign-key violations on delete become
// referenced, missing rows become not found.
func translatePQ(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Detail, sentinel.ErrConflict)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Detail, sentinel.ErrReferenced)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireRow converts a zero-row UPDATE/DELETE into sentinel.ErrNotFound.
func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
