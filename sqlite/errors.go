package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Service errors represent integration-layer failures.
// Driver errors are mapped onto these before they leave the package.
var (
	// ErrNotFound indicates a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness constraint rejected a write.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConstraint indicates a non-uniqueness constraint rejected a write
	// (foreign key, not null, check).
	ErrConstraint = errors.New("constraint violation")

	// ErrInvalidInput indicates malformed input such as an illegal
	// identifier or an unsupported value type.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotStarted indicates the service has not been started.
	ErrNotStarted = errors.New("service not started")

	// ErrAlreadyStarted indicates Start was called on a running service.
	ErrAlreadyStarted = errors.New("service already started")
)

// mapError translates driver-level failures into the package error
// taxonomy. The modernc driver surfaces constraint failures as text, so
// classification matches on the SQLite message class.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return fmt.Errorf("%s: %w: %v", op, ErrAlreadyExists, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%s: %w: %v", op, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isAlreadyExistsError reports whether err indicates idempotent DDL
// success, such as re-creating a table or index that is already present.
func isAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column name")
}
