package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUniqueViolation is matched by every *ConstraintError.
var ErrUniqueViolation = errors.New("unique constraint violation")

// ErrConcurrentUpdate is returned when a unit of work lost a race on a row it
// read and must be retried from the start.
var ErrConcurrentUpdate = errors.New("concurrent update")

// Names of the uniqueness constraints every gateway enforces.
const (
	// At most one Confirmed ticket per (seat, schedule).
	ConstraintActiveSeat = "tickets_active_seat_uniq"
	// At most one Confirmed ticket per (passenger, schedule).
	ConstraintActivePassenger = "tickets_active_passenger_uniq"
	// One passenger per mobile number.
	ConstraintPassengerMobile = "passengers_mobile_key"
)

// SQLSTATE codes translated by the gateway.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// ConstraintError reports a write rejected by a uniqueness constraint.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unique constraint %q violated", e.Constraint)
	}
	return fmt.Sprintf("unique constraint %q violated: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool {
	return target == ErrUniqueViolation
}

// ViolatedConstraint returns the constraint name when err is a uniqueness
// violation.
func ViolatedConstraint(err error) (string, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint, true
	}
	return "", false
}

// translate maps driver errors onto the package taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}
	return err
}
