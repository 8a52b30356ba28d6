package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	unique := translate(&pgconn.PgError{Code: "23505", ConstraintName: ConstraintActiveSeat})
	assert.ErrorIs(t, unique, ErrUniqueViolation)
	name, ok := ViolatedConstraint(fmt.Errorf("insert ticket: %w", unique))
	assert.True(t, ok)
	assert.Equal(t, ConstraintActiveSeat, name)

	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "40001"}), ErrConcurrentUpdate)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "40P01"}), ErrConcurrentUpdate)

	other := &pgconn.PgError{Code: "23503"}
	assert.Same(t, other, translate(other))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translate(plain))
	_, ok = ViolatedConstraint(plain)
	assert.False(t, ok)
}

func TestConstraintErrorMessage(t *testing.T) {
	err := &ConstraintError{Constraint: ConstraintPassengerMobile}
	assert.Equal(t, `unique constraint "passengers_mobile_key" violated`, err.Error())
	assert.NotErrorIs(t, err, ErrNotFound)
}
