package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the seat and ticket state machines.
var (
	ErrSeatNotAvailable   = errors.New("seat is not available")
	ErrSeatNotBooked      = errors.New("only booked seats can be marked as sold")
	ErrAlreadyCancelled   = errors.New("ticket is already cancelled")
	ErrCancelUsedTicket   = errors.New("cannot cancel a used ticket")
	ErrUseCancelledTicket = errors.New("cannot use a cancelled ticket")
	ErrReasonRequired     = errors.New("cancellation reason is required")
	ErrJourneyDeparted    = errors.New("journey date has passed")
	ErrInvalidBooking     = errors.New("invalid booking")
)

// ValidationError reports an entity field that failed an invariant at
// construction time.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// SeatNotAvailableError is returned when a seat cannot be booked. It matches
// ErrSeatNotAvailable under errors.Is.
type SeatNotAvailableError struct {
	SeatNumber string
	SeatID     uuid.UUID
	Reason     string
}

func (e *SeatNotAvailableError) Error() string {
	number := e.SeatNumber
	if number == "" {
		number = "unknown"
	}
	if e.Reason == "" {
		return fmt.Sprintf("seat %s is not available", number)
	}
	return fmt.Sprintf("seat %s is not available: %s", number, e.Reason)
}

func (e *SeatNotAvailableError) Is(target error) bool {
	return target == ErrSeatNotAvailable
}

// InvalidBookingError is returned when an operation on an existing booking is
// not allowed. Err carries the specific cause, e.g. ErrAlreadyCancelled.
type InvalidBookingError struct {
	TicketID uuid.UUID
	Err      error
}

func (e *InvalidBookingError) Error() string {
	if e.Err == nil {
		return ErrInvalidBooking.Error()
	}
	return e.Err.Error()
}

func (e *InvalidBookingError) Unwrap() error { return e.Err }

func (e *InvalidBookingError) Is(target error) bool {
	return target == ErrInvalidBooking
}
