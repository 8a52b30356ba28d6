package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/booking"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

// FailureKind classifies a failed BookingResult.
type FailureKind string

const (
	KindValidation       FailureKind = "validation"
	KindNotFound         FailureKind = "not_found"
	KindSeatUnavailable  FailureKind = "seat_unavailable"
	KindDuplicateBooking FailureKind = "duplicate_booking"
	KindBookingClosed    FailureKind = "booking_closed"
	KindInvalidBooking   FailureKind = "invalid_booking"
	KindConflict         FailureKind = "conflict"
	KindInternal         FailureKind = "internal"
)

// BookingResult is the outcome of a booking workflow. Expected business
// failures are reported here rather than as errors.
type BookingResult struct {
	Success     bool        `json:"success"`
	Kind        FailureKind `json:"kind,omitempty"`
	Message     string      `json:"message"`
	Errors      []string    `json:"errors,omitempty"`
	TicketID    uuid.UUID   `json:"ticket_id,omitzero"`
	PassengerID uuid.UUID   `json:"passenger_id,omitzero"`
	Ticket      *TicketView `json:"ticket,omitempty"`
}

// BookSeatInput is a booking request.
type BookSeatInput struct {
	ScheduleID    uuid.UUID `json:"schedule_id"`
	SeatID        uuid.UUID `json:"seat_id"`
	PassengerName string    `json:"passenger_name"`
	MobileNumber  string    `json:"mobile_number"`
	Email         string    `json:"email"`
	BoardingPoint string    `json:"boarding_point"`
	DroppingPoint string    `json:"dropping_point"`
}

func (in BookSeatInput) normalize() BookSeatInput {
	in.PassengerName = strings.TrimSpace(in.PassengerName)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.Email = strings.TrimSpace(in.Email)
	in.BoardingPoint = strings.TrimSpace(in.BoardingPoint)
	in.DroppingPoint = strings.TrimSpace(in.DroppingPoint)
	return in
}

// Validate returns one message per missing or malformed field.
func (in BookSeatInput) Validate() []string {
	var errs []string
	if in.ScheduleID == uuid.Nil {
		errs = append(errs, "Bus schedule ID is required")
	}
	if in.SeatID == uuid.Nil {
		errs = append(errs, "Seat ID is required")
	}
	if strings.TrimSpace(in.PassengerName) == "" {
		errs = append(errs, "Passenger name is required")
	}
	switch mobile := strings.TrimSpace(in.MobileNumber); {
	case mobile == "":
		errs = append(errs, "Mobile number is required")
	case !model.ValidMobileNumber(mobile):
		errs = append(errs, "Invalid mobile number format")
	}
	if strings.TrimSpace(in.BoardingPoint) == "" {
		errs = append(errs, "Boarding point is required")
	}
	if strings.TrimSpace(in.DroppingPoint) == "" {
		errs = append(errs, "Dropping point is required")
	}
	return errs
}

func failed(kind FailureKind, msg string, errs ...string) BookingResult {
	if len(errs) == 0 {
		errs = []string{msg}
	}
	return BookingResult{Kind: kind, Message: msg, Errors: errs}
}

// classify maps a workflow error to a failure kind and a caller-facing
// message. internalMsg is used for anything unexpected.
func classify(err error, internalMsg string) (FailureKind, string) {
	if constraint, ok := repository.ViolatedConstraint(err); ok {
		switch constraint {
		case repository.ConstraintActiveSeat:
			return KindSeatUnavailable, "Seat is not available for booking"
		case repository.ConstraintActivePassenger:
			return KindDuplicateBooking, "Booking validation failed. You may already have a booking on this schedule."
		case repository.ConstraintPassengerMobile:
			return KindConflict, "Another booking for this mobile number is in progress. Please try again."
		}
		return KindInternal, internalMsg
	}

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return KindValidation, verr.Error()
	case errors.Is(err, model.ErrReasonRequired):
		return KindValidation, "Cancellation reason is required"
	case errors.Is(err, errSeatWrongBus):
		return KindValidation, "Seat does not belong to the selected bus"
	case errors.Is(err, ErrScheduleNotFound):
		return KindNotFound, "Bus schedule not found"
	case errors.Is(err, ErrSeatNotFound):
		return KindNotFound, "Seat not found"
	case errors.Is(err, ErrTicketNotFound):
		return KindNotFound, "Ticket not found"
	case errors.Is(err, model.ErrSeatNotAvailable):
		return KindSeatUnavailable, "Seat is not available for booking"
	case errors.Is(err, booking.ErrDuplicateBooking):
		return KindDuplicateBooking, "Booking validation failed. You may already have a booking on this schedule."
	case errors.Is(err, booking.ErrBookingClosed):
		return KindBookingClosed, "Booking is closed for this schedule"
	case errors.Is(err, model.ErrInvalidBooking):
		return KindInvalidBooking, capitalize(err.Error())
	case errors.Is(err, repository.ErrConcurrentUpdate):
		return KindConflict, "The booking was changed by another request. Please try again."
	}
	return KindInternal, internalMsg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
