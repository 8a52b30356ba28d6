// Package booking is the seat booking rules engine. It decides whether a seat
// may be booked or a ticket cancelled and performs the state transitions on
// the entities it is handed. It never performs I/O.
package booking

import (
	"errors"
	"time"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
)

// DefaultBookingCutoff is the lead time before the journey date inside which
// new bookings are rejected.
const DefaultBookingCutoff = 24 * time.Hour

var (
	// ErrDuplicateBooking is returned when the passenger already holds a
	// Confirmed ticket on the schedule.
	ErrDuplicateBooking = errors.New("passenger already has a booking on this schedule")

	// ErrBookingClosed is returned once the booking cutoff has passed.
	ErrBookingClosed = errors.New("booking is closed for this schedule")

	// ErrCancellationClosed is returned once the cancellation cutoff has passed.
	ErrCancellationClosed = errors.New("cancellation window has closed for this schedule")
)

// Policy holds the adjustable business cutoffs.
type Policy struct {
	// BookingCutoff rejects bookings when now is later than the journey date
	// minus the cutoff.
	BookingCutoff time.Duration

	// CancellationCutoff rejects cancellations the same way. Zero only
	// requires that the journey date has not passed.
	CancellationCutoff time.Duration
}

// DefaultPolicy returns the 24 hour booking cutoff with no extra
// cancellation cutoff.
func DefaultPolicy() Policy {
	return Policy{BookingCutoff: DefaultBookingCutoff}
}

// Service applies Policy using the injected clock.
type Service struct {
	policy Policy
	now    func() time.Time
}

// New constructs a Service. A nil clock means time.Now.
func New(policy Policy, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{policy: policy, now: clock}
}

// Policy returns the policy the service was built with.
func (s *Service) Policy() Policy { return s.policy }

// Now is the service clock.
func (s *Service) Now() time.Time { return s.now() }

// CanBookSeat reports whether the seat is bookable on the schedule.
func (s *Service) CanBookSeat(seat *model.Seat, schedule *model.BusSchedule) bool {
	return s.CheckSeat(seat, schedule) == nil
}

// CheckSeat is CanBookSeat with the failure reason. Failures are
// *model.SeatNotAvailableError.
func (s *Service) CheckSeat(seat *model.Seat, schedule *model.BusSchedule) error {
	switch {
	case seat.BusID != schedule.BusID:
		return notAvailable(seat, "seat does not belong to the selected bus")
	case !seat.IsAvailable():
		return notAvailable(seat, "current status is "+string(seat.Status()))
	case !schedule.IsAvailableForBooking(s.now()):
		return notAvailable(seat, "schedule is no longer available for booking")
	}
	return nil
}

// ValidateBookingRules reports whether the passenger may book on the schedule.
func (s *Service) ValidateBookingRules(seat *model.Seat, passenger *model.Passenger, schedule *model.BusSchedule) bool {
	return s.CheckBookingRules(seat, passenger, schedule) == nil
}

// CheckBookingRules returns ErrDuplicateBooking or ErrBookingClosed. Only the
// passenger's loaded tickets are inspected; storage enforces the same rule.
func (s *Service) CheckBookingRules(_ *model.Seat, passenger *model.Passenger, schedule *model.BusSchedule) error {
	if passenger.HasActiveTicketOn(schedule.ID) {
		return ErrDuplicateBooking
	}
	if s.now().After(schedule.JourneyDate.Add(-s.policy.BookingCutoff)) {
		return ErrBookingClosed
	}
	return nil
}

// BookSeat issues a Confirmed ticket for the seat and moves the seat to
// Booked. The ticket is built before the seat is touched, so a failure
// leaves the seat unchanged. The returned events are ticket-booked followed by
// seat-booked.
func (s *Service) BookSeat(seat *model.Seat, passenger *model.Passenger, schedule *model.BusSchedule, boarding, dropping string) (*model.Ticket, []model.Event, error) {
	if err := s.CheckSeat(seat, schedule); err != nil {
		return nil, nil, err
	}

	now := s.now()
	ticket, ticketEv, err := model.NewTicket(seat.ID, passenger.ID, schedule.ID, boarding, dropping, schedule.Price, now)
	if err != nil {
		return nil, nil, err
	}
	seatEv, err := seat.Book(now)
	if err != nil {
		return nil, nil, err
	}

	ticket.Seat = seat
	ticket.Passenger = passenger
	ticket.Schedule = schedule
	seat.Ticket = ticket
	if err := passenger.AddTicket(ticket); err != nil {
		return nil, nil, err
	}
	return ticket, []model.Event{ticketEv, seatEv}, nil
}

// CancelBooking cancels the ticket and releases its seat when the seat is
// loaded. A ticket without a seat is still cancelled. Failures are
// *model.InvalidBookingError wrapping the cause, except for a blank reason.
func (s *Service) CancelBooking(ticket *model.Ticket, reason string) ([]model.Event, error) {
	now := s.now()
	if err := ticket.CancelBlocker(now); err != nil {
		return nil, &model.InvalidBookingError{TicketID: ticket.ID, Err: err}
	}
	if s.policy.CancellationCutoff > 0 &&
		now.After(ticket.Schedule.JourneyDate.Add(-s.policy.CancellationCutoff)) {
		return nil, &model.InvalidBookingError{TicketID: ticket.ID, Err: ErrCancellationClosed}
	}

	ev, err := ticket.Cancel(reason, now)
	if err != nil {
		return nil, err
	}
	events := []model.Event{ev}
	if ticket.Seat != nil {
		if released, ok := ticket.Seat.Release(now); ok {
			events = append(events, released)
		}
	}
	return events, nil
}

// SettleBooking marks the seat of a Confirmed ticket as Sold.
func (s *Service) SettleBooking(ticket *model.Ticket) error {
	if !ticket.IsActive() {
		return &model.InvalidBookingError{TicketID: ticket.ID, Err: errors.New("only confirmed tickets can be settled")}
	}
	if ticket.Seat == nil {
		return &model.InvalidBookingError{TicketID: ticket.ID, Err: errors.New("seat of ticket is not loaded")}
	}
	if err := ticket.Seat.MarkSold(s.now()); err != nil {
		return &model.InvalidBookingError{TicketID: ticket.ID, Err: err}
	}
	return nil
}

// MarkUsed records boarding on the ticket.
func (s *Service) MarkUsed(ticket *model.Ticket) error {
	if err := ticket.MarkUsed(s.now()); err != nil {
		return &model.InvalidBookingError{TicketID: ticket.ID, Err: err}
	}
	return nil
}

func notAvailable(seat *model.Seat, reason string) error {
	return &model.SeatNotAvailableError{SeatNumber: seat.Number, SeatID: seat.ID, Reason: reason}
}
