package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketConfirmed TicketStatus = "Confirmed"
	TicketCancelled TicketStatus = "Cancelled"
	TicketUsed      TicketStatus = "Used"
)

// ParseTicketStatus accepts any casing of a known status.
func ParseTicketStatus(s string) (TicketStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "confirmed":
		return TicketConfirmed, nil
	case "cancelled":
		return TicketCancelled, nil
	case "used":
		return TicketUsed, nil
	}
	return "", fmt.Errorf("invalid ticket status %q", s)
}

// Ticket binds a seat, a passenger and a schedule for one journey.
type Ticket struct {
	ID            uuid.UUID
	SeatID        uuid.UUID
	PassengerID   uuid.UUID
	ScheduleID    uuid.UUID
	BoardingPoint string
	DroppingPoint string
	BookedAt      time.Time
	Price         Money
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Details, present when loaded with them.
	Seat      *Seat
	Passenger *Passenger
	Schedule  *BusSchedule

	status             TicketStatus
	cancellationReason string
}

// NewTicket creates a Confirmed ticket and its ticket-booked event.
func NewTicket(seatID, passengerID, scheduleID uuid.UUID, boarding, dropping string, price Money, now time.Time) (*Ticket, Event, error) {
	switch {
	case seatID == uuid.Nil:
		return nil, Event{}, invalid("seat_id", "is required")
	case passengerID == uuid.Nil:
		return nil, Event{}, invalid("passenger_id", "is required")
	case scheduleID == uuid.Nil:
		return nil, Event{}, invalid("schedule_id", "is required")
	case blank(boarding):
		return nil, Event{}, invalid("boarding_point", "is required")
	case blank(dropping):
		return nil, Event{}, invalid("dropping_point", "is required")
	case price.Currency == "":
		return nil, Event{}, invalid("price", "is required")
	}

	t := &Ticket{
		ID:            uuid.New(),
		SeatID:        seatID,
		PassengerID:   passengerID,
		ScheduleID:    scheduleID,
		BoardingPoint: strings.TrimSpace(boarding),
		DroppingPoint: strings.TrimSpace(dropping),
		BookedAt:      now.UTC(),
		Price:         price,
		CreatedAt:     now.UTC(),
		status:        TicketConfirmed,
	}

	ev := newEvent(EventTicketBooked, now)
	ev.TicketID = t.ID
	ev.SeatID = seatID
	ev.PassengerID = passengerID
	ev.ScheduleID = scheduleID
	ev.Amount = price
	return t, ev, nil
}

// RestoreTicket rebuilds a ticket from stored state. Storage
// implementations only.
func RestoreTicket(id, seatID, passengerID, scheduleID uuid.UUID, boarding, dropping string, bookedAt time.Time, price Money, status TicketStatus, reason string, createdAt, updatedAt time.Time) *Ticket {
	return &Ticket{
		ID:                 id,
		SeatID:             seatID,
		PassengerID:        passengerID,
		ScheduleID:         scheduleID,
		BoardingPoint:      boarding,
		DroppingPoint:      dropping,
		BookedAt:           bookedAt,
		Price:              price,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
		status:             status,
		cancellationReason: reason,
	}
}

func (t *Ticket) Status() TicketStatus       { return t.status }
func (t *Ticket) CancellationReason() string { return t.cancellationReason }

// IsActive reports whether the ticket is Confirmed.
func (t *Ticket) IsActive() bool { return t.status == TicketConfirmed }

// Cancel moves a Confirmed ticket to Cancelled.
func (t *Ticket) Cancel(reason string, now time.Time) (Event, error) {
	switch t.status {
	case TicketCancelled:
		return Event{}, ErrAlreadyCancelled
	case TicketUsed:
		return Event{}, ErrCancelUsedTicket
	}
	if blank(reason) {
		return Event{}, ErrReasonRequired
	}
	t.status = TicketCancelled
	t.cancellationReason = strings.TrimSpace(reason)
	t.UpdatedAt = now.UTC()

	ev := newEvent(EventTicketCancelled, now)
	ev.TicketID = t.ID
	ev.SeatID = t.SeatID
	ev.PassengerID = t.PassengerID
	ev.ScheduleID = t.ScheduleID
	ev.Reason = t.cancellationReason
	return ev, nil
}

// MarkUsed records boarding. Marking a Used ticket again is a no-op.
func (t *Ticket) MarkUsed(now time.Time) error {
	switch t.status {
	case TicketCancelled:
		return ErrUseCancelledTicket
	case TicketUsed:
		return nil
	}
	t.status = TicketUsed
	t.UpdatedAt = now.UTC()
	return nil
}

// CanBeCancelled is true for a Confirmed ticket whose schedule has not yet
// passed its journey date. The schedule must be loaded.
func (t *Ticket) CanBeCancelled(now time.Time) bool {
	return t.CancelBlocker(now) == nil
}

// CancelBlocker returns the reason the ticket cannot be cancelled, or nil.
func (t *Ticket) CancelBlocker(now time.Time) error {
	switch t.status {
	case TicketCancelled:
		return ErrAlreadyCancelled
	case TicketUsed:
		return ErrCancelUsedTicket
	}
	if t.Schedule == nil {
		return fmt.Errorf("schedule of ticket %s is not loaded", t.ID)
	}
	if !t.Schedule.IsAvailableForBooking(now) {
		return ErrJourneyDeparted
	}
	return nil
}

func (t *Ticket) String() string {
	return fmt.Sprintf("Ticket %s - %s to %s (%s)", t.ID, t.BoardingPoint, t.DroppingPoint, t.status)
}
