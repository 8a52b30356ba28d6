package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a domain notification.
type EventType string

const (
	EventSeatBooked      EventType = "seat.booked"
	EventSeatReleased    EventType = "seat.released"
	EventTicketBooked    EventType = "ticket.booked"
	EventTicketCancelled EventType = "ticket.cancelled"
)

// Event is a domain notification produced by a state transition. Fields that
// do not apply to Type are left zero.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	SeatID      uuid.UUID `json:"seat_id,omitempty"`
	BusID       uuid.UUID `json:"bus_id,omitempty"`
	SeatNumber  string    `json:"seat_number,omitempty"`
	TicketID    uuid.UUID `json:"ticket_id,omitempty"`
	PassengerID uuid.UUID `json:"passenger_id,omitempty"`
	ScheduleID  uuid.UUID `json:"schedule_id,omitempty"`
	Amount      Money     `json:"amount"`
	Reason      string    `json:"reason,omitempty"`
}

func newEvent(t EventType, now time.Time) Event {
	return Event{ID: uuid.New(), Type: t, OccurredAt: now.UTC()}
}
