package model

import (
	"time"

	"github.com/google/uuid"
)

// BusSchedule is one run of a bus on a route on a given date.
type BusSchedule struct {
	ID            uuid.UUID
	BusID         uuid.UUID
	RouteID       uuid.UUID
	DepartureTime time.Time
	ArrivalTime   time.Time
	JourneyDate   time.Time
	Price         Money
	CreatedAt     time.Time

	// Details, present when loaded with them.
	Bus     *Bus
	Route   *Route
	Tickets []*Ticket
}

// NewBusSchedule validates a new schedule against now. The journey date is
// truncated to its calendar day.
func NewBusSchedule(busID, routeID uuid.UUID, departure, arrival, journeyDate time.Time, price Money, now time.Time) (*BusSchedule, error) {
	switch {
	case busID == uuid.Nil:
		return nil, invalid("bus_id", "is required")
	case routeID == uuid.Nil:
		return nil, invalid("route_id", "is required")
	case !departure.Before(arrival):
		return nil, invalid("departure_time", "must be before arrival time")
	case price.Currency == "":
		return nil, invalid("price", "is required")
	}
	day := DateOf(journeyDate)
	if day.Before(today(now, day.Location())) {
		return nil, invalid("journey_date", "cannot be in the past")
	}
	return &BusSchedule{
		ID:            uuid.New(),
		BusID:         busID,
		RouteID:       routeID,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		JourneyDate:   day,
		Price:         price,
		CreatedAt:     now.UTC(),
	}, nil
}

func (s *BusSchedule) Duration() time.Duration {
	return s.ArrivalTime.Sub(s.DepartureTime)
}

// IsAvailableForBooking reports whether the journey date is today or later.
func (s *BusSchedule) IsAvailableForBooking(now time.Time) bool {
	return !s.JourneyDate.Before(today(now, s.JourneyDate.Location()))
}

func (s *BusSchedule) AddTicket(t *Ticket) error {
	if t.ScheduleID != s.ID {
		return invalid("schedule_id", "ticket belongs to another schedule")
	}
	s.Tickets = append(s.Tickets, t)
	return nil
}

// ConfirmedTickets counts active tickets among the loaded ones.
func (s *BusSchedule) ConfirmedTickets() int {
	n := 0
	for _, t := range s.Tickets {
		if t.IsActive() {
			n++
		}
	}
	return n
}
