package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SeatStatus is the allocation state of a seat on a schedule.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "Available"
	SeatBooked    SeatStatus = "Booked"
	SeatSold      SeatStatus = "Sold"
)

// ParseSeatStatus accepts any casing of a known status.
func ParseSeatStatus(s string) (SeatStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return SeatAvailable, nil
	case "booked":
		return SeatBooked, nil
	case "sold":
		return SeatSold, nil
	}
	return "", fmt.Errorf("invalid seat status %q", s)
}

// Seat is a physical seat slot on a bus. Its status is the state on one
// schedule; storage hydrates it per schedule.
type Seat struct {
	ID        uuid.UUID
	BusID     uuid.UUID
	Number    string
	Row       string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Ticket is the current Confirmed ticket, when loaded.
	Ticket *Ticket

	status SeatStatus
}

func newSeat(busID uuid.UUID, position int, now time.Time) *Seat {
	row := (position-1)/SeatsPerRow + 1
	letter := seatLetters[(position-1)%SeatsPerRow]
	return &Seat{
		ID:        uuid.New(),
		BusID:     busID,
		Number:    fmt.Sprintf("%d%c", row, letter),
		Row:       fmt.Sprintf("Row %d", row),
		Position:  position,
		CreatedAt: now.UTC(),
		status:    SeatAvailable,
	}
}

// RestoreSeat rebuilds a seat from stored state. Storage implementations
// only; an empty status means Available.
func RestoreSeat(id, busID uuid.UUID, number, row string, position int, status SeatStatus, createdAt, updatedAt time.Time) *Seat {
	if status == "" {
		status = SeatAvailable
	}
	return &Seat{
		ID:        id,
		BusID:     busID,
		Number:    number,
		Row:       row,
		Position:  position,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		status:    status,
	}
}

func (s *Seat) Status() SeatStatus { return s.status }

func (s *Seat) IsAvailable() bool { return s.status == SeatAvailable }
func (s *Seat) IsBooked() bool    { return s.status == SeatBooked }
func (s *Seat) IsSold() bool      { return s.status == SeatSold }

// Book moves the seat from Available to Booked.
func (s *Seat) Book(now time.Time) (Event, error) {
	if s.status != SeatAvailable {
		return Event{}, &SeatNotAvailableError{
			SeatNumber: s.Number,
			SeatID:     s.ID,
			Reason:     "current status is " + string(s.status),
		}
	}
	s.status = SeatBooked
	s.UpdatedAt = now.UTC()

	ev := newEvent(EventSeatBooked, now)
	ev.SeatID = s.ID
	ev.BusID = s.BusID
	ev.SeatNumber = s.Number
	return ev, nil
}

// MarkSold settles a Booked seat.
func (s *Seat) MarkSold(now time.Time) error {
	if s.status != SeatBooked {
		return fmt.Errorf("seat %s is %s: %w", s.Number, s.status, ErrSeatNotBooked)
	}
	s.status = SeatSold
	s.UpdatedAt = now.UTC()
	return nil
}

// Release returns the seat to Available. Releasing an Available seat is a
// no-op and reports false with no event.
func (s *Seat) Release(now time.Time) (Event, bool) {
	if s.status == SeatAvailable {
		return Event{}, false
	}
	s.status = SeatAvailable
	s.UpdatedAt = now.UTC()
	s.Ticket = nil

	ev := newEvent(EventSeatReleased, now)
	ev.SeatID = s.ID
	ev.BusID = s.BusID
	ev.SeatNumber = s.Number
	return ev, true
}

func (s *Seat) String() string {
	return fmt.Sprintf("Seat %s (%s) - %s", s.Number, s.Row, s.status)
}
