package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinSeats    = 1
	MaxSeats    = 60
	SeatsPerRow = 4
)

var seatLetters = [SeatsPerRow]byte{'A', 'B', 'C', 'D'}

// Bus is a vehicle with a fixed seat layout.
type Bus struct {
	ID           uuid.UUID
	Name         string
	OperatorName string
	TotalSeats   int
	Class        string
	CreatedAt    time.Time

	Seats     []*Seat
	Schedules []*BusSchedule
}

// NewBus validates the bus and generates its seats: four per row, numbered
// 1A, 1B, 1C, 1D, 2A and so on.
func NewBus(name, operator string, totalSeats int, class string) (*Bus, error) {
	switch {
	case blank(name):
		return nil, invalid("name", "is required")
	case blank(operator):
		return nil, invalid("operator_name", "is required")
	case totalSeats < MinSeats || totalSeats > MaxSeats:
		return nil, invalid("total_seats", fmt.Sprintf("must be between %d and %d", MinSeats, MaxSeats))
	case blank(class):
		return nil, invalid("bus_class", "is required")
	}

	now := time.Now().UTC()
	b := &Bus{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		OperatorName: strings.TrimSpace(operator),
		TotalSeats:   totalSeats,
		Class:        strings.TrimSpace(class),
		CreatedAt:    now,
	}
	b.Seats = make([]*Seat, 0, totalSeats)
	for i := 1; i <= totalSeats; i++ {
		b.Seats = append(b.Seats, newSeat(b.ID, i, now))
	}
	return b, nil
}

func (b *Bus) AvailableSeatCount() int {
	n := 0
	for _, s := range b.Seats {
		if s.IsAvailable() {
			n++
		}
	}
	return n
}

func (b *Bus) BookedSeatCount() int {
	n := 0
	for _, s := range b.Seats {
		if s.IsBooked() || s.IsSold() {
			n++
		}
	}
	return n
}

// Seat returns the seat with the given number, or nil.
func (b *Bus) Seat(number string) *Seat {
	number = strings.ToUpper(strings.TrimSpace(number))
	for _, s := range b.Seats {
		if s.Number == number {
			return s
		}
	}
	return nil
}

func (b *Bus) AvailableSeats() []*Seat {
	out := make([]*Seat, 0, len(b.Seats))
	for _, s := range b.Seats {
		if s.IsAvailable() {
			out = append(out, s)
		}
	}
	return out
}

func (b *Bus) AddSchedule(s *BusSchedule) error {
	if s.BusID != b.ID {
		return invalid("bus_id", "schedule belongs to another bus")
	}
	b.Schedules = append(b.Schedules, s)
	return nil
}
