package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
)

// Store is the persistence gateway the booking orchestrator depends on.
// Every read returns freshly hydrated entities; nothing is cached between
// calls.
type Store interface {
	// Begin opens a unit of work. The caller must Commit or Rollback it.
	Begin(ctx context.Context) (Tx, error)

	// GetScheduleWithDetails loads the schedule with its bus, route and
	// tickets. Bus seats carry their status on this schedule.
	GetScheduleWithDetails(ctx context.Context, id uuid.UUID) (*model.BusSchedule, error)

	// GetTicketWithDetails loads the ticket with its seat, passenger and
	// schedule.
	GetTicketWithDetails(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
}

// Tx is a unit of work. Writes become visible to other callers only after
// Commit. Uniqueness violations are reported as *ConstraintError.
type Tx interface {
	GetScheduleWithDetails(ctx context.Context, id uuid.UUID) (*model.BusSchedule, error)

	// GetSeatWithDetails loads a seat with its status and current Confirmed
	// ticket on the schedule.
	GetSeatWithDetails(ctx context.Context, scheduleID, seatID uuid.UUID) (*model.Seat, error)

	// GetOrCreatePassengerByMobile returns the passenger owning the
	// candidate's mobile number, inserting the candidate when there is none.
	// The returned passenger carries its tickets.
	GetOrCreatePassengerByMobile(ctx context.Context, candidate *model.Passenger) (*model.Passenger, error)

	UpdatePassenger(ctx context.Context, p *model.Passenger) error
	AddTicket(ctx context.Context, t *model.Ticket) error
	UpdateTicket(ctx context.Context, t *model.Ticket) error

	// SaveSeatState records the seat's current status on the schedule.
	SaveSeatState(ctx context.Context, scheduleID uuid.UUID, seat *model.Seat) error

	// GetTicketWithDetails is Store.GetTicketWithDetails, locking the ticket
	// for the rest of the unit of work.
	GetTicketWithDetails(ctx context.Context, id uuid.UUID) (*model.Ticket, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ScheduleQuery filters schedules. Zero fields match everything; cities
// compare case-insensitively.
type ScheduleQuery struct {
	FromCity    string
	ToCity      string
	JourneyDate time.Time
}

// Catalog maintains the reference data bookings run against.
type Catalog interface {
	SaveRoute(ctx context.Context, r *model.Route) error
	SaveBus(ctx context.Context, b *model.Bus) error
	SaveSchedule(ctx context.Context, s *model.BusSchedule) error
	CountRoutes(ctx context.Context) (int, error)

	// FindSchedules returns matching schedules with details, ordered by
	// departure time.
	FindSchedules(ctx context.Context, q ScheduleQuery) ([]*model.BusSchedule, error)
}
