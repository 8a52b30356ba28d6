// Package memory is an in-process implementation of the persistence gateway.
// It enforces the same uniqueness constraints as the PostgreSQL schema, so the
// booking workflow behaves identically on both.
//
// Committed state is kept as plain rows and entities are rebuilt on every
// read. A unit of work buffers its writes and validates them against the
// committed rows under the store lock at Commit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

type seatKey struct{ schedule, seat uuid.UUID }

type passengerKey struct{ passenger, schedule uuid.UUID }

type busRow struct {
	id         uuid.UUID
	name       string
	operator   string
	totalSeats int
	class      string
	createdAt  time.Time
	seats      []uuid.UUID // by position
}

type seatRow struct {
	id        uuid.UUID
	busID     uuid.UUID
	number    string
	row       string
	position  int
	createdAt time.Time
}

type seatStateRow struct {
	status    model.SeatStatus
	updatedAt time.Time
}

type passengerRow struct {
	id        uuid.UUID
	name      string
	mobile    string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

type ticketRow struct {
	id          uuid.UUID
	seatID      uuid.UUID
	passengerID uuid.UUID
	scheduleID  uuid.UUID
	boarding    string
	dropping    string
	bookedAt    time.Time
	price       model.Money
	status      model.TicketStatus
	reason      string
	createdAt   time.Time
	updatedAt   time.Time
	rev         int
}

// Store is the in-memory Store. The zero value is not usable; call New.
type Store struct {
	mu sync.RWMutex

	routes     map[uuid.UUID]model.Route
	buses      map[uuid.UUID]busRow
	seats      map[uuid.UUID]seatRow
	schedules  map[uuid.UUID]model.BusSchedule
	seatStates map[seatKey]seatStateRow
	passengers map[uuid.UUID]passengerRow
	mobiles    map[string]uuid.UUID
	tickets    map[uuid.UUID]ticketRow

	// Confirmed ticket per (seat, schedule) and per (passenger, schedule).
	activeSeat      map[seatKey]uuid.UUID
	activePassenger map[passengerKey]uuid.UUID
}

var (
	_ repository.Store   = (*Store)(nil)
	_ repository.Catalog = (*Store)(nil)
)

func New() *Store {
	return &Store{
		routes:          make(map[uuid.UUID]model.Route),
		buses:           make(map[uuid.UUID]busRow),
		seats:           make(map[uuid.UUID]seatRow),
		schedules:       make(map[uuid.UUID]model.BusSchedule),
		seatStates:      make(map[seatKey]seatStateRow),
		passengers:      make(map[uuid.UUID]passengerRow),
		mobiles:         make(map[string]uuid.UUID),
		tickets:         make(map[uuid.UUID]ticketRow),
		activeSeat:      make(map[seatKey]uuid.UUID),
		activePassenger: make(map[passengerKey]uuid.UUID),
	}
}

func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &tx{
		s:          s,
		seatStates: make(map[seatKey]seatStateRow),
		passengers: make(map[uuid.UUID]passengerRow),
		inserted:   make(map[uuid.UUID]bool),
		tickets:    make(map[uuid.UUID]ticketRow),
		readRevs:   make(map[uuid.UUID]int),
	}, nil
}

func (s *Store) GetScheduleWithDetails(ctx context.Context, id uuid.UUID) (*model.BusSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{s: s}.scheduleWithDetails(id)
}

func (s *Store) GetTicketWithDetails(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, _, err := view{s: s}.ticketWithDetails(id)
	return t, err
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

func (s *Store) SaveRoute(ctx context.Context, r *model.Route) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routes[r.ID]; ok {
		return fmt.Errorf("insert route: %w", &repository.ConstraintError{Constraint: "routes_pkey"})
	}
	s.routes[r.ID] = *r
	return nil
}

func (s *Store) SaveBus(ctx context.Context, b *model.Bus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buses[b.ID]; ok {
		return fmt.Errorf("insert bus: %w", &repository.ConstraintError{Constraint: "buses_pkey"})
	}

	row := busRow{
		id:         b.ID,
		name:       b.Name,
		operator:   b.OperatorName,
		totalSeats: b.TotalSeats,
		class:      b.Class,
		createdAt:  b.CreatedAt,
	}
	seats := append([]*model.Seat(nil), b.Seats...)
	sort.Slice(seats, func(i, j int) bool { return seats[i].Position < seats[j].Position })
	for _, seat := range seats {
		s.seats[seat.ID] = seatRow{
			id:        seat.ID,
			busID:     b.ID,
			number:    seat.Number,
			row:       seat.Row,
			position:  seat.Position,
			createdAt: seat.CreatedAt,
		}
		row.seats = append(row.seats, seat.ID)
	}
	s.buses[b.ID] = row
	return nil
}

func (s *Store) SaveSchedule(ctx context.Context, sc *model.BusSchedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buses[sc.BusID]; !ok {
		return fmt.Errorf("insert schedule: bus %s: %w", sc.BusID, repository.ErrNotFound)
	}
	if _, ok := s.routes[sc.RouteID]; !ok {
		return fmt.Errorf("insert schedule: route %s: %w", sc.RouteID, repository.ErrNotFound)
	}
	row := *sc
	row.Bus, row.Route, row.Tickets = nil, nil, nil
	s.schedules[sc.ID] = row
	return nil
}

func (s *Store) CountRoutes(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.routes), nil
}

func (s *Store) FindSchedules(ctx context.Context, q repository.ScheduleQuery) ([]*model.BusSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := strings.TrimSpace(q.FromCity), strings.TrimSpace(q.ToCity)
	v := view{s: s}
	var out []*model.BusSchedule
	for id, row := range s.schedules {
		r := s.routes[row.RouteID]
		if from != "" && !strings.EqualFold(r.FromCity, from) {
			continue
		}
		if to != "" && !strings.EqualFold(r.ToCity, to) {
			continue
		}
		if !q.JourneyDate.IsZero() && !row.JourneyDate.Equal(model.DateOf(q.JourneyDate)) {
			continue
		}
		sc, err := v.scheduleWithDetails(id)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DepartureTime.Equal(out[j].DepartureTime) {
			return out[i].DepartureTime.Before(out[j].DepartureTime)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// ConfirmedTickets counts Confirmed tickets for the seat on the schedule.
// It exists for invariant checks in tests.
func (s *Store) ConfirmedTickets(scheduleID, seatID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.tickets {
		if t.scheduleID == scheduleID && t.seatID == seatID && t.status == model.TicketConfirmed {
			n++
		}
	}
	return n
}

// ─── Rows ─────────────────────────────────────────────────────────────────────

func ticketRowOf(t *model.Ticket) ticketRow {
	return ticketRow{
		id:          t.ID,
		seatID:      t.SeatID,
		passengerID: t.PassengerID,
		scheduleID:  t.ScheduleID,
		boarding:    t.BoardingPoint,
		dropping:    t.DroppingPoint,
		bookedAt:    t.BookedAt,
		price:       t.Price,
		status:      t.Status(),
		reason:      t.CancellationReason(),
		createdAt:   t.CreatedAt,
		updatedAt:   t.UpdatedAt,
	}
}

func (r ticketRow) hydrate() *model.Ticket {
	return model.RestoreTicket(r.id, r.seatID, r.passengerID, r.scheduleID, r.boarding, r.dropping,
		r.bookedAt, r.price, r.status, r.reason, r.createdAt, r.updatedAt)
}

func passengerRowOf(p *model.Passenger) passengerRow {
	return passengerRow{
		id:        p.ID,
		name:      p.Name,
		mobile:    p.MobileNumber,
		email:     p.Email,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}
}

func (r passengerRow) hydrate() *model.Passenger {
	return &model.Passenger{
		ID:           r.id,
		Name:         r.name,
		MobileNumber: r.mobile,
		Email:        r.email,
		CreatedAt:    r.createdAt,
		UpdatedAt:    r.updatedAt,
	}
}
