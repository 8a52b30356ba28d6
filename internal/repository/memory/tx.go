package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

var errTxDone = errors.New("transaction has already been committed or rolled back")

// tx is a unit of work. It is owned by a single goroutine.
type tx struct {
	s    *Store
	done bool

	seatStates map[seatKey]seatStateRow
	passengers map[uuid.UUID]passengerRow
	inserted   map[uuid.UUID]bool // passengers created by this tx
	tickets    map[uuid.UUID]ticketRow

	// Committed revision of every ticket read through GetTicketWithDetails.
	// A read acts as a row lock: Commit fails if any of them moved.
	readRevs map[uuid.UUID]int
}

func (t *tx) check(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	return ctx.Err()
}

func (t *tx) read() (view, func()) {
	t.s.mu.RLock()
	return view{s: t.s, tx: t}, t.s.mu.RUnlock
}

func (t *tx) GetScheduleWithDetails(ctx context.Context, id uuid.UUID) (*model.BusSchedule, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	v, unlock := t.read()
	defer unlock()
	return v.scheduleWithDetails(id)
}

func (t *tx) GetSeatWithDetails(ctx context.Context, scheduleID, seatID uuid.UUID) (*model.Seat, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	v, unlock := t.read()
	defer unlock()

	seat, ok := v.seat(scheduleID, seatID)
	if !ok {
		return nil, fmt.Errorf("get seat: %w", repository.ErrNotFound)
	}
	active := v.ticketsWhere(func(r ticketRow) bool {
		return r.seatID == seatID && r.scheduleID == scheduleID && r.status == model.TicketConfirmed
	})
	if len(active) > 0 {
		active[0].Seat = seat
		seat.Ticket = active[0]
	}
	return seat, nil
}

func (t *tx) GetOrCreatePassengerByMobile(ctx context.Context, candidate *model.Passenger) (*model.Passenger, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	v, unlock := t.read()
	defer unlock()

	row, ok := v.passengerByMobile(candidate.MobileNumber)
	if !ok {
		row = passengerRowOf(candidate)
		t.passengers[row.id] = row
		t.inserted[row.id] = true
	}
	p := row.hydrate()
	p.Tickets = v.ticketsWhere(func(r ticketRow) bool { return r.passengerID == p.ID })
	return p, nil
}

func (t *tx) UpdatePassenger(ctx context.Context, p *model.Passenger) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	v, unlock := t.read()
	defer unlock()

	row, ok := v.passenger(p.ID)
	if !ok {
		return fmt.Errorf("update passenger: %w", repository.ErrNotFound)
	}
	row.name = p.Name
	row.email = p.Email
	row.updatedAt = p.UpdatedAt
	t.passengers[p.ID] = row
	return nil
}

func (t *tx) AddTicket(ctx context.Context, tk *model.Ticket) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	v, unlock := t.read()
	defer unlock()

	if _, exists := v.ticket(tk.ID); exists {
		return fmt.Errorf("insert ticket: %w", &repository.ConstraintError{Constraint: "tickets_pkey"})
	}
	t.tickets[tk.ID] = ticketRowOf(tk)
	return nil
}

func (t *tx) UpdateTicket(ctx context.Context, tk *model.Ticket) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	v, unlock := t.read()
	defer unlock()

	row, ok := v.ticket(tk.ID)
	if !ok {
		return fmt.Errorf("update ticket: %w", repository.ErrNotFound)
	}
	row.status = tk.Status()
	row.reason = tk.CancellationReason()
	row.updatedAt = tk.UpdatedAt
	t.tickets[tk.ID] = row
	return nil
}

func (t *tx) SaveSeatState(ctx context.Context, scheduleID uuid.UUID, seat *model.Seat) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	updated := seat.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	t.seatStates[seatKey{schedule: scheduleID, seat: seat.ID}] = seatStateRow{status: seat.Status(), updatedAt: updated}
	return nil
}

func (t *tx) GetTicketWithDetails(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	if err := t.check(ctx); err != nil {
		return nil, err
	}
	v, unlock := t.read()
	defer unlock()

	ticket, rev, err := v.ticketWithDetails(id)
	if err != nil {
		return nil, err
	}
	if _, seen := t.readRevs[id]; !seen {
		t.readRevs[id] = rev
	}
	return ticket, nil
}

// Commit validates pending writes against committed state and applies them
// atomically. A failed Commit leaves the store unchanged and the unit of work
// finished.
func (t *tx) Commit(ctx context.Context) error {
	if err := t.check(ctx); err != nil {
		return err
	}
	t.done = true

	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := t.validate(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	for id, p := range t.passengers {
		if old, ok := s.passengers[id]; ok && old.mobile != p.mobile {
			delete(s.mobiles, old.mobile)
		}
		s.passengers[id] = p
		s.mobiles[p.mobile] = id
	}
	for k, st := range t.seatStates {
		s.seatStates[k] = st
	}
	ids := t.ticketIDs()
	for _, id := range ids {
		if old, ok := s.tickets[id]; ok && old.status == model.TicketConfirmed {
			delete(s.activeSeat, seatKey{schedule: old.scheduleID, seat: old.seatID})
			delete(s.activePassenger, passengerKey{passenger: old.passengerID, schedule: old.scheduleID})
		}
	}
	for _, id := range ids {
		row := t.tickets[id]
		if old, ok := s.tickets[id]; ok {
			row.rev = old.rev + 1
		}
		s.tickets[id] = row
		if row.status == model.TicketConfirmed {
			s.activeSeat[seatKey{schedule: row.scheduleID, seat: row.seatID}] = id
			s.activePassenger[passengerKey{passenger: row.passengerID, schedule: row.scheduleID}] = id
		}
	}
	return nil
}

// validate runs with s.mu held for writing.
func (t *tx) validate() error {
	s := t.s

	for id := range t.inserted {
		p := t.passengers[id]
		if owner, ok := s.mobiles[p.mobile]; ok && owner != id {
			return &repository.ConstraintError{Constraint: repository.ConstraintPassengerMobile}
		}
	}

	for id, rev := range t.readRevs {
		if cur, ok := s.tickets[id]; ok && cur.rev != rev {
			return fmt.Errorf("ticket %s: %w", id, repository.ErrConcurrentUpdate)
		}
	}

	// A pending Confirmed ticket conflicts with a Confirmed owner of the same
	// key unless this unit of work moves that owner out of Confirmed.
	stillActive := func(owner uuid.UUID) bool {
		if pending, ok := t.tickets[owner]; ok {
			return pending.status == model.TicketConfirmed
		}
		return true
	}
	seatOwners := make(map[seatKey]uuid.UUID)
	passengerOwners := make(map[passengerKey]uuid.UUID)
	for _, id := range t.ticketIDs() {
		row := t.tickets[id]
		if row.status != model.TicketConfirmed {
			continue
		}
		sk := seatKey{schedule: row.scheduleID, seat: row.seatID}
		if owner, ok := s.activeSeat[sk]; ok && owner != id && stillActive(owner) {
			return &repository.ConstraintError{Constraint: repository.ConstraintActiveSeat}
		}
		if owner, ok := seatOwners[sk]; ok && owner != id {
			return &repository.ConstraintError{Constraint: repository.ConstraintActiveSeat}
		}
		seatOwners[sk] = id

		pk := passengerKey{passenger: row.passengerID, schedule: row.scheduleID}
		if owner, ok := s.activePassenger[pk]; ok && owner != id && stillActive(owner) {
			return &repository.ConstraintError{Constraint: repository.ConstraintActivePassenger}
		}
		if owner, ok := passengerOwners[pk]; ok && owner != id {
			return &repository.ConstraintError{Constraint: repository.ConstraintActivePassenger}
		}
		passengerOwners[pk] = id
	}
	return nil
}

// ticketIDs returns pending ticket ids in a stable order.
func (t *tx) ticketIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.tickets))
	for id := range t.tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Rollback discards pending writes. It is safe to call after Commit.
func (t *tx) Rollback(context.Context) error {
	t.done = true
	t.seatStates = nil
	t.passengers = nil
	t.tickets = nil
	return nil
}
