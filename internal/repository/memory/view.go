package memory

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

// view reads committed rows, overlaid with a unit of work's pending writes
// when tx is set. The caller holds s.mu.
type view struct {
	s  *Store
	tx *tx
}

func (v view) seatState(k seatKey) (seatStateRow, bool) {
	if v.tx != nil {
		if st, ok := v.tx.seatStates[k]; ok {
			return st, true
		}
	}
	st, ok := v.s.seatStates[k]
	return st, ok
}

func (v view) ticket(id uuid.UUID) (ticketRow, bool) {
	if v.tx != nil {
		if t, ok := v.tx.tickets[id]; ok {
			return t, true
		}
	}
	t, ok := v.s.tickets[id]
	return t, ok
}

func (v view) passenger(id uuid.UUID) (passengerRow, bool) {
	if v.tx != nil {
		if p, ok := v.tx.passengers[id]; ok {
			return p, true
		}
	}
	p, ok := v.s.passengers[id]
	return p, ok
}

func (v view) passengerByMobile(mobile string) (passengerRow, bool) {
	if v.tx != nil {
		for _, p := range v.tx.passengers {
			if p.mobile == mobile {
				return p, true
			}
		}
	}
	id, ok := v.s.mobiles[mobile]
	if !ok {
		return passengerRow{}, false
	}
	return v.passenger(id)
}

// ticketsWhere returns matching tickets ordered by booking time.
func (v view) ticketsWhere(match func(ticketRow) bool) []*model.Ticket {
	var rows []ticketRow
	for id, t := range v.s.tickets {
		if v.tx != nil {
			if pending, ok := v.tx.tickets[id]; ok {
				t = pending
			}
		}
		if match(t) {
			rows = append(rows, t)
		}
	}
	if v.tx != nil {
		for id, t := range v.tx.tickets {
			if _, committed := v.s.tickets[id]; !committed && match(t) {
				rows = append(rows, t)
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].bookedAt.Equal(rows[j].bookedAt) {
			return rows[i].bookedAt.Before(rows[j].bookedAt)
		}
		return rows[i].id.String() < rows[j].id.String()
	})

	out := make([]*model.Ticket, len(rows))
	for i, r := range rows {
		out[i] = r.hydrate()
	}
	return out
}

func (v view) seat(scheduleID, seatID uuid.UUID) (*model.Seat, bool) {
	row, ok := v.s.seats[seatID]
	if !ok {
		return nil, false
	}
	st, _ := v.seatState(seatKey{schedule: scheduleID, seat: seatID})
	return model.RestoreSeat(row.id, row.busID, row.number, row.row, row.position, st.status, row.createdAt, st.updatedAt), true
}

func (v view) scheduleWithDetails(id uuid.UUID) (*model.BusSchedule, error) {
	row, ok := v.s.schedules[id]
	if !ok {
		return nil, fmt.Errorf("get schedule: %w", repository.ErrNotFound)
	}
	sc := row

	b, ok := v.s.buses[sc.BusID]
	if !ok {
		return nil, fmt.Errorf("get bus: %w", repository.ErrNotFound)
	}
	r, ok := v.s.routes[sc.RouteID]
	if !ok {
		return nil, fmt.Errorf("get route: %w", repository.ErrNotFound)
	}

	bus := &model.Bus{
		ID:           b.id,
		Name:         b.name,
		OperatorName: b.operator,
		TotalSeats:   b.totalSeats,
		Class:        b.class,
		CreatedAt:    b.createdAt,
		Seats:        make([]*model.Seat, 0, len(b.seats)),
	}
	for _, seatID := range b.seats {
		if seat, ok := v.seat(sc.ID, seatID); ok {
			bus.Seats = append(bus.Seats, seat)
		}
	}

	sc.Bus = bus
	sc.Route = &r
	repository.AttachTickets(&sc, v.ticketsWhere(func(t ticketRow) bool { return t.scheduleID == id }))
	return &sc, nil
}

// ticketWithDetails returns the ticket and the revision it was read at.
func (v view) ticketWithDetails(id uuid.UUID) (*model.Ticket, int, error) {
	row, ok := v.ticket(id)
	if !ok {
		return nil, 0, fmt.Errorf("get ticket: %w", repository.ErrNotFound)
	}
	schedule, err := v.scheduleWithDetails(row.scheduleID)
	if err != nil {
		return nil, 0, err
	}
	ticket := row.hydrate()
	for _, t := range schedule.Tickets {
		if t.ID == id {
			ticket = t
			break
		}
	}
	ticket.Schedule = schedule

	p, ok := v.passenger(row.passengerID)
	if !ok {
		return nil, 0, fmt.Errorf("get passenger: %w", repository.ErrNotFound)
	}
	passenger := p.hydrate()
	passenger.Tickets = append(passenger.Tickets, ticket)
	ticket.Passenger = passenger
	return ticket, row.rev, nil
}
