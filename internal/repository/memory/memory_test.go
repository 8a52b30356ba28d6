package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

func seededStore(t *testing.T) (*Store, *model.BusSchedule) {
	t.Helper()
	ctx := context.Background()
	s := New()

	bus, err := model.NewBus("Green Line Express", "Green Line Paribahan", 8, "AC Seater")
	require.NoError(t, err)
	route, err := model.NewRoute("Dhaka", "Rajshahi", 256.5, 5*time.Hour)
	require.NoError(t, err)
	price, err := model.NewMoney(80000, "BDT")
	require.NoError(t, err)
	now := time.Now().UTC()
	day := model.DateOf(now).AddDate(0, 0, 10)
	schedule, err := model.NewBusSchedule(bus.ID, route.ID, day.Add(8*time.Hour), day.Add(13*time.Hour), day, price, now)
	require.NoError(t, err)

	require.NoError(t, s.SaveRoute(ctx, route))
	require.NoError(t, s.SaveBus(ctx, bus))
	require.NoError(t, s.SaveSchedule(ctx, schedule))
	return s, schedule
}

func newPassenger(t *testing.T, mobile string) *model.Passenger {
	t.Helper()
	p, err := model.NewPassenger("Passenger "+mobile, mobile, "")
	require.NoError(t, err)
	return p
}

// book runs the booking writes without the rules engine.
func book(t *testing.T, s *Store, schedule *model.BusSchedule, seatNumber, mobile string) error {
	t.Helper()
	ctx := context.Background()
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	sc, err := tx.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	seat, err := tx.GetSeatWithDetails(ctx, sc.ID, sc.Bus.Seat(seatNumber).ID)
	require.NoError(t, err)
	p, err := tx.GetOrCreatePassengerByMobile(ctx, newPassenger(t, mobile))
	require.NoError(t, err)

	ticket, _, err := model.NewTicket(seat.ID, p.ID, sc.ID, "Gabtoli", "Shaheb Bazar", sc.Price, time.Now())
	require.NoError(t, err)
	if _, err := seat.Book(time.Now()); err != nil {
		return err
	}
	require.NoError(t, tx.SaveSeatState(ctx, sc.ID, seat))
	require.NoError(t, tx.AddTicket(ctx, ticket))
	return tx.Commit(ctx)
}

func TestScheduleDetailsHydrateFreshEntities(t *testing.T) {
	s, schedule := seededStore(t)
	ctx := context.Background()

	a, err := s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	require.Len(t, a.Bus.Seats, 8)
	assert.Equal(t, "1A", a.Bus.Seats[0].Number)
	assert.Equal(t, "Dhaka", a.Route.FromCity)
	assert.Equal(t, schedule.Price, a.Price)

	_, err = a.Bus.Seats[0].Book(time.Now())
	require.NoError(t, err)

	b, err := s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	assert.True(t, b.Bus.Seats[0].IsAvailable(), "mutating a loaded entity must not leak into the store")
	assert.NotSame(t, a.Bus, b.Bus)
}

func TestCommitMakesWritesVisible(t *testing.T) {
	s, schedule := seededStore(t)
	ctx := context.Background()

	require.NoError(t, book(t, s, schedule, "1A", "01711000001"))

	sc, err := s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	seat := sc.Bus.Seat("1A")
	assert.Equal(t, model.SeatBooked, seat.Status())
	require.NotNil(t, seat.Ticket)
	assert.Equal(t, model.TicketConfirmed, seat.Ticket.Status())
	assert.Len(t, sc.Tickets, 1)
	assert.Equal(t, 1, s.ConfirmedTickets(schedule.ID, seat.ID))

	tk, err := s.GetTicketWithDetails(ctx, seat.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "01711000001", tk.Passenger.MobileNumber)
	assert.Equal(t, model.SeatBooked, tk.Seat.Status())
	assert.Same(t, tk, tk.Seat.Ticket)
}

func TestUncommittedWritesAreIsolated(t *testing.T) {
	s, schedule := seededStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	sc, err := tx.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	seatID := sc.Bus.Seats[0].ID
	seat, err := tx.GetSeatWithDetails(ctx, schedule.ID, seatID)
	require.NoError(t, err)
	_, err = seat.Book(time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.SaveSeatState(ctx, schedule.ID, seat))

	inTx, err := tx.GetSeatWithDetails(ctx, schedule.ID, seatID)
	require.NoError(t, err)
	assert.True(t, inTx.IsBooked(), "a unit of work reads its own writes")

	outside, err := s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	assert.True(t, outside.Bus.Seats[0].IsAvailable())

	require.NoError(t, tx.Rollback(ctx))
	after, err := s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	assert.True(t, after.Bus.Seats[0].IsAvailable())

	_, err = tx.GetSeatWithDetails(ctx, schedule.ID, seatID)
	assert.ErrorIs(t, err, errTxDone)
}

func TestActiveSeatConstraint(t *testing.T) {
	s, schedule := seededStore(t)
	ctx := context.Background()

	// Two units of work both observe 1A as Available before either commits.
	first, err := s.Begin(ctx)
	require.NoError(t, err)
	second, err := s.Begin(ctx)
	require.NoError(t, err)

	write := func(tx repository.Tx, mobile string) {
		sc, err := tx.GetScheduleWithDetails(ctx, schedule.ID)
		require.NoError(t, err)
		seat := sc.Bus.Seat("1A")
		require.True(t, seat.IsAvailable())
		p, err := tx.GetOrCreatePassengerByMobile(ctx, newPassenger(t, mobile))
		require.NoError(t, err)
		ticket, _, err := model.NewTicket(seat.ID, p.ID, sc.ID, "X", "Y", sc.Price, time.Now())
		require.NoError(t, err)
		_, err = seat.Book(time.Now())
		require.NoError(t, err)
		require.NoError(t, tx.SaveSeatState(ctx, sc.ID, seat))
		require.NoError(t, tx.AddTicket(ctx, ticket))
	}
	write(first, "01711000001")
	write(second, "01711000002")

	require.NoError(t, first.Commit(ctx))
	err = second.Commit(ctx)
	require.ErrorIs(t, err, repository.ErrUniqueViolation)
	constraint, ok := repository.ViolatedConstraint(err)
	require.True(t, ok)
	assert.Equal(t, repository.ConstraintActiveSeat, constraint)

	sc, err := s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ConfirmedTickets(schedule.ID, sc.Bus.Seat("1A").ID))
	assert.Len(t, sc.Tickets, 1)
}

func TestActivePassengerConstraint(t *testing.T) {
	s, schedule := seededStore(t)

	require.NoError(t, book(t, s, schedule, "1B", "01711000001"))
	err := book(t, s, schedule, "2C", "01711000001")

	constraint, ok := repository.ViolatedConstraint(err)
	require.True(t, ok)
	assert.Equal(t, repository.ConstraintActivePassenger, constraint)
}

func TestPassengerMobileConstraint(t *testing.T) {
	s, _ := seededStore(t)
	ctx := context.Background()

	first, err := s.Begin(ctx)
	require.NoError(t, err)
	second, err := s.Begin(ctx)
	require.NoError(t, err)

	a, err := first.GetOrCreatePassengerByMobile(ctx, newPassenger(t, "01711000009"))
	require.NoError(t, err)
	b, err := second.GetOrCreatePassengerByMobile(ctx, newPassenger(t, "01711000009"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, first.Commit(ctx))
	constraint, ok := repository.ViolatedConstraint(second.Commit(ctx))
	require.True(t, ok)
	assert.Equal(t, repository.ConstraintPassengerMobile, constraint)

	third, err := s.Begin(ctx)
	require.NoError(t, err)
	defer third.Rollback(ctx)
	c, err := third.GetOrCreatePassengerByMobile(ctx, newPassenger(t, "01711000009"))
	require.NoError(t, err)
	assert.Equal(t, a.ID, c.ID, "existing passenger is reused")
}

func TestConcurrentTicketUpdateIsRejected(t *testing.T) {
	s, schedule := seededStore(t)
	ctx := context.Background()
	require.NoError(t, book(t, s, schedule, "1A", "01711000001"))

	sc, err := s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	ticketID := sc.Tickets[0].ID

	cancel := func(tx repository.Tx) {
		tk, err := tx.GetTicketWithDetails(ctx, ticketID)
		require.NoError(t, err)
		_, err = tk.Cancel("changed plans", time.Now())
		require.NoError(t, err)
		require.NoError(t, tx.UpdateTicket(ctx, tk))
	}
	first, err := s.Begin(ctx)
	require.NoError(t, err)
	second, err := s.Begin(ctx)
	require.NoError(t, err)
	cancel(first)
	cancel(second)

	require.NoError(t, first.Commit(ctx))
	assert.ErrorIs(t, second.Commit(ctx), repository.ErrConcurrentUpdate)
}

func TestSettleLosesToCommittedCancel(t *testing.T) {
	s, schedule := seededStore(t)
	ctx := context.Background()
	require.NoError(t, book(t, s, schedule, "1A", "01711000001"))

	sc, err := s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	ticketID := sc.Tickets[0].ID

	settle, err := s.Begin(ctx)
	require.NoError(t, err)
	tk, err := settle.GetTicketWithDetails(ctx, ticketID)
	require.NoError(t, err)
	require.NoError(t, tk.Seat.MarkSold(time.Now()))
	require.NoError(t, settle.SaveSeatState(ctx, tk.ScheduleID, tk.Seat))

	cancel, err := s.Begin(ctx)
	require.NoError(t, err)
	ctk, err := cancel.GetTicketWithDetails(ctx, ticketID)
	require.NoError(t, err)
	_, err = ctk.Cancel("changed plans", time.Now())
	require.NoError(t, err)
	_, released := ctk.Seat.Release(time.Now())
	require.True(t, released)
	require.NoError(t, cancel.SaveSeatState(ctx, ctk.ScheduleID, ctk.Seat))
	require.NoError(t, cancel.UpdateTicket(ctx, ctk))
	require.NoError(t, cancel.Commit(ctx))

	assert.ErrorIs(t, settle.Commit(ctx), repository.ErrConcurrentUpdate)

	sc, err = s.GetScheduleWithDetails(ctx, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeatAvailable, sc.Bus.Seat("1A").Status())
	assert.NoError(t, book(t, s, schedule, "1A", "01711000002"))
}

func TestCancelledContext(t *testing.T) {
	s, schedule := seededStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	cancel()

	_, err = tx.GetScheduleWithDetails(ctx, schedule.ID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, tx.Commit(ctx), context.Canceled)
	assert.NoError(t, tx.Rollback(context.Background()))
}

func TestNotFound(t *testing.T) {
	s, schedule := seededStore(t)
	ctx := context.Background()

	_, err := s.GetTicketWithDetails(ctx, schedule.BusID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetScheduleWithDetails(ctx, schedule.BusID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	_, err = tx.GetSeatWithDetails(ctx, schedule.ID, schedule.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindSchedules(t *testing.T) {
	s, schedule := seededStore(t)
	ctx := context.Background()

	n, err := s.CountRoutes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	found, err := s.FindSchedules(ctx, repository.ScheduleQuery{FromCity: "dhaka", ToCity: "RAJSHAHI", JourneyDate: schedule.JourneyDate.Add(15 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, schedule.ID, found[0].ID)
	assert.Len(t, found[0].Bus.Seats, 8)

	found, err = s.FindSchedules(ctx, repository.ScheduleQuery{FromCity: "Dhaka", JourneyDate: schedule.JourneyDate.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = s.FindSchedules(ctx, repository.ScheduleQuery{})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
