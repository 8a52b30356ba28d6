package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func testSchedule(t *testing.T, bus *Bus, daysAhead int) *BusSchedule {
	t.Helper()
	route, err := NewRoute("Dhaka", "Rajshahi", 256.5, 5*time.Hour+30*time.Minute)
	require.NoError(t, err)
	price, err := NewMoney(80000, "bdt")
	require.NoError(t, err)
	day := DateOf(now).AddDate(0, 0, daysAhead)
	s, err := NewBusSchedule(bus.ID, route.ID, day.Add(8*time.Hour), day.Add(13*time.Hour+30*time.Minute), day, price, now)
	require.NoError(t, err)
	s.Bus = bus
	s.Route = route
	return s
}

func TestNewBusGeneratesSeatLayout(t *testing.T) {
	bus, err := NewBus("Green Line Express", "Green Line Paribahan", 10, "AC Seater")
	require.NoError(t, err)
	require.Len(t, bus.Seats, 10)

	want := []string{"1A", "1B", "1C", "1D", "2A", "2B", "2C", "2D", "3A", "3B"}
	for i, s := range bus.Seats {
		assert.Equal(t, want[i], s.Number)
		assert.Equal(t, bus.ID, s.BusID)
		assert.Equal(t, i+1, s.Position)
		assert.Equal(t, SeatAvailable, s.Status())
	}
	assert.Equal(t, "Row 3", bus.Seats[9].Row)
	assert.Equal(t, 10, bus.AvailableSeatCount())
	assert.Same(t, bus.Seats[5], bus.Seat("2b"))
	assert.Nil(t, bus.Seat("9Z"))
}

func TestNewBusValidation(t *testing.T) {
	tests := []struct {
		description string
		name        string
		operator    string
		seats       int
		class       string
		field       string
	}{
		{"missing name", " ", "Op", 40, "AC", "name"},
		{"missing operator", "Bus", "", 40, "AC", "operator_name"},
		{"zero seats", "Bus", "Op", 0, "AC", "total_seats"},
		{"too many seats", "Bus", "Op", 61, "AC", "total_seats"},
		{"missing class", "Bus", "Op", 40, "", "bus_class"},
	}
	for _, tt := range tests {
		_, err := NewBus(tt.name, tt.operator, tt.seats, tt.class)
		var verr *ValidationError
		require.ErrorAsf(t, err, &verr, tt.description)
		assert.Equalf(t, tt.field, verr.Field, tt.description)
	}
}

func TestRouteRejectsSameCity(t *testing.T) {
	_, err := NewRoute("Dhaka", " dhaka ", 10, time.Hour)
	require.Error(t, err)

	r, err := NewRoute("Dhaka", "Sylhet", 240, 6*time.Hour)
	require.NoError(t, err)
	assert.True(t, r.Matches("DHAKA", "sylhet"))
	assert.False(t, r.Matches("Sylhet", "Dhaka"))
}

func TestMoney(t *testing.T) {
	m, err := NewMoney(80050, "usd")
	require.NoError(t, err)
	assert.Equal(t, "800.50 USD", m.String())

	_, err = NewMoney(-1, "USD")
	assert.Error(t, err)

	other, _ := NewMoney(100, "BDT")
	_, err = m.Add(other)
	assert.ErrorIs(t, err, errCurrencyMismatch)

	sum, err := m.Add(m)
	require.NoError(t, err)
	assert.Equal(t, int64(160100), sum.Amount)
}

func TestNewBusScheduleInvariants(t *testing.T) {
	price, _ := NewMoney(100, "BDT")
	day := DateOf(now)
	bus, route := uuid.New(), uuid.New()

	_, err := NewBusSchedule(bus, route, day.Add(10*time.Hour), day.Add(9*time.Hour), day, price, now)
	assert.Error(t, err, "departure after arrival")

	_, err = NewBusSchedule(bus, route, day.Add(-14*time.Hour), day.Add(-10*time.Hour), day.AddDate(0, 0, -1), price, now)
	assert.Error(t, err, "journey date in the past")

	s, err := NewBusSchedule(bus, route, day.Add(20*time.Hour), day.Add(23*time.Hour), day.Add(15*time.Hour), price, now)
	require.NoError(t, err)
	assert.Equal(t, day, s.JourneyDate)
	assert.True(t, s.IsAvailableForBooking(now))
	assert.False(t, s.IsAvailableForBooking(now.AddDate(0, 0, 1)))
	assert.Equal(t, 3*time.Hour, s.Duration())
}

func TestSeatStateMachine(t *testing.T) {
	bus, err := NewBus("Bus", "Op", 4, "AC")
	require.NoError(t, err)
	seat := bus.Seats[0]

	ev, err := seat.Book(now)
	require.NoError(t, err)
	assert.Equal(t, EventSeatBooked, ev.Type)
	assert.Equal(t, seat.ID, ev.SeatID)
	assert.Equal(t, "1A", ev.SeatNumber)
	assert.True(t, seat.IsBooked())

	_, err = seat.Book(now)
	assert.ErrorIs(t, err, ErrSeatNotAvailable)
	var snae *SeatNotAvailableError
	require.ErrorAs(t, err, &snae)
	assert.Equal(t, "1A", snae.SeatNumber)
	assert.Equal(t, seat.ID, snae.SeatID)

	require.NoError(t, seat.MarkSold(now))
	assert.True(t, seat.IsSold())
	assert.ErrorIs(t, seat.MarkSold(now), ErrSeatNotBooked)

	_, err = seat.Book(now)
	assert.ErrorIs(t, err, ErrSeatNotAvailable, "sold seat cannot be booked")

	ev, released := seat.Release(now)
	assert.True(t, released)
	assert.Equal(t, EventSeatReleased, ev.Type)
	assert.True(t, seat.IsAvailable())
}

func TestSeatReleaseIsIdempotent(t *testing.T) {
	seat := RestoreSeat(uuid.New(), uuid.New(), "1A", "Row 1", 1, SeatAvailable, now, time.Time{})

	_, released := seat.Release(now)
	assert.False(t, released)
	_, released = seat.Release(now)
	assert.False(t, released)
	assert.Equal(t, SeatAvailable, seat.Status())
}

func TestMarkSoldRequiresBooked(t *testing.T) {
	seat := RestoreSeat(uuid.New(), uuid.New(), "1A", "Row 1", 1, "", now, time.Time{})
	assert.True(t, seat.IsAvailable())
	assert.ErrorIs(t, seat.MarkSold(now), ErrSeatNotBooked)
}

func TestPassengerMobileValidation(t *testing.T) {
	_, err := NewPassenger("Rahim", "12345", "")
	assert.Error(t, err)

	p, err := NewPassenger(" Rahim ", "+880 1711-000000", " r@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "Rahim", p.Name)
	assert.Equal(t, "r@example.com", p.Email)

	p.UpdateContactInfo("new@example.com", now)
	assert.Equal(t, "new@example.com", p.Email)
}

func TestPassengerHasActiveTicketOn(t *testing.T) {
	p, err := NewPassenger("Rahim", "01711000000", "")
	require.NoError(t, err)
	scheduleID := uuid.New()
	price, _ := NewMoney(100, "BDT")

	tk, _, err := NewTicket(uuid.New(), p.ID, scheduleID, "X", "Y", price, now)
	require.NoError(t, err)
	require.NoError(t, p.AddTicket(tk))
	assert.True(t, p.HasActiveTicketOn(scheduleID))
	assert.False(t, p.HasActiveTicketOn(uuid.New()))

	_, err = tk.Cancel("changed plans", now)
	require.NoError(t, err)
	assert.False(t, p.HasActiveTicketOn(scheduleID))

	foreign, _, _ := NewTicket(uuid.New(), uuid.New(), scheduleID, "X", "Y", price, now)
	assert.Error(t, p.AddTicket(foreign))
}

func TestTicketStateMachine(t *testing.T) {
	bus, err := NewBus("Bus", "Op", 4, "AC")
	require.NoError(t, err)
	schedule := testSchedule(t, bus, 5)
	price := schedule.Price

	tk, ev, err := NewTicket(bus.Seats[0].ID, uuid.New(), schedule.ID, " X ", "Y", price, now)
	require.NoError(t, err)
	tk.Schedule = schedule
	assert.Equal(t, EventTicketBooked, ev.Type)
	assert.Equal(t, price, ev.Amount)
	assert.Equal(t, "X", tk.BoardingPoint)
	assert.Equal(t, TicketConfirmed, tk.Status())
	assert.True(t, tk.CanBeCancelled(now))

	_, err = tk.Cancel("  ", now)
	assert.ErrorIs(t, err, ErrReasonRequired)

	ev, err = tk.Cancel("changed plans", now)
	require.NoError(t, err)
	assert.Equal(t, EventTicketCancelled, ev.Type)
	assert.Equal(t, "changed plans", tk.CancellationReason())
	assert.False(t, tk.CanBeCancelled(now))

	_, err = tk.Cancel("again", now)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.ErrorIs(t, tk.MarkUsed(now), ErrUseCancelledTicket)
}

func TestUsedTicketCannotBeCancelled(t *testing.T) {
	price, _ := NewMoney(100, "BDT")
	tk, _, err := NewTicket(uuid.New(), uuid.New(), uuid.New(), "X", "Y", price, now)
	require.NoError(t, err)

	require.NoError(t, tk.MarkUsed(now))
	require.NoError(t, tk.MarkUsed(now), "marking used twice is a no-op")
	assert.Equal(t, TicketUsed, tk.Status())

	_, err = tk.Cancel("reason", now)
	assert.ErrorIs(t, err, ErrCancelUsedTicket)
}

func TestTicketCancelBlocker(t *testing.T) {
	bus, err := NewBus("Bus", "Op", 4, "AC")
	require.NoError(t, err)
	schedule := testSchedule(t, bus, 1)
	tk, _, err := NewTicket(bus.Seats[0].ID, uuid.New(), schedule.ID, "X", "Y", schedule.Price, now)
	require.NoError(t, err)

	assert.Error(t, tk.CancelBlocker(now), "schedule not loaded")
	assert.False(t, tk.CanBeCancelled(now))

	tk.Schedule = schedule
	assert.NoError(t, tk.CancelBlocker(now))
	assert.True(t, errors.Is(tk.CancelBlocker(now.AddDate(0, 0, 2)), ErrJourneyDeparted))
}

func TestInvalidBookingErrorMatching(t *testing.T) {
	err := error(&InvalidBookingError{TicketID: uuid.New(), Err: ErrAlreadyCancelled})
	assert.ErrorIs(t, err, ErrInvalidBooking)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, "ticket is already cancelled", err.Error())
}

func TestParseStatuses(t *testing.T) {
	s, err := ParseSeatStatus("BOOKED")
	require.NoError(t, err)
	assert.Equal(t, SeatBooked, s)
	_, err = ParseSeatStatus("reserved")
	assert.Error(t, err)

	ts, err := ParseTicketStatus("cancelled")
	require.NoError(t, err)
	assert.Equal(t, TicketCancelled, ts)
}
