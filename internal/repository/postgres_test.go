package repository_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/booking"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/database"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/service"
)

// openStore connects to the database named by BUSRES_TEST_DATABASE_URL and
// skips the test when it is unset.
func openStore(t *testing.T) (*repository.PostgresStore, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("BUSRES_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BUSRES_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	return repository.NewPostgresStore(pool), pool
}

func newSchedule(t *testing.T, s *repository.PostgresStore, seats int) *model.BusSchedule {
	t.Helper()
	ctx := context.Background()
	bus, err := model.NewBus("Test Coach", "Test Paribahan", seats, "AC Seater")
	require.NoError(t, err)
	route, err := model.NewRoute("Dhaka", "Rajshahi", 256.5, 5*time.Hour)
	require.NoError(t, err)
	price, err := model.NewMoney(80000, "BDT")
	require.NoError(t, err)
	now := time.Now().UTC()
	day := model.DateOf(now).AddDate(0, 0, 10)
	sc, err := model.NewBusSchedule(bus.ID, route.ID, day.Add(8*time.Hour), day.Add(13*time.Hour), day, price, now)
	require.NoError(t, err)

	require.NoError(t, s.SaveRoute(ctx, route))
	require.NoError(t, s.SaveBus(ctx, bus))
	require.NoError(t, s.SaveSchedule(ctx, sc))
	sc.Bus = bus
	return sc
}

// mobile returns a number no earlier run has used.
func mobile(i int) string {
	return fmt.Sprintf("%010d%02d", time.Now().UnixNano()%1e10, i)
}

func newService(s *repository.PostgresStore) *service.BookingService {
	return service.NewBookingService(s, booking.New(booking.DefaultPolicy(), nil), nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPostgresConcurrentBookings(t *testing.T) {
	store, pool := openStore(t)
	sc := newSchedule(t, store, 4)
	svc := newService(store)
	seat := sc.Bus.Seat("1A")

	const n = 12
	results := make([]service.BookingResult, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.BookSeat(context.Background(), service.BookSeatInput{
				ScheduleID:    sc.ID,
				SeatID:        seat.ID,
				PassengerName: "Racer",
				MobileNumber:  mobile(i),
				BoardingPoint: "Gabtoli",
				DroppingPoint: "Shaheb Bazar",
			})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		} else {
			assert.Equal(t, service.KindSeatUnavailable, res.Kind, res.Message)
		}
	}
	assert.Equal(t, 1, succeeded)

	var confirmed int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM tickets WHERE schedule_id = $1 AND seat_id = $2 AND status = 'Confirmed'`,
		sc.ID, seat.ID,
	).Scan(&confirmed))
	assert.Equal(t, 1, confirmed)
}

func TestPostgresRoundTrip(t *testing.T) {
	store, _ := openStore(t)
	sc := newSchedule(t, store, 4)
	svc := newService(store)
	ctx := context.Background()
	in := service.BookSeatInput{
		ScheduleID:    sc.ID,
		SeatID:        sc.Bus.Seat("2B").ID,
		PassengerName: "Rahim",
		MobileNumber:  mobile(99),
		BoardingPoint: "Gabtoli",
		DroppingPoint: "Shaheb Bazar",
	}

	booked := svc.BookSeat(ctx, in)
	require.True(t, booked.Success, booked.Message)

	in.SeatID = sc.Bus.Seat("3C").ID
	dup := svc.BookSeat(ctx, in)
	assert.Equal(t, service.KindDuplicateBooking, dup.Kind)

	require.True(t, svc.CancelBooking(ctx, booked.TicketID, "changed plans").Success)
	again := svc.CancelBooking(ctx, booked.TicketID, "changed plans")
	assert.Equal(t, service.KindInvalidBooking, again.Kind)

	plan, err := svc.GetSeatPlan(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, plan.AvailableSeats)

	found, err := store.FindSchedules(ctx, repository.ScheduleQuery{FromCity: "dhaka", ToCity: "rajshahi", JourneyDate: sc.JourneyDate})
	require.NoError(t, err)
	ids := make([]string, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.ID.String())
	}
	assert.Contains(t, ids, sc.ID.String())
}

func TestPostgresSeatRowIsLocked(t *testing.T) {
	store, _ := openStore(t)
	sc := newSchedule(t, store, 4)
	ctx := context.Background()
	seat := sc.Bus.Seat("1A")

	holder, err := store.Begin(ctx)
	require.NoError(t, err)
	got, err := holder.GetSeatWithDetails(ctx, sc.ID, seat.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeatAvailable, got.Status())

	waiter, err := store.Begin(ctx)
	require.NoError(t, err)
	defer waiter.Rollback(ctx)
	short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = waiter.GetSeatWithDetails(short, sc.ID, seat.ID)
	assert.Error(t, err)

	require.NoError(t, holder.Rollback(ctx))

	next, err := store.Begin(ctx)
	require.NoError(t, err)
	defer next.Rollback(ctx)
	_, err = next.GetSeatWithDetails(ctx, sc.ID, seat.ID)
	assert.NoError(t, err)
}
