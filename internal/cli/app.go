package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/boarding"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/booking"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/config"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/database"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/events"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/handler"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository/memory"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/seed"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/service"
)

// backend is a gateway plus its catalog side.
type backend interface {
	repository.Store
	repository.Catalog
}

// openBackend connects the configured storage. cleanup releases it.
func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (b backend, cleanup func(), err error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn("storage.memory", "msg", "bookings are kept in process memory and lost on exit")
		return memory.New(), func() {}, nil
	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// app is the wired HTTP service.
type app struct {
	handler    http.Handler
	dispatcher *events.Dispatcher
}

// newApp wires every layer over the backend.
func newApp(cfg config.Config, b backend, log *slog.Logger, clock func() time.Time) *app {
	dispatcher := events.NewDispatcher(log, cfg.Events.Buffer, events.LogHandler{Log: log})

	policy := booking.Policy{
		BookingCutoff:      cfg.Booking.BookingCutoff,
		CancellationCutoff: cfg.Booking.CancellationCutoff,
	}
	rules := booking.New(policy, clock)
	bookings := service.NewBookingService(b, rules, dispatcher, log)
	search := service.NewSearchService(b, log)

	return &app{
		handler: handler.NewRouter(
			handler.NewBookingHandler(bookings, log),
			handler.NewDirectoryHandler(search, boarding.FromConfig(cfg.Boarding)),
			cfg.Server.CORSOrigin,
		),
		dispatcher: dispatcher,
	}
}

// prepare migrates a PostgreSQL backend and seeds the demo catalog when
// configured.
func prepare(ctx context.Context, cfg config.Config, b backend, log *slog.Logger, now time.Time) error {
	if ps, ok := b.(*repository.PostgresStore); ok {
		if err := database.Migrate(ctx, ps.Pool()); err != nil {
			return err
		}
	}
	if cfg.Storage.SeedDemo {
		if _, err := seed.Demo(ctx, b, now, seed.DefaultDays, log); err != nil {
			return fmt.Errorf("seed demo catalog: %w", err)
		}
	}
	return nil
}
