// Package events delivers domain events to subscribers without blocking the
// caller. Delivery is best effort: when the queue is full the event is
// dropped and a warning is logged.
package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
)

// Handler consumes one event. Errors are logged, not retried.
type Handler interface {
	Handle(ctx context.Context, ev model.Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev model.Event) error

func (f HandlerFunc) Handle(ctx context.Context, ev model.Event) error { return f(ctx, ev) }

// Dispatcher fans events out to handlers from a single background goroutine.
type Dispatcher struct {
	log      *slog.Logger
	queue    chan model.Event
	handlers []Handler

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64

	done chan struct{}
}

// NewDispatcher starts the delivery goroutine. Call Close to drain and stop it.
func NewDispatcher(log *slog.Logger, buffer int, handlers ...Handler) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	d := &Dispatcher{
		log:      log,
		queue:    make(chan model.Event, buffer),
		handlers: handlers,
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues events and returns immediately.
func (d *Dispatcher) Publish(_ context.Context, evs ...model.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	for _, ev := range evs {
		select {
		case d.queue <- ev:
		default:
			d.dropped.Add(1)
			d.log.Warn("events.dropped", "type", ev.Type, "event_id", ev.ID)
		}
	}
}

// Dropped reports how many events were discarded because the queue was full.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops accepting events, delivers the queued ones and waits for the
// delivery goroutine or ctx, whichever comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	ctx := context.Background()
	for ev := range d.queue {
		for _, h := range d.handlers {
			d.deliver(ctx, h, ev)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, h Handler, ev model.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("events.handler_panic", "type", ev.Type, "event_id", ev.ID, "panic", r)
		}
	}()
	if err := h.Handle(ctx, ev); err != nil {
		d.log.Error("events.handler_failed", "type", ev.Type, "event_id", ev.ID, "err", err)
	}
}

// LogHandler writes every event to the logger at info level.
type LogHandler struct {
	Log *slog.Logger
}

func (h LogHandler) Handle(_ context.Context, ev model.Event) error {
	attrs := []any{"event_id", ev.ID, "occurred_at", ev.OccurredAt}
	if ev.SeatID != uuid.Nil {
		attrs = append(attrs, "seat_id", ev.SeatID, "seat_number", ev.SeatNumber)
	}
	if ev.TicketID != uuid.Nil {
		attrs = append(attrs, "ticket_id", ev.TicketID, "schedule_id", ev.ScheduleID)
	}
	if ev.Reason != "" {
		attrs = append(attrs, "reason", ev.Reason)
	}
	h.Log.Info("event."+string(ev.Type), attrs...)
	return nil
}
