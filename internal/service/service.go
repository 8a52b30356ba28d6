// Package service implements the booking orchestrator: it runs each booking
// workflow inside one unit of work, asks the rules engine for decisions,
// commits or rolls back, and converts every outcome into a BookingResult.
// It is the only place that decides transaction fate.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/booking"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

var (
	ErrScheduleNotFound = fmt.Errorf("bus schedule %w", repository.ErrNotFound)
	ErrSeatNotFound     = fmt.Errorf("seat %w", repository.ErrNotFound)
	ErrTicketNotFound   = fmt.Errorf("ticket %w", repository.ErrNotFound)

	// ErrUnavailable replaces unexpected infrastructure errors at the
	// service boundary; the cause is logged, not returned.
	ErrUnavailable = errors.New("an error occurred while loading the data, please try again")

	errSeatWrongBus = errors.New("seat does not belong to the selected bus")
)

// Rules is the booking rules engine. *booking.Service implements it.
type Rules interface {
	Now() time.Time
	CheckSeat(seat *model.Seat, schedule *model.BusSchedule) error
	CheckBookingRules(seat *model.Seat, passenger *model.Passenger, schedule *model.BusSchedule) error
	BookSeat(seat *model.Seat, passenger *model.Passenger, schedule *model.BusSchedule, boarding, dropping string) (*model.Ticket, []model.Event, error)
	CancelBooking(ticket *model.Ticket, reason string) ([]model.Event, error)
	SettleBooking(ticket *model.Ticket) error
	MarkUsed(ticket *model.Ticket) error
}

var _ Rules = (*booking.Service)(nil)

// EventSink receives domain events after a successful commit. Delivery is
// fire-and-forget.
type EventSink interface {
	Publish(ctx context.Context, evs ...model.Event)
}

type discardSink struct{}

func (discardSink) Publish(context.Context, ...model.Event) {}

// BookingService orchestrates the seat reservation workflows.
type BookingService struct {
	store repository.Store
	rules Rules
	sink  EventSink
	log   *slog.Logger
}

// NewBookingService constructs a BookingService. A nil sink discards events.
func NewBookingService(store repository.Store, rules Rules, sink EventSink, log *slog.Logger) *BookingService {
	if sink == nil {
		sink = discardSink{}
	}
	return &BookingService{store: store, rules: rules, sink: sink, log: log}
}

// GetSeatPlan returns the seats of a schedule with their current status.
func (s *BookingService) GetSeatPlan(ctx context.Context, scheduleID uuid.UUID) (*SeatPlan, error) {
	if scheduleID == uuid.Nil {
		return nil, ErrScheduleNotFound
	}
	schedule, err := s.store.GetScheduleWithDetails(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.log.Error("booking.seat_plan_failed", "schedule_id", scheduleID, "err", err)
		return nil, ErrUnavailable
	}
	return newSeatPlan(schedule), nil
}

// GetTicketDetails returns a read-only view of a ticket.
func (s *BookingService) GetTicketDetails(ctx context.Context, ticketID uuid.UUID) (*TicketView, error) {
	if ticketID == uuid.Nil {
		return nil, ErrTicketNotFound
	}
	ticket, err := s.store.GetTicketWithDetails(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		s.log.Error("booking.ticket_lookup_failed", "ticket_id", ticketID, "err", err)
		return nil, ErrUnavailable
	}
	return newTicketView(ticket, s.rules.Now()), nil
}

// withTx runs fn in a unit of work, committing when fn succeeds and rolling
// back otherwise. Rollback ignores cancellation of ctx so an abandoned
// request never leaves a transaction open.
func (s *BookingService) withTx(ctx context.Context, fn func(tx repository.Tx) error) (err error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			s.rollback(ctx, tx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *BookingService) rollback(ctx context.Context, tx repository.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		s.log.Error("booking.rollback_failed", "err", err)
	}
}

// notFound replaces a gateway ErrNotFound with the specific sentinel.
func notFound(err, specific error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return specific
	}
	return err
}
