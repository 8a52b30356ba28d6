package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

const (
	msgBookInternal   = "An error occurred while booking the seat. Please try again."
	msgCancelInternal = "An error occurred while cancelling the booking. Please try again."
	msgTicketInternal = "An error occurred while updating the ticket. Please try again."
)

// BookSeat reserves a seat for a passenger. Validation runs before any
// storage access; the rest runs in one unit of work.
//
// The seat status check is optimistic: two requests can both see the seat
// Available. The gateway's uniqueness constraint on Confirmed tickets makes
// the later commit fail, and that failure is reported as seat unavailable.
func (s *BookingService) BookSeat(ctx context.Context, in BookSeatInput) BookingResult {
	in = in.normalize()
	if errs := in.Validate(); len(errs) > 0 {
		return failed(KindValidation, "Validation failed", errs...)
	}

	var (
		ticket *model.Ticket
		events []model.Event
	)
	err := s.withTx(ctx, func(tx repository.Tx) error {
		schedule, err := tx.GetScheduleWithDetails(ctx, in.ScheduleID)
		if err != nil {
			return notFound(err, ErrScheduleNotFound)
		}
		seat, err := tx.GetSeatWithDetails(ctx, schedule.ID, in.SeatID)
		if err != nil {
			return notFound(err, ErrSeatNotFound)
		}
		if seat.BusID != schedule.BusID {
			return errSeatWrongBus
		}

		passenger, err := s.resolvePassenger(ctx, tx, in)
		if err != nil {
			return err
		}

		if err := s.rules.CheckSeat(seat, schedule); err != nil {
			return err
		}
		if err := s.rules.CheckBookingRules(seat, passenger, schedule); err != nil {
			return err
		}
		ticket, events, err = s.rules.BookSeat(seat, passenger, schedule, in.BoardingPoint, in.DroppingPoint)
		if err != nil {
			return err
		}

		if err := tx.SaveSeatState(ctx, schedule.ID, seat); err != nil {
			return err
		}
		return tx.AddTicket(ctx, ticket)
	})
	if err != nil {
		return s.failure("book_seat", err, msgBookInternal,
			"schedule_id", in.ScheduleID, "seat_id", in.SeatID)
	}

	s.sink.Publish(ctx, events...)
	s.log.Info("booking.seat_booked",
		"ticket_id", ticket.ID,
		"schedule_id", ticket.ScheduleID,
		"seat_number", ticket.Seat.Number,
		"passenger_id", ticket.PassengerID,
	)
	return BookingResult{
		Success:     true,
		Message:     "Seat booked successfully",
		TicketID:    ticket.ID,
		PassengerID: ticket.PassengerID,
		Ticket:      newTicketView(ticket, s.rules.Now()),
	}
}

// resolvePassenger finds the passenger by mobile number or creates one, and
// records a newly supplied email for a returning passenger.
func (s *BookingService) resolvePassenger(ctx context.Context, tx repository.Tx, in BookSeatInput) (*model.Passenger, error) {
	candidate, err := model.NewPassenger(in.PassengerName, in.MobileNumber, in.Email)
	if err != nil {
		return nil, err
	}
	p, err := tx.GetOrCreatePassengerByMobile(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if p.ID != candidate.ID && in.Email != "" && !strings.EqualFold(in.Email, p.Email) {
		p.UpdateContactInfo(in.Email, s.rules.Now())
		if err := tx.UpdatePassenger(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// CancelBooking cancels a Confirmed ticket and releases its seat.
func (s *BookingService) CancelBooking(ctx context.Context, ticketID uuid.UUID, reason string) BookingResult {
	var errs []string
	if ticketID == uuid.Nil {
		errs = append(errs, "Ticket ID is required")
	}
	if strings.TrimSpace(reason) == "" {
		errs = append(errs, "Cancellation reason is required")
	}
	if len(errs) > 0 {
		return failed(KindValidation, "Validation failed", errs...)
	}

	var (
		ticket *model.Ticket
		events []model.Event
	)
	err := s.withTx(ctx, func(tx repository.Tx) error {
		var err error
		ticket, err = tx.GetTicketWithDetails(ctx, ticketID)
		if err != nil {
			return notFound(err, ErrTicketNotFound)
		}
		events, err = s.rules.CancelBooking(ticket, reason)
		if err != nil {
			return err
		}
		if err := tx.UpdateTicket(ctx, ticket); err != nil {
			return err
		}
		if ticket.Seat != nil {
			return tx.SaveSeatState(ctx, ticket.ScheduleID, ticket.Seat)
		}
		return nil
	})
	if err != nil {
		return s.failure("cancel_booking", err, msgCancelInternal, "ticket_id", ticketID)
	}

	s.sink.Publish(ctx, events...)
	s.log.Info("booking.cancelled", "ticket_id", ticket.ID, "schedule_id", ticket.ScheduleID)
	return BookingResult{
		Success:     true,
		Message:     "Booking cancelled successfully",
		TicketID:    ticket.ID,
		PassengerID: ticket.PassengerID,
		Ticket:      newTicketView(ticket, s.rules.Now()),
	}
}

// SettleBooking marks the seat of a Confirmed ticket as Sold.
func (s *BookingService) SettleBooking(ctx context.Context, ticketID uuid.UUID) BookingResult {
	return s.updateTicket(ctx, "settle_booking", ticketID, "Booking settled successfully",
		func(tx repository.Tx, ticket *model.Ticket) error {
			if err := s.rules.SettleBooking(ticket); err != nil {
				return err
			}
			return tx.SaveSeatState(ctx, ticket.ScheduleID, ticket.Seat)
		})
}

// MarkTicketUsed records that the passenger boarded.
func (s *BookingService) MarkTicketUsed(ctx context.Context, ticketID uuid.UUID) BookingResult {
	return s.updateTicket(ctx, "mark_ticket_used", ticketID, "Ticket marked as used",
		func(tx repository.Tx, ticket *model.Ticket) error {
			if err := s.rules.MarkUsed(ticket); err != nil {
				return err
			}
			return tx.UpdateTicket(ctx, ticket)
		})
}

func (s *BookingService) updateTicket(ctx context.Context, op string, ticketID uuid.UUID, okMsg string, apply func(tx repository.Tx, ticket *model.Ticket) error) BookingResult {
	if ticketID == uuid.Nil {
		return failed(KindValidation, "Ticket ID is required")
	}
	var ticket *model.Ticket
	err := s.withTx(ctx, func(tx repository.Tx) error {
		var err error
		ticket, err = tx.GetTicketWithDetails(ctx, ticketID)
		if err != nil {
			return notFound(err, ErrTicketNotFound)
		}
		return apply(tx, ticket)
	})
	if err != nil {
		return s.failure(op, err, msgTicketInternal, "ticket_id", ticketID)
	}

	s.log.Info("booking."+op, "ticket_id", ticket.ID)
	return BookingResult{
		Success:     true,
		Message:     okMsg,
		TicketID:    ticket.ID,
		PassengerID: ticket.PassengerID,
		Ticket:      newTicketView(ticket, s.rules.Now()),
	}
}

// failure logs err and converts it into a failed result. Unexpected errors
// are logged at error level and never reach the caller.
func (s *BookingService) failure(op string, err error, internalMsg string, attrs ...any) BookingResult {
	kind, msg := classify(err, internalMsg)
	attrs = append(attrs, "op", op, "kind", kind, "err", err)
	if kind == KindInternal {
		s.log.Error("booking.failed", attrs...)
	} else {
		s.log.Info("booking.rejected", attrs...)
	}
	return failed(kind, msg)
}
