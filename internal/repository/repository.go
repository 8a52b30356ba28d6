// Package repository implements the persistence gateway for the reservation
// engine on PostgreSQL. It uses pgx directly (no ORM).
//
// Seat allocation relies on two layers. The booking service checks seat
// status before writing, and the partial unique indexes on tickets reject a
// second Confirmed ticket for the same seat or passenger on a schedule. Two
// transactions that both read a seat as Available therefore cannot both
// commit: the loser's INSERT waits on the winner and then fails with
// unique_violation, surfaced as *ConstraintError.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresStore is the PostgreSQL Store.
type PostgresStore struct {
	db *pgxpool.Pool
}

var (
	_ Store   = (*PostgresStore)(nil)
	_ Catalog = (*PostgresStore)(nil)
)

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Pool returns the underlying connection pool.
func (s *PostgresStore) Pool() *pgxpool.Pool { return s.db }

// Begin starts a READ COMMITTED transaction.
func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &pgTx{tx: tx}, nil
}

func (s *PostgresStore) GetScheduleWithDetails(ctx context.Context, id uuid.UUID) (*model.BusSchedule, error) {
	return loadScheduleWithDetails(ctx, s.db, id)
}

func (s *PostgresStore) GetTicketWithDetails(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return loadTicketWithDetails(ctx, s.db, id, false)
}

// pgTx is a Tx over one pgx transaction.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) GetScheduleWithDetails(ctx context.Context, id uuid.UUID) (*model.BusSchedule, error) {
	return loadScheduleWithDetails(ctx, t.tx, id)
}

// GetSeatWithDetails locks the seat's schedule_seats row, creating it as
// Available first when the seat belongs to the schedule's bus. Concurrent
// bookings of one seat serialize on that row.
func (t *pgTx) GetSeatWithDetails(ctx context.Context, scheduleID, seatID uuid.UUID) (*model.Seat, error) {
	if _, err := t.tx.Exec(ctx,
		`INSERT INTO schedule_seats (schedule_id, seat_id, status, updated_at)
		 SELECT b.id, s.id, 'Available', s.created_at
		 FROM seats s
		 JOIN bus_schedules b ON b.bus_id = s.bus_id
		 WHERE b.id = $1 AND s.id = $2
		 ON CONFLICT (schedule_id, seat_id) DO NOTHING`,
		scheduleID, seatID,
	); err != nil {
		return nil, fmt.Errorf("ensure seat state: %w", translate(err))
	}
	if _, err := t.tx.Exec(ctx,
		`SELECT 1 FROM schedule_seats WHERE schedule_id = $1 AND seat_id = $2 FOR UPDATE`,
		scheduleID, seatID,
	); err != nil {
		return nil, fmt.Errorf("lock seat: %w", translate(err))
	}

	seat, err := scanSeat(t.tx.QueryRow(ctx,
		`SELECT s.id, s.bus_id, s.seat_number, s.row_label, s.position,
		        COALESCE(ss.status, 'Available'), s.created_at, ss.updated_at
		 FROM seats s
		 LEFT JOIN schedule_seats ss ON ss.seat_id = s.id AND ss.schedule_id = $1
		 WHERE s.id = $2`,
		scheduleID, seatID,
	))
	if err != nil {
		return nil, fmt.Errorf("get seat: %w", translate(err))
	}

	ticket, err := scanTicket(t.tx.QueryRow(ctx,
		ticketColumns+` FROM tickets WHERE seat_id = $1 AND schedule_id = $2 AND status = 'Confirmed'`,
		seatID, scheduleID,
	))
	switch err = translate(err); {
	case err == nil:
		ticket.Seat = seat
		seat.Ticket = ticket
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("get seat ticket: %w", err)
	}
	return seat, nil
}

// GetOrCreatePassengerByMobile inserts the candidate unless the mobile number
// is taken. ON CONFLICT waits for a concurrent insert of the same number to
// resolve, so two racing sign-ups end up sharing one row.
func (t *pgTx) GetOrCreatePassengerByMobile(ctx context.Context, candidate *model.Passenger) (*model.Passenger, error) {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO passengers (id, name, mobile_number, email, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT ON CONSTRAINT passengers_mobile_key DO NOTHING`,
		candidate.ID, candidate.Name, candidate.MobileNumber, candidate.Email, candidate.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert passenger: %w", translate(err))
	}

	p, err := scanPassenger(t.tx.QueryRow(ctx,
		passengerColumns+` FROM passengers WHERE mobile_number = $1`,
		candidate.MobileNumber,
	))
	if err != nil {
		return nil, fmt.Errorf("get passenger: %w", translate(err))
	}

	tickets, err := queryTickets(ctx, t.tx,
		ticketColumns+` FROM tickets WHERE passenger_id = $1 ORDER BY booked_at`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list passenger tickets: %w", err)
	}
	p.Tickets = tickets
	return p, nil
}

func (t *pgTx) UpdatePassenger(ctx context.Context, p *model.Passenger) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE passengers SET name = $2, email = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Name, p.Email, nullTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("update passenger: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *pgTx) AddTicket(ctx context.Context, tk *model.Ticket) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO tickets (id, seat_id, passenger_id, schedule_id, boarding_point, dropping_point,
		                      booked_at, price_minor, currency, status, cancellation_reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		tk.ID, tk.SeatID, tk.PassengerID, tk.ScheduleID, tk.BoardingPoint, tk.DroppingPoint,
		tk.BookedAt, tk.Price.Amount, tk.Price.Currency, string(tk.Status()), tk.CancellationReason(),
		tk.CreatedAt, nullTime(tk.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", translate(err))
	}
	return nil
}

func (t *pgTx) UpdateTicket(ctx context.Context, tk *model.Ticket) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE tickets SET status = $2, cancellation_reason = $3, updated_at = $4 WHERE id = $1`,
		tk.ID, string(tk.Status()), tk.CancellationReason(), nullTime(tk.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *pgTx) SaveSeatState(ctx context.Context, scheduleID uuid.UUID, seat *model.Seat) error {
	updated := seat.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err := t.tx.Exec(ctx,
		`INSERT INTO schedule_seats (schedule_id, seat_id, status, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (schedule_id, seat_id)
		 DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`,
		scheduleID, seat.ID, string(seat.Status()), updated,
	)
	if err != nil {
		return fmt.Errorf("save seat state: %w", translate(err))
	}
	return nil
}

func (t *pgTx) GetTicketWithDetails(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return loadTicketWithDetails(ctx, t.tx, id, true)
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", translate(err))
	}
	return nil
}

// Rollback is safe to call after Commit.
func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// ─── Loaders ──────────────────────────────────────────────────────────────────

const scheduleColumns = `SELECT id, bus_id, route_id, departure_time, arrival_time, journey_date,
        price_minor, currency, created_at`

const ticketColumns = `SELECT id, seat_id, passenger_id, schedule_id, boarding_point, dropping_point,
        booked_at, price_minor, currency, status, cancellation_reason, created_at, updated_at`

const passengerColumns = `SELECT id, name, mobile_number, email, created_at, updated_at`

func loadScheduleWithDetails(ctx context.Context, q querier, id uuid.UUID) (*model.BusSchedule, error) {
	var s model.BusSchedule
	err := q.QueryRow(ctx, scheduleColumns+` FROM bus_schedules WHERE id = $1`, id).Scan(
		&s.ID, &s.BusID, &s.RouteID, &s.DepartureTime, &s.ArrivalTime, &s.JourneyDate,
		&s.Price.Amount, &s.Price.Currency, &s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", translate(err))
	}

	var b model.Bus
	err = q.QueryRow(ctx,
		`SELECT id, name, operator_name, total_seats, bus_class, created_at FROM buses WHERE id = $1`,
		s.BusID,
	).Scan(&b.ID, &b.Name, &b.OperatorName, &b.TotalSeats, &b.Class, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get bus: %w", translate(err))
	}

	var r model.Route
	var minutes int
	err = q.QueryRow(ctx,
		`SELECT id, from_city, to_city, distance_km, duration_minutes, created_at FROM routes WHERE id = $1`,
		s.RouteID,
	).Scan(&r.ID, &r.FromCity, &r.ToCity, &r.DistanceKm, &minutes, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", translate(err))
	}
	r.EstimatedDuration = time.Duration(minutes) * time.Minute

	rows, err := q.Query(ctx,
		`SELECT s.id, s.bus_id, s.seat_number, s.row_label, s.position,
		        COALESCE(ss.status, 'Available'), s.created_at, ss.updated_at
		 FROM seats s
		 LEFT JOIN schedule_seats ss ON ss.seat_id = s.id AND ss.schedule_id = $2
		 WHERE s.bus_id = $1
		 ORDER BY s.position`,
		s.BusID, s.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		b.Seats = append(b.Seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}

	tickets, err := queryTickets(ctx, q,
		ticketColumns+` FROM tickets WHERE schedule_id = $1 ORDER BY booked_at`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("list schedule tickets: %w", err)
	}

	s.Bus = &b
	s.Route = &r
	AttachTickets(&s, tickets)
	return &s, nil
}

// AttachTickets links tickets to a schedule whose Bus is loaded, and
// Confirmed tickets to their seats. Gateway implementations only.
func AttachTickets(s *model.BusSchedule, tickets []*model.Ticket) {
	seats := make(map[uuid.UUID]*model.Seat, len(s.Bus.Seats))
	for _, seat := range s.Bus.Seats {
		seats[seat.ID] = seat
	}
	for _, tk := range tickets {
		tk.Schedule = s
		s.Tickets = append(s.Tickets, tk)
		if seat, ok := seats[tk.SeatID]; ok {
			tk.Seat = seat
			if tk.IsActive() {
				seat.Ticket = tk
			}
		}
	}
}

func loadTicketWithDetails(ctx context.Context, q querier, id uuid.UUID, lock bool) (*model.Ticket, error) {
	query := ticketColumns + ` FROM tickets WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	row, err := scanTicket(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", translate(err))
	}

	schedule, err := loadScheduleWithDetails(ctx, q, row.ScheduleID)
	if err != nil {
		return nil, err
	}
	ticket := row
	for _, tk := range schedule.Tickets {
		if tk.ID == row.ID {
			ticket = tk
			break
		}
	}
	ticket.Schedule = schedule

	p, err := scanPassenger(q.QueryRow(ctx, passengerColumns+` FROM passengers WHERE id = $1`, ticket.PassengerID))
	if err != nil {
		return nil, fmt.Errorf("get passenger: %w", translate(err))
	}
	p.Tickets = append(p.Tickets, ticket)
	ticket.Passenger = p
	return ticket, nil
}

func queryTickets(ctx context.Context, q querier, sql string, args ...any) ([]*model.Ticket, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*model.Ticket
	for rows.Next() {
		tk, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, tk)
	}
	return tickets, rows.Err()
}

func scanSeat(row rowScanner) (*model.Seat, error) {
	var (
		id, busID     uuid.UUID
		number, label string
		position      int
		status        string
		createdAt     time.Time
		updatedAt     *time.Time
	)
	if err := row.Scan(&id, &busID, &number, &label, &position, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	st, err := model.ParseSeatStatus(status)
	if err != nil {
		return nil, err
	}
	return model.RestoreSeat(id, busID, number, label, position, st, createdAt, deref(updatedAt)), nil
}

func scanTicket(row rowScanner) (*model.Ticket, error) {
	var (
		id, seatID, passengerID, scheduleID uuid.UUID
		boarding, dropping, status, reason  string
		bookedAt, createdAt                 time.Time
		updatedAt                           *time.Time
		price                               model.Money
	)
	err := row.Scan(&id, &seatID, &passengerID, &scheduleID, &boarding, &dropping,
		&bookedAt, &price.Amount, &price.Currency, &status, &reason, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	st, err := model.ParseTicketStatus(status)
	if err != nil {
		return nil, err
	}
	return model.RestoreTicket(id, seatID, passengerID, scheduleID, boarding, dropping,
		bookedAt, price, st, reason, createdAt, deref(updatedAt)), nil
}

func scanPassenger(row rowScanner) (*model.Passenger, error) {
	var (
		p         model.Passenger
		updatedAt *time.Time
	)
	if err := row.Scan(&p.ID, &p.Name, &p.MobileNumber, &p.Email, &p.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	p.UpdatedAt = deref(updatedAt)
	return &p, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
