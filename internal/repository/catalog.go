package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
)

// SaveRoute inserts a route.
func (s *PostgresStore) SaveRoute(ctx context.Context, r *model.Route) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO routes (id, from_city, to_city, distance_km, duration_minutes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.FromCity, r.ToCity, r.DistanceKm, int(r.EstimatedDuration/time.Minute), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert route: %w", translate(err))
	}
	return nil
}

// SaveBus inserts a bus and its generated seats in one transaction.
func (s *PostgresStore) SaveBus(ctx context.Context, b *model.Bus) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO buses (id, name, operator_name, total_seats, bus_class, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Name, b.OperatorName, b.TotalSeats, b.Class, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bus: %w", translate(err))
	}

	batch := &pgx.Batch{}
	for _, seat := range b.Seats {
		batch.Queue(
			`INSERT INTO seats (id, bus_id, seat_number, row_label, position, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			seat.ID, seat.BusID, seat.Number, seat.Row, seat.Position, seat.CreatedAt,
		)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert seats: %w", translate(err))
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SaveSchedule inserts a schedule. Seat states start out implicit (Available).
func (s *PostgresStore) SaveSchedule(ctx context.Context, sc *model.BusSchedule) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO bus_schedules (id, bus_id, route_id, departure_time, arrival_time, journey_date,
		                            price_minor, currency, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sc.ID, sc.BusID, sc.RouteID, sc.DepartureTime, sc.ArrivalTime, sc.JourneyDate,
		sc.Price.Amount, sc.Price.Currency, sc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", translate(err))
	}
	return nil
}

// CountRoutes returns the number of stored routes.
func (s *PostgresStore) CountRoutes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM routes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count routes: %w", translate(err))
	}
	return n, nil
}

// FindSchedules loads each matching schedule with its details.
func (s *PostgresStore) FindSchedules(ctx context.Context, q ScheduleQuery) ([]*model.BusSchedule, error) {
	var day *time.Time
	if !q.JourneyDate.IsZero() {
		d := model.DateOf(q.JourneyDate)
		day = &d
	}
	rows, err := s.db.Query(ctx,
		`SELECT bs.id
		 FROM bus_schedules bs
		 JOIN routes r ON r.id = bs.route_id
		 WHERE ($1 = '' OR lower(r.from_city) = lower($1))
		   AND ($2 = '' OR lower(r.to_city) = lower($2))
		   AND ($3::date IS NULL OR bs.journey_date = $3::date)
		 ORDER BY bs.departure_time, bs.id`,
		strings.TrimSpace(q.FromCity), strings.TrimSpace(q.ToCity), day,
	)
	if err != nil {
		return nil, fmt.Errorf("find schedules: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("find schedules: %w", err)
	}

	out := make([]*model.BusSchedule, 0, len(ids))
	for _, id := range ids {
		sc, err := loadScheduleWithDetails(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
