package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

// ScheduleFinder is the read side of repository.Catalog.
type ScheduleFinder interface {
	FindSchedules(ctx context.Context, q repository.ScheduleQuery) ([]*model.BusSchedule, error)
}

// ScheduleSummary is one search hit.
type ScheduleSummary struct {
	ScheduleID     uuid.UUID   `json:"schedule_id"`
	BusName        string      `json:"bus_name"`
	OperatorName   string      `json:"operator_name"`
	BusClass       string      `json:"bus_class"`
	FromCity       string      `json:"from_city"`
	ToCity         string      `json:"to_city"`
	JourneyDate    string      `json:"journey_date"`
	DepartureTime  string      `json:"departure_time"`
	ArrivalTime    string      `json:"arrival_time"`
	Price          model.Money `json:"price"`
	AvailableSeats int         `json:"available_seats"`
	TotalSeats     int         `json:"total_seats"`
}

// SearchService lists schedules between two cities.
type SearchService struct {
	finder ScheduleFinder
	log    *slog.Logger
}

func NewSearchService(finder ScheduleFinder, log *slog.Logger) *SearchService {
	return &SearchService{finder: finder, log: log}
}

// Search returns the schedules from one city to another. A blank date
// matches every date; otherwise it must be YYYY-MM-DD.
func (s *SearchService) Search(ctx context.Context, from, to, date string) ([]ScheduleSummary, error) {
	q := repository.ScheduleQuery{FromCity: strings.TrimSpace(from), ToCity: strings.TrimSpace(to)}
	if q.FromCity == "" || q.ToCity == "" {
		return nil, &model.ValidationError{Msg: "from and to cities are required"}
	}
	if date = strings.TrimSpace(date); date != "" {
		day, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, &model.ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"}
		}
		q.JourneyDate = day
	}

	schedules, err := s.finder.FindSchedules(ctx, q)
	if err != nil {
		s.log.Error("search.failed", "from", q.FromCity, "to", q.ToCity, "err", err)
		return nil, ErrUnavailable
	}

	out := make([]ScheduleSummary, 0, len(schedules))
	for _, sc := range schedules {
		plan := newSeatPlan(sc)
		out = append(out, ScheduleSummary{
			ScheduleID:     plan.ScheduleID,
			BusName:        plan.BusName,
			OperatorName:   plan.OperatorName,
			BusClass:       plan.BusClass,
			FromCity:       plan.FromCity,
			ToCity:         plan.ToCity,
			JourneyDate:    plan.JourneyDate,
			DepartureTime:  plan.DepartureTime,
			ArrivalTime:    plan.ArrivalTime,
			Price:          plan.Price,
			AvailableSeats: plan.AvailableSeats,
			TotalSeats:     plan.TotalSeats,
		})
	}
	return out, nil
}
