// Package seed loads a demo catalog of routes, buses and schedules.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
)

// DefaultDays is how many consecutive days of schedules Demo creates.
const DefaultDays = 7

// Catalog is the write side of repository.Catalog.
type Catalog interface {
	SaveRoute(ctx context.Context, r *model.Route) error
	SaveBus(ctx context.Context, b *model.Bus) error
	SaveSchedule(ctx context.Context, s *model.BusSchedule) error
	CountRoutes(ctx context.Context) (int, error)
}

// Summary reports what Demo stored.
type Summary struct {
	Skipped   bool
	Routes    int
	Buses     int
	Schedules int
}

type routeSpec struct {
	from, to string
	km       float64
	duration time.Duration
}

type busSpec struct {
	name, operator string
	seats          int
	class          string
}

// departure is one daily run: offsets from midnight of the journey date and
// the fare in whole taka.
type departure struct {
	bus, route int
	depart     time.Duration
	arrive     time.Duration
	fare       int64
}

var (
	routes = []routeSpec{
		{"Dhaka", "Rajshahi", 256.5, 5*time.Hour + 30*time.Minute},
		{"Dhaka", "Chittagong", 264, 6 * time.Hour},
		{"Dhaka", "Sylhet", 245, 5 * time.Hour},
	}
	buses = []busSpec{
		{"Green Line Express", "Green Line Paribahan", 40, "AC Seater"},
		{"Shyamoli Luxury", "Shyamoli Paribahan", 32, "AC Sleeper"},
		{"Ena Transport", "Ena Paribahan", 45, "Non-AC Seater"},
		{"Hanif Enterprise", "Hanif Paribahan", 40, "AC Seater"},
	}
	departures = []departure{
		{bus: 0, route: 0, depart: 8 * time.Hour, arrive: 13*time.Hour + 30*time.Minute, fare: 800},
		{bus: 0, route: 0, depart: 22 * time.Hour, arrive: 27*time.Hour + 30*time.Minute, fare: 900},
		{bus: 3, route: 0, depart: 10 * time.Hour, arrive: 15*time.Hour + 30*time.Minute, fare: 850},
		{bus: 1, route: 1, depart: 9 * time.Hour, arrive: 15 * time.Hour, fare: 1200},
		{bus: 1, route: 1, depart: 23 * time.Hour, arrive: 29 * time.Hour, fare: 1400},
		{bus: 2, route: 2, depart: 7*time.Hour + 30*time.Minute, arrive: 12*time.Hour + 30*time.Minute, fare: 650},
		{bus: 2, route: 2, depart: 21 * time.Hour, arrive: 26 * time.Hour, fare: 700},
	}
)

// Demo stores the demo catalog with schedules for days consecutive days
// starting on the day of now. A catalog that already has routes is left
// alone.
func Demo(ctx context.Context, c Catalog, now time.Time, days int, log *slog.Logger) (Summary, error) {
	n, err := c.CountRoutes(ctx)
	if err != nil {
		return Summary{}, err
	}
	if n > 0 {
		log.Info("seed.skipped", "routes", n)
		return Summary{Skipped: true}, nil
	}
	if days < 1 {
		days = DefaultDays
	}

	var sum Summary
	savedRoutes := make([]*model.Route, 0, len(routes))
	for _, spec := range routes {
		r, err := model.NewRoute(spec.from, spec.to, spec.km, spec.duration)
		if err != nil {
			return sum, err
		}
		if err := c.SaveRoute(ctx, r); err != nil {
			return sum, err
		}
		savedRoutes = append(savedRoutes, r)
		sum.Routes++
	}

	savedBuses := make([]*model.Bus, 0, len(buses))
	for _, spec := range buses {
		b, err := model.NewBus(spec.name, spec.operator, spec.seats, spec.class)
		if err != nil {
			return sum, err
		}
		if err := c.SaveBus(ctx, b); err != nil {
			return sum, err
		}
		savedBuses = append(savedBuses, b)
		sum.Buses++
	}

	first := model.DateOf(now)
	for day := range days {
		date := first.AddDate(0, 0, day)
		for _, d := range departures {
			price, err := model.NewMoney(d.fare*100, "BDT")
			if err != nil {
				return sum, err
			}
			s, err := model.NewBusSchedule(savedBuses[d.bus].ID, savedRoutes[d.route].ID,
				date.Add(d.depart), date.Add(d.arrive), date, price, now)
			if err != nil {
				return sum, fmt.Errorf("schedule %s on %s: %w", savedBuses[d.bus].Name, date.Format(time.DateOnly), err)
			}
			if err := c.SaveSchedule(ctx, s); err != nil {
				return sum, err
			}
			sum.Schedules++
		}
	}

	log.Info("seed.completed", "routes", sum.Routes, "buses", sum.Buses, "schedules", sum.Schedules)
	return sum, nil
}
