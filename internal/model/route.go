package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Route is an immutable origin/destination pair.
type Route struct {
	ID                uuid.UUID
	FromCity          string
	ToCity            string
	DistanceKm        float64
	EstimatedDuration time.Duration
	CreatedAt         time.Time
}

func NewRoute(from, to string, distanceKm float64, duration time.Duration) (*Route, error) {
	switch {
	case blank(from):
		return nil, invalid("from_city", "is required")
	case blank(to):
		return nil, invalid("to_city", "is required")
	case strings.EqualFold(strings.TrimSpace(from), strings.TrimSpace(to)):
		return nil, invalid("to_city", "must differ from from_city")
	case distanceKm <= 0:
		return nil, invalid("distance", "must be positive")
	case duration <= 0:
		return nil, invalid("estimated_duration", "must be positive")
	}
	return &Route{
		ID:                uuid.New(),
		FromCity:          strings.TrimSpace(from),
		ToCity:            strings.TrimSpace(to),
		DistanceKm:        distanceKm,
		EstimatedDuration: duration,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// Matches compares cities case-insensitively.
func (r *Route) Matches(from, to string) bool {
	return strings.EqualFold(r.FromCity, strings.TrimSpace(from)) &&
		strings.EqualFold(r.ToCity, strings.TrimSpace(to))
}

func (r *Route) String() string {
	return fmt.Sprintf("%s → %s (%gkm)", r.FromCity, r.ToCity, r.DistanceKm)
}
