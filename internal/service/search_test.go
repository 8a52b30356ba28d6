package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/model"
	"github.com/Shivanand-hulikatti/bus-seat-reservation/internal/repository"
)

type finderFunc func(context.Context, repository.ScheduleQuery) ([]*model.BusSchedule, error)

func (f finderFunc) FindSchedules(ctx context.Context, q repository.ScheduleQuery) ([]*model.BusSchedule, error) {
	return f(ctx, q)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.True(t, f.svc.BookSeat(ctx, f.input(t, "1A", "01711000001")).Success)

	search := NewSearchService(f.store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	hits, err := search.Search(ctx, "dhaka", "rajshahi", "2026-03-20")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, f.schedule.ID, hits[0].ScheduleID)
	assert.Equal(t, 11, hits[0].AvailableSeats)
	assert.Equal(t, 12, hits[0].TotalSeats)
	assert.Equal(t, "08:00", hits[0].DepartureTime)

	hits, err = search.Search(ctx, "Dhaka", "Rajshahi", "2026-03-21")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchValidation(t *testing.T) {
	search := NewSearchService(finderFunc(func(context.Context, repository.ScheduleQuery) ([]*model.BusSchedule, error) {
		t.Fatal("finder must not be called")
		return nil, nil
	}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	var verr *model.ValidationError
	_, err := search.Search(context.Background(), "Dhaka", " ", "")
	assert.ErrorAs(t, err, &verr)
	_, err = search.Search(context.Background(), "Dhaka", "Sylhet", "20/03/2026")
	assert.ErrorAs(t, err, &verr)
}

func TestSearchHidesStorageErrors(t *testing.T) {
	search := NewSearchService(finderFunc(func(context.Context, repository.ScheduleQuery) ([]*model.BusSchedule, error) {
		return nil, errors.New("connection refused")
	}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := search.Search(context.Background(), "Dhaka", "Sylhet", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}
