// Package query serves the read side: trip lookups and per-seat
// availability views, cached when a cache is wired.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	redisx "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
	redisrepo "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/redis"
)

type Config struct {
	AvailabilityTTL time.Duration
}

type Service struct {
	store repository.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store repository.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	return &Service{store: store, cache: cache, cfg: cfg}
}

func (s *Service) GetTrip(ctx context.Context, tripID int64) (*domain.Trip, error) {
	const op = "service.query.GetTrip"

	t, err := s.store.Catalog().GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTripNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return t, nil
}

func (s *Service) GetHold(ctx context.Context, holdID uuid.UUID) (*domain.SeatHold, error) {
	const op = "service.query.GetHold"

	h, err := s.store.Holds().Get(ctx, holdID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrHoldNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return h, nil
}

// Availability returns one entry per seat on the trip's bus: the sold
// segments plus whether an unexpired hold claims the seat.
func (s *Service) Availability(ctx context.Context, tripID int64) ([]domain.SeatAvailability, error) {
	const op = "service.query.Availability"

	if s.cache == nil {
		return s.loadAvailability(ctx, tripID)
	}

	out, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyTripAvailability(tripID),
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) ([]domain.SeatAvailability, error) {
			return s.loadAvailability(ctx, tripID)
		},
	)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) loadAvailability(ctx context.Context, tripID int64) ([]domain.SeatAvailability, error) {
	const op = "service.query.loadAvailability"

	trip, err := s.store.Catalog().GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTripNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	seats, err := s.store.Catalog().SeatNumbers(ctx, trip.BusID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out := make([]domain.SeatAvailability, 0, len(seats))
	for _, n := range seats {
		sold, err := s.store.Tickets().SoldSegments(ctx, tripID, n)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		held := false
		if _, err := s.store.Holds().FindActive(ctx, tripID, n); err == nil {
			held = true
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		out = append(out, domain.SeatAvailability{
			SeatNumber: n,
			Sold:       sold,
			Held:       held,
		})
	}

	return out, nil
}
