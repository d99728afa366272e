// Package hold manages time-boxed seat claims: creation, explicit
// release and the periodic sweep that reclaims abandoned checkouts.
package hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/notify"
	redisx "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
	redisrepo "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/uow"
)

type Config struct {
	MinTTL time.Duration
	MaxTTL time.Duration
}

type Service struct {
	store    repository.Store
	cache    *redisrepo.Cache
	pubsub   *redisx.TripsPubSub
	limiter  *redisrepo.SlidingWindowLimiter
	notifier notify.Notifier
	uow      *uow.UoW
	cfg      Config
}

func New(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.TripsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	notifier notify.Notifier,
	cfg Config,
) *Service {
	if cfg.MinTTL <= 0 {
		cfg.MinTTL = 15 * time.Second
	}

	if cfg.MaxTTL <= 0 || cfg.MaxTTL < cfg.MinTTL {
		cfg.MaxTTL = 15 * time.Minute
	}

	if notifier == nil {
		notifier = notify.Noop{}
	}

	return &Service{
		store:    store,
		cache:    cache,
		pubsub:   pubsub,
		limiter:  limiter,
		notifier: notifier,
		uow:      uow.NewUoW(store),
		cfg:      cfg,
	}
}

// Create places a hold on the seat for the user.
//
// Returns:
//   - *domain.SeatHold: the created hold.
//   - error: hold.ErrTripNotFound, hold.ErrSeatNotFound,
//     hold.ErrUserNotFound on missing references.
//   - error: hold.ErrSeatHeld if another user's unexpired hold claims
//     the seat.
//   - error: hold.ErrSeatSold if sold tickets already cover the whole
//     route on that seat.
func (s *Service) Create(
	ctx context.Context,
	tripID int64,
	seatNumber string,
	userID int64,
	ttl time.Duration,
	rlKey string,
) (*domain.SeatHold, error) {
	const op = "service.hold.Create"

	ttl = s.clampTTL(ttl)

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: rate limited, retry in %s", op, retry)
		}
	}

	trip, err := s.store.Catalog().GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTripNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if _, err := s.store.Catalog().GetUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	exists, err := s.store.Catalog().SeatExists(ctx, trip.BusID, seatNumber)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s:%w", op, ErrSeatNotFound)
	}

	var created *domain.SeatHold

	err = s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		h, err := s.store.Holds().Create(ctx, tripID, seatNumber, userID, ttl)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrSeatHeld):
				return fmt.Errorf("%s:%w", op, ErrSeatHeld)
			case errors.Is(err, repository.ErrSeatSold):
				return fmt.Errorf("%s:%w", op, ErrSeatSold)
			case errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("%s:%w", op, ErrTripNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		created = h

		after(func(ctx context.Context) {
			s.invalidate(ctx, tripID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Expire releases a specific hold.
//
// Returns:
//   - error: hold.ErrHoldNotFound if the hold does not exist.
//   - error: hold.ErrNotHoldStatus if it is not currently active;
//     re-expiring is a caller error, not a silent no-op.
func (s *Service) Expire(ctx context.Context, holdID uuid.UUID) (*domain.SeatHold, error) {
	const op = "service.hold.Expire"

	var expired *domain.SeatHold

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		h, err := s.store.Holds().Expire(ctx, holdID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("%s:%w", op, ErrHoldNotFound)
			case errors.Is(err, repository.ErrNotHoldStatus):
				return fmt.Errorf("%s:%w", op, ErrNotHoldStatus)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		expired = h

		after(func(ctx context.Context) {
			s.invalidate(ctx, h.TripID)
			s.notifier.NotifyHoldExpired(ctx, h)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return expired, nil
}

// Sweep expires every hold whose TTL has passed at now. Running it twice
// with the same now expires each hold exactly once; the second run
// reports zero.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int64, error) {
	const op = "service.hold.Sweep"

	swept, err := s.store.Holds().SweepExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	for i := range swept {
		h := swept[i]
		s.invalidate(ctx, h.TripID)
		s.notifier.NotifyHoldExpired(ctx, &h)
	}

	return int64(len(swept)), nil
}

// FindActive returns the unexpired hold on the seat, or
// hold.ErrHoldNotFound.
func (s *Service) FindActive(
	ctx context.Context,
	tripID int64,
	seatNumber string,
) (*domain.SeatHold, error) {
	const op = "service.hold.FindActive"

	h, err := s.store.Holds().FindActive(ctx, tripID, seatNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrHoldNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return h, nil
}

func (s *Service) invalidate(ctx context.Context, tripID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateTrip(ctx, tripID)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishTripChanged(ctx, tripID)
	}
}

func (s *Service) clampTTL(ttl time.Duration) time.Duration {
	if ttl < s.cfg.MinTTL {
		return s.cfg.MinTTL
	}

	if ttl > s.cfg.MaxTTL {
		return s.cfg.MaxTTL
	}

	return ttl
}
