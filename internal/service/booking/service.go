// Package booking orchestrates a booking attempt: validate the
// references, resolve the segment, check conflicts, price, and commit
// the ticket under the seat's exclusion scope.
package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/notify"
	redisx "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
	redisrepo "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/fare"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/routes"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/uow"
)

type Service struct {
	store    repository.Store
	resolver *routes.Resolver
	fare     fare.Calculator
	cache    *redisrepo.Cache
	pubsub   *redisx.TripsPubSub
	notifier notify.Notifier
	uow      *uow.UoW
}

func New(
	store repository.Store,
	resolver *routes.Resolver,
	calc fare.Calculator,
	cache *redisrepo.Cache,
	pubsub *redisx.TripsPubSub,
	notifier notify.Notifier,
) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}

	return &Service{
		store:    store,
		resolver: resolver,
		fare:     calc,
		cache:    cache,
		pubsub:   pubsub,
		notifier: notifier,
		uow:      uow.NewUoW(store),
	}
}

// BookSegment runs one booking attempt end to end.
//
// Parameters:
//   - tripID, seatNumber: the seat being bought.
//   - userID: the passenger buying it.
//   - fromStopID, toStopID: boarding and alighting stops.
//
// Returns:
//   - *domain.Ticket: the committed ticket.
//   - error: booking.ErrTripNotFound, booking.ErrPassengerNotFound,
//     booking.ErrSeatNotFound on missing references.
//   - error: routes.ErrStopNotFound, routes.ErrStopRouteMismatch,
//     routes.ErrInvalidSegmentOrder on bad stop input.
//   - error: booking.ErrSegmentConflict if a sold ticket overlaps.
//   - error: booking.ErrSeatHeldByOther if another user's unexpired
//     hold claims the seat.
//
// A retry after success re-detects the committed segment and fails
// ErrSegmentConflict: bookings are not idempotent.
func (s *Service) BookSegment(
	ctx context.Context,
	tripID int64,
	seatNumber string,
	userID int64,
	fromStopID, toStopID int64,
) (*domain.Ticket, error) {
	const op = "service.booking.BookSegment"

	trip, err := s.store.Catalog().GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTripNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if _, err := s.store.Catalog().GetUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrPassengerNotFound)
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

	seg, err := s.resolver.ValidateSegment(ctx, trip.RouteID, fromStopID, toStopID)
	if err != nil {
		return nil, err
	}

	// Advisory fast-fails; the commit re-checks both under the seat's
	// exclusion scope.
	conflict, err := s.store.Tickets().HasSoldOverlap(ctx, tripID, seatNumber, seg)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if conflict {
		return nil, fmt.Errorf("%s:%w", op, ErrSegmentConflict)
	}

	if h, err := s.store.Holds().FindActive(ctx, tripID, seatNumber); err == nil {
		if h.UserID != userID {
			return nil, fmt.Errorf("%s:%w", op, ErrSeatHeldByOther)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	price, err := s.fare.Price(ctx, trip.RouteID, seg)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var ticket *domain.Ticket

	err = s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		t, err := s.store.Tickets().Commit(ctx, repository.NewTicket{
			TripID:      tripID,
			SeatNumber:  seatNumber,
			Segment:     seg,
			PassengerID: userID,
			PriceCents:  price,
		})
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrSegmentConflict):
				return fmt.Errorf("%s:%w", op, ErrSegmentConflict)
			case errors.Is(err, repository.ErrSeatHeld):
				return fmt.Errorf("%s:%w", op, ErrSeatHeldByOther)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		ticket = t

		after(func(ctx context.Context) {
			s.invalidate(ctx, tripID)
			s.notifier.NotifyBooked(ctx, t)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ticket, nil
}

// Cancel flips a sold ticket to cancelled, freeing its segment for
// re-booking.
//
// Returns:
//   - error: booking.ErrTicketNotFound if the ticket does not exist.
//   - error: booking.ErrNotSold if it is already cancelled.
func (s *Service) Cancel(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	const op = "service.booking.Cancel"

	var cancelled *domain.Ticket

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		t, err := s.store.Tickets().Cancel(ctx, ticketID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("%s:%w", op, ErrTicketNotFound)
			case errors.Is(err, repository.ErrNotSold):
				return fmt.Errorf("%s:%w", op, ErrNotSold)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		cancelled = t

		after(func(ctx context.Context) {
			s.invalidate(ctx, t.TripID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

func (s *Service) GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	const op = "service.booking.GetTicket"

	t, err := s.store.Tickets().Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTicketNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return t, nil
}

func (s *Service) invalidate(ctx context.Context, tripID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateTrip(ctx, tripID)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishTripChanged(ctx, tripID)
	}
}
