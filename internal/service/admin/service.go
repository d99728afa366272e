// Package admin is the catalog seeding surface: routes with ordered
// stops, buses with seats, trips, users and fare rules. It stands in
// for the external authoring collaborators the booking engine reads
// through the catalog.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type Service struct {
	store repository.Store
}

func New(store repository.Store) *Service {
	return &Service{store: store}
}

func (s *Service) CreateRoute(
	ctx context.Context,
	name string,
	stopNames []string,
) (*domain.Route, []domain.Stop, error) {
	const op = "service.admin.CreateRoute"

	rt, stops, err := s.store.Admin().CreateRoute(ctx, name, stopNames)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, nil, fmt.Errorf("%s:%w", op, ErrConflict)
		}

		return nil, nil, fmt.Errorf("%s:%w", op, err)
	}

	return rt, stops, nil
}

func (s *Service) CreateBus(
	ctx context.Context,
	plate string,
	seatNumbers []string,
) (*domain.Bus, error) {
	const op = "service.admin.CreateBus"

	b, err := s.store.Admin().CreateBus(ctx, plate, seatNumbers)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s:%w", op, ErrConflict)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return b, nil
}

func (s *Service) CreateTrip(ctx context.Context, t domain.Trip) (*domain.Trip, error) {
	const op = "service.admin.CreateTrip"

	created, err := s.store.Admin().CreateTrip(ctx, t)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrRouteNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return created, nil
}

func (s *Service) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	const op = "service.admin.CreateUser"

	u, err := s.store.Admin().CreateUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return u, nil
}

func (s *Service) SetFareRule(
	ctx context.Context,
	routeID int64,
	seg domain.Segment,
	priceCents int64,
) error {
	const op = "service.admin.SetFareRule"

	if err := s.store.Admin().SetFareRule(ctx, routeID, seg, priceCents); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrRouteNotFound)
		}

		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
