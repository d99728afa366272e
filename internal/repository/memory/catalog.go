package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type catalogRepo struct {
	s *Store
}

func (r *catalogRepo) GetRoute(_ context.Context, id int64) (*domain.Route, error) {
	const op = "memory.catalogRepo.GetRoute"

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rt, ok := r.s.routes[id]
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return &rt, nil
}

func (r *catalogRepo) GetTrip(_ context.Context, id int64) (*domain.Trip, error) {
	const op = "memory.catalogRepo.GetTrip"

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.trips[id]
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return &t, nil
}

func (r *catalogRepo) GetStop(_ context.Context, id int64) (*domain.Stop, error) {
	const op = "memory.catalogRepo.GetStop"

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.stops[id]
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return &st, nil
}

func (r *catalogRepo) GetUser(_ context.Context, id int64) (*domain.User, error) {
	const op = "memory.catalogRepo.GetUser"

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return &u, nil
}

func (r *catalogRepo) SeatExists(_ context.Context, busID int64, number string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return slices.Contains(r.s.seatsByBus[busID], number), nil
}

func (r *catalogRepo) SeatNumbers(_ context.Context, busID int64) ([]string, error) {
	const op = "memory.catalogRepo.SeatNumbers"

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.buses[busID]; !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return slices.Clone(r.s.seatsByBus[busID]), nil
}

func (r *catalogRepo) RouteSpan(_ context.Context, routeID int64) (int, int, error) {
	const op = "memory.catalogRepo.RouteSpan"

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.routeSpanLocked(op, routeID)
}

// routeSpanLocked requires s.mu held (read or write).
func (s *Store) routeSpanLocked(op string, routeID int64) (int, int, error) {
	ids := s.stopsByRoute[routeID]
	if len(ids) < 2 {
		return 0, 0, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	lo := s.stops[ids[0]].Ord
	hi := s.stops[ids[len(ids)-1]].Ord

	return lo, hi, nil
}
