package memory

import (
	"context"
	"fmt"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type adminRepo struct {
	s *Store
}

func (r *adminRepo) CreateRoute(
	_ context.Context,
	name string,
	stopNames []string,
) (*domain.Route, []domain.Stop, error) {
	const op = "memory.adminRepo.CreateRoute"

	if len(stopNames) < 2 {
		return nil, nil, fmt.Errorf("%s: route needs at least two stops", op)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rt := domain.Route{ID: r.s.nextIDLocked(), Name: name}
	r.s.routes[rt.ID] = rt

	stops := make([]domain.Stop, 0, len(stopNames))
	for i, sn := range stopNames {
		st := domain.Stop{
			ID:      r.s.nextIDLocked(),
			RouteID: rt.ID,
			Ord:     i + 1,
			Name:    sn,
		}
		r.s.stops[st.ID] = st
		r.s.stopsByRoute[rt.ID] = append(r.s.stopsByRoute[rt.ID], st.ID)
		stops = append(stops, st)
	}

	return &rt, stops, nil
}

func (r *adminRepo) CreateBus(
	_ context.Context,
	plate string,
	seatNumbers []string,
) (*domain.Bus, error) {
	const op = "memory.adminRepo.CreateBus"

	if len(seatNumbers) == 0 {
		return nil, fmt.Errorf("%s: bus needs at least one seat", op)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b := domain.Bus{
		ID:       r.s.nextIDLocked(),
		Plate:    plate,
		Capacity: len(seatNumbers),
	}
	r.s.buses[b.ID] = b
	r.s.seatsByBus[b.ID] = append([]string(nil), seatNumbers...)

	return &b, nil
}

func (r *adminRepo) CreateTrip(_ context.Context, t domain.Trip) (*domain.Trip, error) {
	const op = "memory.adminRepo.CreateTrip"

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.routes[t.RouteID]; !ok {
		return nil, fmt.Errorf("%s: route: %w", op, repository.ErrNotFound)
	}

	if _, ok := r.s.buses[t.BusID]; !ok {
		return nil, fmt.Errorf("%s: bus: %w", op, repository.ErrNotFound)
	}

	t.ID = r.s.nextIDLocked()
	if t.Status == "" {
		t.Status = domain.TripScheduled
	}
	r.s.trips[t.ID] = t

	return &t, nil
}

func (r *adminRepo) CreateUser(_ context.Context, name string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := domain.User{ID: r.s.nextIDLocked(), Name: name}
	r.s.users[u.ID] = u

	return &u, nil
}

func (r *adminRepo) SetFareRule(
	_ context.Context,
	routeID int64,
	seg domain.Segment,
	priceCents int64,
) error {
	const op = "memory.adminRepo.SetFareRule"

	if !seg.Valid() {
		return fmt.Errorf("%s: invalid segment %s", op, seg)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.routes[routeID]; !ok {
		return fmt.Errorf("%s: route: %w", op, repository.ErrNotFound)
	}

	r.s.fares[fareKey{routeID: routeID, from: seg.From, to: seg.To}] = priceCents

	return nil
}

type fareRepo struct {
	s *Store
}

func (r *fareRepo) BasePriceFor(
	_ context.Context,
	routeID int64,
	seg domain.Segment,
) (int64, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	price, ok := r.s.fares[fareKey{routeID: routeID, from: seg.From, to: seg.To}]

	return price, ok, nil
}
