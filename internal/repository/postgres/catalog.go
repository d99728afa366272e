package postgres

import (
	"context"
	"fmt"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type CatalogRepo struct {
	s *Store
}

func (r *CatalogRepo) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	const op = "postgres.CatalogRepo.GetRoute"

	db := r.s.handle(ctx)

	var rt domain.Route
	err := db.QueryRow(ctx,
		`SELECT id, name FROM routes WHERE id = $1`,
		id,
	).Scan(&rt.ID, &rt.Name)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &rt, nil
}

func (r *CatalogRepo) GetTrip(ctx context.Context, id int64) (*domain.Trip, error) {
	const op = "postgres.CatalogRepo.GetTrip"

	db := r.s.handle(ctx)

	var t domain.Trip
	var status string
	err := db.QueryRow(ctx,
		`SELECT id, route_id, bus_id, service_date, departs_at, arrives_at, status
       	 FROM trips WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.RouteID, &t.BusID, &t.ServiceDate, &t.DepartsAt, &t.ArrivesAt, &status)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	t.Status = domain.TripStatus(status)

	return &t, nil
}

func (r *CatalogRepo) GetStop(ctx context.Context, id int64) (*domain.Stop, error) {
	const op = "postgres.CatalogRepo.GetStop"

	db := r.s.handle(ctx)

	var st domain.Stop
	err := db.QueryRow(ctx,
		`SELECT id, route_id, ord, name FROM stops WHERE id = $1`,
		id,
	).Scan(&st.ID, &st.RouteID, &st.Ord, &st.Name)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &st, nil
}

func (r *CatalogRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	const op = "postgres.CatalogRepo.GetUser"

	db := r.s.handle(ctx)

	var u domain.User
	err := db.QueryRow(ctx,
		`SELECT id, name FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &u, nil
}

func (r *CatalogRepo) SeatExists(ctx context.Context, busID int64, number string) (bool, error) {
	const op = "postgres.CatalogRepo.SeatExists"

	db := r.s.handle(ctx)

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM seats WHERE bus_id = $1 AND number = $2)`,
		busID, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return exists, nil
}

func (r *CatalogRepo) SeatNumbers(ctx context.Context, busID int64) ([]string, error) {
	const op = "postgres.CatalogRepo.SeatNumbers"

	db := r.s.handle(ctx)

	rows, err := db.Query(ctx,
		`SELECT number FROM seats WHERE bus_id = $1 ORDER BY number`,
		busID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *CatalogRepo) RouteSpan(ctx context.Context, routeID int64) (int, int, error) {
	const op = "postgres.CatalogRepo.RouteSpan"

	db := r.s.handle(ctx)

	var lo, hi *int
	err := db.QueryRow(ctx,
		`SELECT MIN(ord), MAX(ord) FROM stops WHERE route_id = $1`,
		routeID,
	).Scan(&lo, &hi)
	if err != nil {
		return 0, 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if lo == nil || hi == nil || *lo == *hi {
		return 0, 0, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return *lo, *hi, nil
}
