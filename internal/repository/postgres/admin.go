package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type AdminRepo struct {
	s *Store
}

func (r *AdminRepo) CreateRoute(
	ctx context.Context,
	name string,
	stopNames []string,
) (*domain.Route, []domain.Stop, error) {
	const op = "postgres.AdminRepo.CreateRoute"

	if len(stopNames) < 2 {
		return nil, nil, fmt.Errorf("%s: route needs at least two stops", op)
	}

	var rt domain.Route
	var stops []domain.Stop

	err := r.s.runOwnTx(ctx, func(ctx context.Context, db DB) error {
		if err := db.QueryRow(ctx,
			`INSERT INTO routes (name) VALUES ($1) RETURNING id, name`,
			name,
		).Scan(&rt.ID, &rt.Name); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for i, sn := range stopNames {
			batch.Queue(
				`INSERT INTO stops (route_id, ord, name)
			 	 VALUES ($1, $2, $3)
			 	 RETURNING id`,
				rt.ID, i+1, sn,
			)
		}

		br := db.SendBatch(ctx, batch)
		defer br.Close()

		for i, sn := range stopNames {
			var id int64
			if err := br.QueryRow().Scan(&id); err != nil {
				return err
			}
			stops = append(stops, domain.Stop{
				ID:      id,
				RouteID: rt.ID,
				Ord:     i + 1,
				Name:    sn,
			})
		}

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &rt, stops, nil
}

func (r *AdminRepo) CreateBus(
	ctx context.Context,
	plate string,
	seatNumbers []string,
) (*domain.Bus, error) {
	const op = "postgres.AdminRepo.CreateBus"

	if len(seatNumbers) == 0 {
		return nil, fmt.Errorf("%s: bus needs at least one seat", op)
	}

	var b domain.Bus

	err := r.s.runOwnTx(ctx, func(ctx context.Context, db DB) error {
		if err := db.QueryRow(ctx,
			`INSERT INTO buses (plate, capacity)
		 	 VALUES ($1, $2)
		 	 RETURNING id, plate, capacity`,
			plate, len(seatNumbers),
		).Scan(&b.ID, &b.Plate, &b.Capacity); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, n := range seatNumbers {
			batch.Queue(
				`INSERT INTO seats (bus_id, number) VALUES ($1, $2)`,
				b.ID, n,
			)
		}

		return db.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &b, nil
}

func (r *AdminRepo) CreateTrip(ctx context.Context, t domain.Trip) (*domain.Trip, error) {
	const op = "postgres.AdminRepo.CreateTrip"

	db := r.s.handle(ctx)

	if t.Status == "" {
		t.Status = domain.TripScheduled
	}

	var status string
	err := db.QueryRow(ctx,
		`INSERT INTO trips (route_id, bus_id, service_date, departs_at, arrives_at, status)
       	 VALUES ($1, $2, $3, $4, $5, $6)
      	 RETURNING id, status`,
		t.RouteID, t.BusID, t.ServiceDate, t.DepartsAt, t.ArrivesAt, string(t.Status),
	).Scan(&t.ID, &status)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	t.Status = domain.TripStatus(status)

	return &t, nil
}

func (r *AdminRepo) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	const op = "postgres.AdminRepo.CreateUser"

	db := r.s.handle(ctx)

	var u domain.User
	err := db.QueryRow(ctx,
		`INSERT INTO users (name) VALUES ($1) RETURNING id, name`,
		name,
	).Scan(&u.ID, &u.Name)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &u, nil
}

func (r *AdminRepo) SetFareRule(
	ctx context.Context,
	routeID int64,
	seg domain.Segment,
	priceCents int64,
) error {
	const op = "postgres.AdminRepo.SetFareRule"

	if !seg.Valid() {
		return fmt.Errorf("%s: invalid segment %s", op, seg)
	}

	db := r.s.handle(ctx)

	_, err := db.Exec(ctx,
		`INSERT INTO fare_rules (route_id, seg_from, seg_to, price_cents)
       	 VALUES ($1, $2, $3, $4)
      	 ON CONFLICT (route_id, seg_from, seg_to)
      	 DO UPDATE SET price_cents = EXCLUDED.price_cents`,
		routeID, seg.From, seg.To, priceCents,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

type FareRepo struct {
	s *Store
}

func (r *FareRepo) BasePriceFor(
	ctx context.Context,
	routeID int64,
	seg domain.Segment,
) (int64, bool, error) {
	const op = "postgres.FareRepo.BasePriceFor"

	db := r.s.handle(ctx)

	var price int64
	err := db.QueryRow(ctx,
		`SELECT price_cents FROM fare_rules
      	 WHERE route_id = $1 AND seg_from = $2 AND seg_to = $3`,
		routeID, seg.From, seg.To,
	).Scan(&price)
	if err != nil {
		if errors.Is(translateDBErr(err), repository.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return price, true, nil
}
