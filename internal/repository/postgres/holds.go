package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type HoldRepo struct {
	s *Store
}

func (r *HoldRepo) Get(ctx context.Context, id uuid.UUID) (*domain.SeatHold, error) {
	const op = "postgres.HoldRepo.Get"

	db := r.s.handle(ctx)

	h, err := scanHold(db.QueryRow(ctx,
		`SELECT id, trip_id, seat_number, user_id, expires_at, status
       	 FROM seat_holds WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return h, nil
}

func (r *HoldRepo) Create(
	ctx context.Context,
	tripID int64,
	seatNumber string,
	userID int64,
	ttl time.Duration,
) (*domain.SeatHold, error) {
	const op = "postgres.HoldRepo.Create"

	var out *domain.SeatHold

	err := r.s.runOwnTx(ctx, func(ctx context.Context, db DB) error {
		h, err := r.createCore(ctx, db, tripID, seatNumber, userID, ttl)
		if err != nil {
			return err
		}
		out = h
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

func (r *HoldRepo) createCore(
	ctx context.Context,
	db DB,
	tripID int64,
	seatNumber string,
	userID int64,
	ttl time.Duration,
) (*domain.SeatHold, error) {
	if err := lockSeat(ctx, db, tripID, seatNumber); err != nil {
		return nil, err
	}

	var blocked bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM seat_holds
			WHERE trip_id = $1 AND seat_number = $2 AND status = 'hold'
			  AND expires_at > now() AND user_id <> $3)`,
		tripID, seatNumber, userID,
	).Scan(&blocked); err != nil {
		return nil, err
	}
	if blocked {
		return nil, repository.ErrSeatHeld
	}

	// Remaining HOLD rows are either run out or the same user re-holding.
	if _, err := db.Exec(ctx,
		`UPDATE seat_holds SET status = 'expired'
      	 WHERE trip_id = $1 AND seat_number = $2 AND status = 'hold'`,
		tripID, seatNumber,
	); err != nil {
		return nil, err
	}

	var lo, hi *int
	if err := db.QueryRow(ctx,
		`SELECT MIN(s.ord), MAX(s.ord)
       	 FROM trips t JOIN stops s ON s.route_id = t.route_id
      	 WHERE t.id = $1`,
		tripID,
	).Scan(&lo, &hi); err != nil {
		return nil, err
	}
	if lo == nil || hi == nil {
		return nil, repository.ErrNotFound
	}

	sold, err := (&TicketRepo{s: r.s}).soldSegmentsOn(ctx, db, tripID, seatNumber)
	if err != nil {
		return nil, err
	}

	if seatFullySold(sold, *lo, *hi) {
		return nil, repository.ErrSeatSold
	}

	return scanHold(db.QueryRow(ctx,
		`INSERT INTO seat_holds (id, trip_id, seat_number, user_id, expires_at, status)
       	 VALUES ($1, $2, $3, $4, now() + $5, 'hold')
      	 RETURNING id, trip_id, seat_number, user_id, expires_at, status`,
		uuid.New(), tripID, seatNumber, userID, ttl,
	))
}

func (r *HoldRepo) Expire(ctx context.Context, id uuid.UUID) (*domain.SeatHold, error) {
	const op = "postgres.HoldRepo.Expire"

	var out *domain.SeatHold

	err := r.s.runOwnTx(ctx, func(ctx context.Context, db DB) error {
		h, err := scanHold(db.QueryRow(ctx,
			`UPDATE seat_holds SET status = 'expired'
	      	 WHERE id = $1 AND status = 'hold'
	      	 RETURNING id, trip_id, seat_number, user_id, expires_at, status`,
			id,
		))
		if err == nil {
			out = h
			return nil
		}

		if !errors.Is(translateDBErr(err), repository.ErrNotFound) {
			return err
		}

		var exists bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM seat_holds WHERE id = $1)`,
			id,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return repository.ErrNotHoldStatus
		}

		return repository.ErrNotFound
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

func (r *HoldRepo) SweepExpired(ctx context.Context, now time.Time) ([]domain.SeatHold, error) {
	const op = "postgres.HoldRepo.SweepExpired"

	db := r.s.handle(ctx)

	rows, err := db.Query(ctx,
		`UPDATE seat_holds SET status = 'expired'
      	 WHERE status = 'hold' AND expires_at <= $1
      	 RETURNING id, trip_id, seat_number, user_id, expires_at, status`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.SeatHold
	for rows.Next() {
		var h domain.SeatHold
		var status string
		if err := rows.Scan(&h.ID, &h.TripID, &h.SeatNumber, &h.UserID, &h.ExpiresAt, &status); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		h.Status = domain.HoldStatus(status)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *HoldRepo) FindActive(
	ctx context.Context,
	tripID int64,
	seatNumber string,
) (*domain.SeatHold, error) {
	const op = "postgres.HoldRepo.FindActive"

	db := r.s.handle(ctx)

	h, err := scanHold(db.QueryRow(ctx,
		`SELECT id, trip_id, seat_number, user_id, expires_at, status
       	 FROM seat_holds
      	 WHERE trip_id = $1 AND seat_number = $2 AND status = 'hold'
        	AND expires_at > now()
      	 ORDER BY expires_at DESC
      	 LIMIT 1`,
		tripID, seatNumber,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return h, nil
}

func scanHold(row pgx.Row) (*domain.SeatHold, error) {
	var h domain.SeatHold
	var status string
	if err := row.Scan(
		&h.ID,
		&h.TripID,
		&h.SeatNumber,
		&h.UserID,
		&h.ExpiresAt,
		&status,
	); err != nil {
		return nil, err
	}

	h.Status = domain.HoldStatus(status)

	return &h, nil
}

// seatFullySold reports whether sold segments cover every hop of [lo, hi).
func seatFullySold(sold []domain.Segment, lo, hi int) bool {
	if hi <= lo {
		return false
	}

	for hop := lo; hop < hi; hop++ {
		covered := false
		for _, s := range sold {
			if s.From <= hop && hop < s.To {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}

	return true
}
