package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type TicketRepo struct {
	s *Store
}

func (r *TicketRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.Get"

	db := r.s.handle(ctx)

	t, err := scanTicket(db.QueryRow(ctx,
		`SELECT id, trip_id, seat_number, seg_from, seg_to, passenger_id,
				price_cents, status, qr_code, created_at
       	 FROM tickets WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return t, nil
}

func (r *TicketRepo) SoldSegments(
	ctx context.Context,
	tripID int64,
	seatNumber string,
) ([]domain.Segment, error) {
	const op = "postgres.TicketRepo.SoldSegments"

	db := r.s.handle(ctx)

	rows, err := db.Query(ctx,
		`SELECT seg_from, seg_to
       	 FROM tickets
      	 WHERE trip_id = $1 AND seat_number = $2 AND status = 'sold'
      	 ORDER BY seg_from`,
		tripID, seatNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Segment
	for rows.Next() {
		var seg domain.Segment
		if err := rows.Scan(&seg.From, &seg.To); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *TicketRepo) HasSoldOverlap(
	ctx context.Context,
	tripID int64,
	seatNumber string,
	seg domain.Segment,
) (bool, error) {
	const op = "postgres.TicketRepo.HasSoldOverlap"

	db := r.s.handle(ctx)

	var conflict bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM tickets
			WHERE trip_id = $1 AND seat_number = $2 AND status = 'sold'
			  AND seg_from < $4 AND $3 < seg_to)`,
		tripID, seatNumber, seg.From, seg.To,
	).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return conflict, nil
}

// Commit inserts the ticket inside a serializable transaction holding the
// seat's advisory lock, so two overlapping purchases for the same
// (trip, seat) serialize and the loser sees the winner's row.
func (r *TicketRepo) Commit(ctx context.Context, nt repository.NewTicket) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.Commit"

	var out *domain.Ticket

	err := r.s.runOwnTx(ctx, func(ctx context.Context, db DB) error {
		t, err := r.commitCore(ctx, db, nt)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

func (r *TicketRepo) commitCore(
	ctx context.Context,
	db DB,
	nt repository.NewTicket,
) (*domain.Ticket, error) {
	if err := lockSeat(ctx, db, nt.TripID, nt.SeatNumber); err != nil {
		return nil, err
	}

	var conflict bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM tickets
			WHERE trip_id = $1 AND seat_number = $2 AND status = 'sold'
			  AND seg_from < $4 AND $3 < seg_to)`,
		nt.TripID, nt.SeatNumber, nt.Segment.From, nt.Segment.To,
	).Scan(&conflict); err != nil {
		return nil, err
	}
	if conflict {
		return nil, repository.ErrSegmentConflict
	}

	var blocked bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM seat_holds
			WHERE trip_id = $1 AND seat_number = $2 AND status = 'hold'
			  AND expires_at > now() AND user_id <> $3)`,
		nt.TripID, nt.SeatNumber, nt.PassengerID,
	).Scan(&blocked); err != nil {
		return nil, err
	}
	if blocked {
		return nil, repository.ErrSeatHeld
	}

	id := uuid.New()
	qr := domain.TicketQR(id, nt.TripID, nt.SeatNumber, nt.Segment)

	t, err := scanTicket(db.QueryRow(ctx,
		`INSERT INTO tickets
			(id, trip_id, seat_number, seg_from, seg_to, passenger_id,
			 price_cents, status, qr_code)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, 'sold', $8)
      	 RETURNING id, trip_id, seat_number, seg_from, seg_to, passenger_id,
				   price_cents, status, qr_code, created_at`,
		id, nt.TripID, nt.SeatNumber, nt.Segment.From, nt.Segment.To,
		nt.PassengerID, nt.PriceCents, qr,
	))
	if err != nil {
		return nil, err
	}

	// Retire whatever hold remains on the seat: either the buyer's own or
	// one that already ran out.
	if _, err := db.Exec(ctx,
		`UPDATE seat_holds SET status = 'expired'
      	 WHERE trip_id = $1 AND seat_number = $2 AND status = 'hold'`,
		nt.TripID, nt.SeatNumber,
	); err != nil {
		return nil, err
	}

	return t, nil
}

func (r *TicketRepo) Cancel(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.Cancel"

	var out *domain.Ticket

	err := r.s.runOwnTx(ctx, func(ctx context.Context, db DB) error {
		t, err := scanTicket(db.QueryRow(ctx,
			`UPDATE tickets SET status = 'cancelled'
	      	 WHERE id = $1 AND status = 'sold'
	      	 RETURNING id, trip_id, seat_number, seg_from, seg_to, passenger_id,
					   price_cents, status, qr_code, created_at`,
			id,
		))
		if err == nil {
			out = t
			return nil
		}

		if !errors.Is(translateDBErr(err), repository.ErrNotFound) {
			return err
		}

		var exists bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM tickets WHERE id = $1)`,
			id,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return repository.ErrNotSold
		}

		return repository.ErrNotFound
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return out, nil
}

func (r *TicketRepo) soldSegmentsOn(
	ctx context.Context,
	db DB,
	tripID int64,
	seatNumber string,
) ([]domain.Segment, error) {
	rows, err := db.Query(ctx,
		`SELECT seg_from, seg_to
       	 FROM tickets
      	 WHERE trip_id = $1 AND seat_number = $2 AND status = 'sold'`,
		tripID, seatNumber,
	)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var out []domain.Segment
	for rows.Next() {
		var seg domain.Segment
		if err := rows.Scan(&seg.From, &seg.To); err != nil {
			return nil, err
		}
		out = append(out, seg)
	}

	return out, rows.Err()
}

// lockSeat takes the transaction-scoped advisory lock for one
// (trip, seat). Both the booking commit and hold mutation paths take it,
// which is what makes them one exclusion scope.
func lockSeat(ctx context.Context, db DB, tripID int64, seatNumber string) error {
	key := fmt.Sprintf("%d:%s", tripID, seatNumber)
	_, err := db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key)
	return err
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var status string
	if err := row.Scan(
		&t.ID,
		&t.TripID,
		&t.SeatNumber,
		&t.Segment.From,
		&t.Segment.To,
		&t.PassengerID,
		&t.PriceCents,
		&status,
		&t.QRCode,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}

	t.Status = domain.TicketStatus(status)

	return &t, nil
}
