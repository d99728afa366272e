// Package repository defines the storage contracts the services are built
// against. Two implementations exist: postgres (pgx) and memory.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
)

// NewTicket carries everything needed to commit a ticket. The commit
// itself is atomic per (TripID, SeatNumber): the sold-overlap check, the
// hold re-evaluation and the insert happen inside one exclusion scope.
type NewTicket struct {
	TripID      int64
	SeatNumber  string
	Segment     domain.Segment
	PassengerID int64
	PriceCents  int64
}

// Catalog reads the reference data the booking engine needs: trips,
// stops, seats and users. Reference data is read-only from the engine's
// perspective; writes happen through the admin seeding surface.
type Catalog interface {
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	GetTrip(ctx context.Context, id int64) (*domain.Trip, error)
	GetStop(ctx context.Context, id int64) (*domain.Stop, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	SeatExists(ctx context.Context, busID int64, number string) (bool, error)
	SeatNumbers(ctx context.Context, busID int64) ([]string, error)
	// RouteSpan returns the lowest and highest stop order of the route.
	RouteSpan(ctx context.Context, routeID int64) (lo, hi int, err error)
}

// CatalogAdmin is the seeding surface standing in for the external
// route/bus/trip/user authoring collaborators.
type CatalogAdmin interface {
	CreateRoute(ctx context.Context, name string, stopNames []string) (*domain.Route, []domain.Stop, error)
	CreateBus(ctx context.Context, plate string, seatNumbers []string) (*domain.Bus, error)
	CreateTrip(ctx context.Context, t domain.Trip) (*domain.Trip, error)
	CreateUser(ctx context.Context, name string) (*domain.User, error)
	SetFareRule(ctx context.Context, routeID int64, seg domain.Segment, priceCents int64) error
}

// Tickets owns the per-seat sold-segment sets, the only mutable shared
// state the engine synchronizes on.
type Tickets interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	// SoldSegments lists segments of SOLD tickets for the seat on the trip.
	SoldSegments(ctx context.Context, tripID int64, seatNumber string) ([]domain.Segment, error)
	// HasSoldOverlap reports whether any SOLD ticket on the seat overlaps seg.
	HasSoldOverlap(ctx context.Context, tripID int64, seatNumber string, seg domain.Segment) (bool, error)
	// Commit inserts the ticket under the seat's exclusion scope. Inside
	// that scope it re-checks sold overlap (ErrSegmentConflict), evaluates
	// any hold on the seat (foreign and unexpired: ErrSeatHeld; own or
	// expired: retired on success) and builds the QR payload.
	Commit(ctx context.Context, nt NewTicket) (*domain.Ticket, error)
	// Cancel flips a SOLD ticket to CANCELLED, freeing its segment.
	// ErrNotSold when the ticket is already cancelled.
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
}

// Holds owns the time-boxed seat claims.
type Holds interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.SeatHold, error)
	// Create inserts an active hold. ErrSeatHeld when another user's
	// unexpired hold claims the seat; ErrSeatSold when SOLD tickets
	// already cover every hop of the route on that seat.
	Create(ctx context.Context, tripID int64, seatNumber string, userID int64, ttl time.Duration) (*domain.SeatHold, error)
	// Expire transitions HOLD -> EXPIRED. ErrNotHoldStatus when the hold
	// is not currently active; re-expiring is a caller error, not a no-op.
	Expire(ctx context.Context, id uuid.UUID) (*domain.SeatHold, error)
	// SweepExpired expires every active hold with ExpiresAt <= now and
	// returns the holds it transitioned. Idempotent for a fixed now.
	SweepExpired(ctx context.Context, now time.Time) ([]domain.SeatHold, error)
	// FindActive returns the unexpired hold on the seat, or ErrNotFound.
	FindActive(ctx context.Context, tripID int64, seatNumber string) (*domain.SeatHold, error)
}

// FareRules is the read-only fare-rule provider consumed by the fare
// calculator. ok is false when no rule covers the segment.
type FareRules interface {
	BasePriceFor(ctx context.Context, routeID int64, seg domain.Segment) (priceCents int64, ok bool, err error)
}

// Store bundles the repositories over one backend. RunTx runs fn inside
// the backend's transactional scope; repositories called with the ctx it
// passes join that scope. The memory backend's operations are atomic on
// their own, so its RunTx just runs fn.
type Store interface {
	RunTx(ctx context.Context, fn func(ctx context.Context) error) error
	Catalog() Catalog
	Admin() CatalogAdmin
	Tickets() Tickets
	Holds() Holds
	Fares() FareRules
}
