package hold_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/memory"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/hold"
)

type fixture struct {
	store *memory.Store
	svc   *hold.Service
	trip  *domain.Trip
	alice *domain.User
	bob   *domain.User
}

func newFixture(t *testing.T, cfg hold.Config) *fixture {
	t.Helper()

	s := memory.NewStore()
	ctx := context.Background()

	route, _, err := s.Admin().CreateRoute(ctx, "Bogotá - Santa Marta", []string{
		"Bogotá", "Bucaramanga", "Aguachica", "Ciénaga", "Santa Marta",
	})
	require.NoError(t, err)

	bus, err := s.Admin().CreateBus(ctx, "WHZ-123", []string{"1A", "1B"})
	require.NoError(t, err)

	trip, err := s.Admin().CreateTrip(ctx, domain.Trip{RouteID: route.ID, BusID: bus.ID})
	require.NoError(t, err)

	alice, err := s.Admin().CreateUser(ctx, "Alice")
	require.NoError(t, err)
	bob, err := s.Admin().CreateUser(ctx, "Bob")
	require.NoError(t, err)

	return &fixture{
		store: s,
		svc:   hold.New(s, nil, nil, nil, nil, cfg),
		trip:  trip,
		alice: alice,
		bob:   bob,
	}
}

func TestCreateValidatesReferences(t *testing.T) {
	f := newFixture(t, hold.Config{})
	ctx := context.Background()

	_, err := f.svc.Create(ctx, 9999, "1A", f.alice.ID, time.Minute, "")
	require.ErrorIs(t, err, hold.ErrTripNotFound)

	_, err = f.svc.Create(ctx, f.trip.ID, "9Z", f.alice.ID, time.Minute, "")
	require.ErrorIs(t, err, hold.ErrSeatNotFound)

	_, err = f.svc.Create(ctx, f.trip.ID, "1A", 9999, time.Minute, "")
	require.ErrorIs(t, err, hold.ErrUserNotFound)
}

func TestCreateExclusivePerSeat(t *testing.T) {
	f := newFixture(t, hold.Config{})
	ctx := context.Background()

	h, err := f.svc.Create(ctx, f.trip.ID, "1A", f.alice.ID, time.Minute, "")
	require.NoError(t, err)
	assert.Equal(t, domain.HoldActive, h.Status)

	_, err = f.svc.Create(ctx, f.trip.ID, "1A", f.bob.ID, time.Minute, "")
	require.ErrorIs(t, err, hold.ErrSeatHeld)

	// another seat on the same trip is free
	_, err = f.svc.Create(ctx, f.trip.ID, "1B", f.bob.ID, time.Minute, "")
	require.NoError(t, err)
}

func TestCreateClampsTTL(t *testing.T) {
	f := newFixture(t, hold.Config{MinTTL: 15 * time.Second, MaxTTL: 15 * time.Minute})
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return base })

	short, err := f.svc.Create(ctx, f.trip.ID, "1A", f.alice.ID, time.Second, "")
	require.NoError(t, err)
	assert.Equal(t, base.Add(15*time.Second), short.ExpiresAt)

	long, err := f.svc.Create(ctx, f.trip.ID, "1B", f.alice.ID, 24*time.Hour, "")
	require.NoError(t, err)
	assert.Equal(t, base.Add(15*time.Minute), long.ExpiresAt)
}

func TestCreateAfterExpiry(t *testing.T) {
	f := newFixture(t, hold.Config{})
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return base })

	_, err := f.svc.Create(ctx, f.trip.ID, "1A", f.alice.ID, 30*time.Second, "")
	require.NoError(t, err)

	f.store.SetClock(func() time.Time { return base.Add(time.Minute) })

	h, err := f.svc.Create(ctx, f.trip.ID, "1A", f.bob.ID, time.Minute, "")
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, h.UserID)
}

func TestExpireRejectsNonActive(t *testing.T) {
	f := newFixture(t, hold.Config{})
	ctx := context.Background()

	h, err := f.svc.Create(ctx, f.trip.ID, "1A", f.alice.ID, time.Minute, "")
	require.NoError(t, err)

	released, err := f.svc.Expire(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldExpired, released.Status)

	_, err = f.svc.Expire(ctx, h.ID)
	require.ErrorIs(t, err, hold.ErrNotHoldStatus)

	_, err = f.svc.Expire(ctx, uuid.New())
	require.ErrorIs(t, err, hold.ErrHoldNotFound)
}

func TestSweepIsIdempotent(t *testing.T) {
	f := newFixture(t, hold.Config{})
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return base })

	_, err := f.svc.Create(ctx, f.trip.ID, "1A", f.alice.ID, 30*time.Second, "")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.trip.ID, "1B", f.bob.ID, time.Hour, "")
	require.NoError(t, err)

	cutoff := base.Add(time.Minute)

	n, err := f.svc.Sweep(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.svc.Sweep(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, n)

	// the long hold survived
	_, err = f.svc.FindActive(ctx, f.trip.ID, "1B")
	require.NoError(t, err)

	_, err = f.svc.FindActive(ctx, f.trip.ID, "1A")
	require.ErrorIs(t, err, hold.ErrHoldNotFound)
}

func TestCreateRejectedWhenSeatFullySold(t *testing.T) {
	f := newFixture(t, hold.Config{})
	ctx := context.Background()

	for _, seg := range []domain.Segment{{From: 1, To: 3}, {From: 3, To: 5}} {
		_, err := f.store.Tickets().Commit(ctx, repository.NewTicket{
			TripID:      f.trip.ID,
			SeatNumber:  "1A",
			Segment:     seg,
			PassengerID: f.alice.ID,
			PriceCents:  10000,
		})
		require.NoError(t, err)
	}

	_, err := f.svc.Create(ctx, f.trip.ID, "1A", f.bob.ID, time.Minute, "")
	require.ErrorIs(t, err, hold.ErrSeatSold)
}
