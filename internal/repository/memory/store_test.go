package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type fixture struct {
	store *Store
	trip  *domain.Trip
	stops []domain.Stop
	alice *domain.User
	bob   *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := NewStore()
	ctx := context.Background()

	route, stops, err := s.Admin().CreateRoute(ctx, "Bogotá - Santa Marta", []string{
		"Bogotá", "Bucaramanga", "Aguachica", "Ciénaga", "Santa Marta",
	})
	require.NoError(t, err)

	bus, err := s.Admin().CreateBus(ctx, "WHZ-123", []string{"1A", "1B", "2A"})
	require.NoError(t, err)

	trip, err := s.Admin().CreateTrip(ctx, domain.Trip{
		RouteID:     route.ID,
		BusID:       bus.ID,
		ServiceDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DepartsAt:   time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC),
		ArrivesAt:   time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	alice, err := s.Admin().CreateUser(ctx, "Alice")
	require.NoError(t, err)
	bob, err := s.Admin().CreateUser(ctx, "Bob")
	require.NoError(t, err)

	return &fixture{store: s, trip: trip, stops: stops, alice: alice, bob: bob}
}

func (f *fixture) commit(t *testing.T, userID int64, seat string, from, to int) (*domain.Ticket, error) {
	t.Helper()

	return f.store.Tickets().Commit(context.Background(), repository.NewTicket{
		TripID:      f.trip.ID,
		SeatNumber:  seat,
		Segment:     domain.Segment{From: from, To: to},
		PassengerID: userID,
		PriceCents:  10000,
	})
}

func TestRouteSpan(t *testing.T) {
	f := newFixture(t)

	lo, hi, err := f.store.Catalog().RouteSpan(context.Background(), f.trip.RouteID)
	require.NoError(t, err)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 5, hi)
}

func TestCommitRejectsOverlapAllowsAdjacent(t *testing.T) {
	f := newFixture(t)

	_, err := f.commit(t, f.alice.ID, "1A", 1, 3)
	require.NoError(t, err)

	_, err = f.commit(t, f.bob.ID, "1A", 2, 5)
	require.ErrorIs(t, err, repository.ErrSegmentConflict)

	// [1,3) and [3,5) share only the boundary stop
	ticket, err := f.commit(t, f.bob.ID, "1A", 3, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketSold, ticket.Status)
	assert.NotEmpty(t, ticket.QRCode)
}

func TestCommitSameSegmentDifferentSeat(t *testing.T) {
	f := newFixture(t)

	_, err := f.commit(t, f.alice.ID, "1A", 1, 5)
	require.NoError(t, err)

	_, err = f.commit(t, f.bob.ID, "1B", 1, 5)
	require.NoError(t, err)
}

func TestHoldBlocksForeignUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Holds().Create(ctx, f.trip.ID, "1A", f.alice.ID, time.Minute)
	require.NoError(t, err)

	_, err = f.store.Holds().Create(ctx, f.trip.ID, "1A", f.bob.ID, time.Minute)
	require.ErrorIs(t, err, repository.ErrSeatHeld)

	_, err = f.commit(t, f.bob.ID, "1A", 1, 3)
	require.ErrorIs(t, err, repository.ErrSeatHeld)

	// the holder books through their own hold
	_, err = f.commit(t, f.alice.ID, "1A", 1, 3)
	require.NoError(t, err)

	// commit retired the hold
	_, err = f.store.Holds().FindActive(ctx, f.trip.ID, "1A")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestHoldReplacedBySameUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.store.Holds().Create(ctx, f.trip.ID, "1A", f.alice.ID, time.Minute)
	require.NoError(t, err)

	second, err := f.store.Holds().Create(ctx, f.trip.ID, "1A", f.alice.ID, time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := f.store.Holds().Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldExpired, got.Status)
}

func TestExpiredHoldStopsBlocking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return base })

	_, err := f.store.Holds().Create(ctx, f.trip.ID, "1A", f.alice.ID, 30*time.Second)
	require.NoError(t, err)

	f.store.SetClock(func() time.Time { return base.Add(time.Minute) })

	h, err := f.store.Holds().Create(ctx, f.trip.ID, "1A", f.bob.ID, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, h.UserID)
}

func TestHoldRejectedWhenSeatFullySold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.commit(t, f.alice.ID, "1A", 1, 3)
	require.NoError(t, err)
	_, err = f.commit(t, f.bob.ID, "1A", 3, 5)
	require.NoError(t, err)

	_, err = f.store.Holds().Create(ctx, f.trip.ID, "1A", f.bob.ID, time.Minute)
	require.ErrorIs(t, err, repository.ErrSeatSold)

	// a free hop remains on another seat
	_, err = f.store.Holds().Create(ctx, f.trip.ID, "1B", f.bob.ID, time.Minute)
	require.NoError(t, err)
}

func TestExpireIsNotIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.store.Holds().Create(ctx, f.trip.ID, "1A", f.alice.ID, time.Minute)
	require.NoError(t, err)

	_, err = f.store.Holds().Expire(ctx, h.ID)
	require.NoError(t, err)

	_, err = f.store.Holds().Expire(ctx, h.ID)
	require.ErrorIs(t, err, repository.ErrNotHoldStatus)
}

func TestSweepExpiredIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return base })

	_, err := f.store.Holds().Create(ctx, f.trip.ID, "1A", f.alice.ID, 30*time.Second)
	require.NoError(t, err)
	_, err = f.store.Holds().Create(ctx, f.trip.ID, "1B", f.bob.ID, 30*time.Second)
	require.NoError(t, err)
	keep, err := f.store.Holds().Create(ctx, f.trip.ID, "2A", f.bob.ID, time.Hour)
	require.NoError(t, err)

	cutoff := base.Add(time.Minute)

	swept, err := f.store.Holds().SweepExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Len(t, swept, 2)

	swept, err = f.store.Holds().SweepExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Empty(t, swept)

	got, err := f.store.Holds().Get(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldActive, got.Status)
}

func TestCancelFreesSegment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket, err := f.commit(t, f.alice.ID, "1A", 1, 5)
	require.NoError(t, err)

	_, err = f.commit(t, f.bob.ID, "1A", 2, 4)
	require.ErrorIs(t, err, repository.ErrSegmentConflict)

	cancelled, err := f.store.Tickets().Cancel(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCancelled, cancelled.Status)

	_, err = f.store.Tickets().Cancel(ctx, ticket.ID)
	require.ErrorIs(t, err, repository.ErrNotSold)

	_, err = f.commit(t, f.bob.ID, "1A", 2, 4)
	require.NoError(t, err)
}

func TestConcurrentCommitsExactlyOneWins(t *testing.T) {
	f := newFixture(t)

	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			// all overlap on hop [2,3)
			from := 1 + i%2
			_, err := f.commit(t, f.alice.ID, "1A", from, from+2)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, repository.ErrSegmentConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)
}

func TestFareRuleRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seg := domain.Segment{From: 1, To: 5}

	_, ok, err := f.store.Fares().BasePriceFor(ctx, f.trip.RouteID, seg)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.store.Admin().SetFareRule(ctx, f.trip.RouteID, seg, 48000))

	price, ok, err := f.store.Fares().BasePriceFor(ctx, f.trip.RouteID, seg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(48000), price)
}
