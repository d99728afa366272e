package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/memory"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/booking"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/fare"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/hold"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/routes"
)

type fixture struct {
	store *memory.Store
	svc   *booking.Service
	holds *hold.Service
	trip  *domain.Trip
	stops []domain.Stop
	alice *domain.User
	bob   *domain.User
}

// stop index helpers: stops[0] is Bogotá (ord 1), stops[4] is Santa
// Marta (ord 5).
func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := memory.NewStore()
	ctx := context.Background()

	route, stops, err := s.Admin().CreateRoute(ctx, "Bogotá - Santa Marta", []string{
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

	resolver := routes.NewResolver(s.Catalog())
	calc := fare.NewTable(s.Fares(), fare.Flat{PerHopCents: 12500})

	return &fixture{
		store: s,
		svc:   booking.New(s, resolver, calc, nil, nil, nil),
		holds: hold.New(s, nil, nil, nil, nil, hold.Config{}),
		trip:  trip,
		stops: stops,
		alice: alice,
		bob:   bob,
	}
}

func (f *fixture) book(t *testing.T, userID int64, seat string, fromIdx, toIdx int) (*domain.Ticket, error) {
	t.Helper()

	return f.svc.BookSegment(
		context.Background(),
		f.trip.ID,
		seat,
		userID,
		f.stops[fromIdx].ID,
		f.stops[toIdx].ID,
	)
}

func TestBookFullRoute(t *testing.T) {
	f := newFixture(t)

	// Bogotá to Santa Marta: four hops at 12500 each
	ticket, err := f.book(t, f.alice.ID, "1A", 0, 4)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketSold, ticket.Status)
	assert.Equal(t, domain.Segment{From: 1, To: 5}, ticket.Segment)
	assert.Equal(t, int64(50000), ticket.PriceCents)
	assert.NotEmpty(t, ticket.QRCode)

	got, err := f.svc.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
}

func TestBookValidatesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.BookSegment(ctx, 9999, "1A", f.alice.ID, f.stops[0].ID, f.stops[1].ID)
	require.ErrorIs(t, err, booking.ErrTripNotFound)

	_, err = f.svc.BookSegment(ctx, f.trip.ID, "1A", 9999, f.stops[0].ID, f.stops[1].ID)
	require.ErrorIs(t, err, booking.ErrPassengerNotFound)

	_, err = f.svc.BookSegment(ctx, f.trip.ID, "9Z", f.alice.ID, f.stops[0].ID, f.stops[1].ID)
	require.ErrorIs(t, err, booking.ErrSeatNotFound)

	_, err = f.svc.BookSegment(ctx, f.trip.ID, "1A", f.alice.ID, 9999, f.stops[1].ID)
	require.ErrorIs(t, err, routes.ErrStopNotFound)

	// reversed direction
	_, err = f.svc.BookSegment(ctx, f.trip.ID, "1A", f.alice.ID, f.stops[3].ID, f.stops[1].ID)
	require.ErrorIs(t, err, routes.ErrInvalidSegmentOrder)
}

func TestBookOverlapConflict(t *testing.T) {
	f := newFixture(t)

	// Bogotá to Ciénaga
	_, err := f.book(t, f.alice.ID, "1A", 0, 3)
	require.NoError(t, err)

	// Aguachica to Santa Marta shares the Aguachica-Ciénaga hop
	_, err = f.book(t, f.bob.ID, "1A", 2, 4)
	require.ErrorIs(t, err, booking.ErrSegmentConflict)

	// Ciénaga to Santa Marta only touches the boundary
	_, err = f.book(t, f.bob.ID, "1A", 3, 4)
	require.NoError(t, err)
}

func TestBookRetryIsNotIdempotent(t *testing.T) {
	f := newFixture(t)

	_, err := f.book(t, f.alice.ID, "1A", 0, 2)
	require.NoError(t, err)

	// the same request again hits its own sold segment
	_, err = f.book(t, f.alice.ID, "1A", 0, 2)
	require.ErrorIs(t, err, booking.ErrSegmentConflict)
}

func TestBookRespectsForeignHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.holds.Create(ctx, f.trip.ID, "1A", f.bob.ID, time.Hour, "")
	require.NoError(t, err)

	_, err = f.book(t, f.alice.ID, "1A", 0, 2)
	require.ErrorIs(t, err, booking.ErrSeatHeldByOther)

	// the holder converts the hold into a ticket
	_, err = f.book(t, f.bob.ID, "1A", 0, 2)
	require.NoError(t, err)

	got, err := f.store.Holds().Get(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldExpired, got.Status)
}

func TestCancelFreesInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket, err := f.book(t, f.alice.ID, "1A", 0, 4)
	require.NoError(t, err)

	_, err = f.book(t, f.bob.ID, "1A", 1, 3)
	require.ErrorIs(t, err, booking.ErrSegmentConflict)

	cancelled, err := f.svc.Cancel(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCancelled, cancelled.Status)

	_, err = f.svc.Cancel(ctx, ticket.ID)
	require.ErrorIs(t, err, booking.ErrNotSold)

	_, err = f.svc.Cancel(ctx, uuid.New())
	require.ErrorIs(t, err, booking.ErrTicketNotFound)

	_, err = f.book(t, f.bob.ID, "1A", 1, 3)
	require.NoError(t, err)
}

func TestConcurrentBookingsExactlyOneWins(t *testing.T) {
	f := newFixture(t)

	const attempts = 12

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

			// alternate between [1,3) and [2,4): every pair overlaps on [2,3)
			from := i % 2
			_, err := f.book(t, f.alice.ID, "1A", from, from+2)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, booking.ErrSegmentConflict):
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
