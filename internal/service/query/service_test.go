package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/memory"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/query"
)

func TestAvailability(t *testing.T) {
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

	_, err = s.Tickets().Commit(ctx, repository.NewTicket{
		TripID:      trip.ID,
		SeatNumber:  "1A",
		Segment:     domain.Segment{From: 1, To: 3},
		PassengerID: alice.ID,
		PriceCents:  25000,
	})
	require.NoError(t, err)

	_, err = s.Holds().Create(ctx, trip.ID, "1B", alice.ID, time.Minute)
	require.NoError(t, err)

	svc := query.New(s, nil, query.Config{})

	av, err := svc.Availability(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, av, 2)

	bySeat := make(map[string]domain.SeatAvailability, len(av))
	for _, a := range av {
		bySeat[a.SeatNumber] = a
	}

	assert.Equal(t, []domain.Segment{{From: 1, To: 3}}, bySeat["1A"].Sold)
	assert.False(t, bySeat["1A"].Held)

	assert.Empty(t, bySeat["1B"].Sold)
	assert.True(t, bySeat["1B"].Held)

	_, err = svc.Availability(ctx, 9999)
	require.ErrorIs(t, err, query.ErrTripNotFound)
}
