package routes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/memory"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/routes"
)

func seedRoutes(t *testing.T) (*memory.Store, []domain.Stop, []domain.Stop) {
	t.Helper()

	s := memory.NewStore()
	ctx := context.Background()

	_, coastal, err := s.Admin().CreateRoute(ctx, "Bogotá - Santa Marta", []string{
		"Bogotá", "Bucaramanga", "Aguachica", "Ciénaga", "Santa Marta",
	})
	require.NoError(t, err)

	_, southern, err := s.Admin().CreateRoute(ctx, "Bogotá - Cali", []string{
		"Bogotá", "Ibagué", "Cali",
	})
	require.NoError(t, err)

	return s, coastal, southern
}

func TestResolve(t *testing.T) {
	s, coastal, southern := seedRoutes(t)
	r := routes.NewResolver(s.Catalog())
	ctx := context.Background()

	ord, err := r.Resolve(ctx, coastal[0].RouteID, coastal[3].ID)
	require.NoError(t, err)
	assert.Equal(t, 4, ord)

	_, err = r.Resolve(ctx, coastal[0].RouteID, 9999)
	require.ErrorIs(t, err, routes.ErrStopNotFound)

	// stop from the southern route on the coastal route
	_, err = r.Resolve(ctx, coastal[0].RouteID, southern[1].ID)
	require.ErrorIs(t, err, routes.ErrStopRouteMismatch)
}

func TestValidateSegment(t *testing.T) {
	s, coastal, _ := seedRoutes(t)
	r := routes.NewResolver(s.Catalog())
	ctx := context.Background()

	routeID := coastal[0].RouteID

	seg, err := r.ValidateSegment(ctx, routeID, coastal[0].ID, coastal[4].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Segment{From: 1, To: 5}, seg)

	// reversed direction
	_, err = r.ValidateSegment(ctx, routeID, coastal[4].ID, coastal[0].ID)
	require.ErrorIs(t, err, routes.ErrInvalidSegmentOrder)

	// boarding and alighting at the same stop
	_, err = r.ValidateSegment(ctx, routeID, coastal[2].ID, coastal[2].ID)
	require.ErrorIs(t, err, routes.ErrInvalidSegmentOrder)
}
