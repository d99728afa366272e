package fare_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/memory"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/fare"
)

func TestFlatPricesPerHop(t *testing.T) {
	calc := fare.Flat{PerHopCents: 12500}
	ctx := context.Background()

	// Bogotá (ord 1) to Santa Marta (ord 5): four hops
	price, err := calc.Price(ctx, 1, domain.Segment{From: 1, To: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), price)

	price, err = calc.Price(ctx, 1, domain.Segment{From: 3, To: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(12500), price)

	_, err = calc.Price(ctx, 1, domain.Segment{From: 4, To: 2})
	require.Error(t, err)
}

func TestTablePrefersRuleOverFallback(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	route, _, err := s.Admin().CreateRoute(ctx, "Bogotá - Santa Marta", []string{
		"Bogotá", "Bucaramanga", "Aguachica", "Ciénaga", "Santa Marta",
	})
	require.NoError(t, err)

	require.NoError(t, s.Admin().SetFareRule(ctx, route.ID, domain.Segment{From: 1, To: 5}, 42000))

	calc := fare.NewTable(s.Fares(), fare.Flat{PerHopCents: 12500})

	// covered by a rule
	price, err := calc.Price(ctx, route.ID, domain.Segment{From: 1, To: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(42000), price)

	// no rule: flat fallback
	price, err = calc.Price(ctx, route.ID, domain.Segment{From: 2, To: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), price)
}
