// Package fare prices route segments. Calculators are pure: no state,
// no side effects; rule lookups go through an injected read-only
// provider.
package fare

import (
	"context"
	"fmt"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type Calculator interface {
	Price(ctx context.Context, routeID int64, seg domain.Segment) (int64, error)
}

// Flat charges a fixed amount per hop.
type Flat struct {
	PerHopCents int64
}

func (f Flat) Price(_ context.Context, _ int64, seg domain.Segment) (int64, error) {
	const op = "service.fare.Flat.Price"

	if !seg.Valid() {
		return 0, fmt.Errorf("%s: invalid segment %s", op, seg)
	}

	return int64(seg.Hops()) * f.PerHopCents, nil
}

// Table prices from the fare-rule provider and falls back to another
// calculator for segments no rule covers.
type Table struct {
	rules    repository.FareRules
	fallback Calculator
}

func NewTable(rules repository.FareRules, fallback Calculator) *Table {
	return &Table{rules: rules, fallback: fallback}
}

func (t *Table) Price(ctx context.Context, routeID int64, seg domain.Segment) (int64, error) {
	const op = "service.fare.Table.Price"

	if !seg.Valid() {
		return 0, fmt.Errorf("%s: invalid segment %s", op, seg)
	}

	price, ok, err := t.rules.BasePriceFor(ctx, routeID, seg)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	if ok {
		return price, nil
	}

	return t.fallback.Price(ctx, routeID, seg)
}
