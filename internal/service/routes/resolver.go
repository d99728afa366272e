// Package routes resolves stop identifiers to their position in a
// route's ordered stop sequence.
package routes

import (
	"context"
	"errors"
	"fmt"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type Resolver struct {
	catalog repository.Catalog
}

func NewResolver(catalog repository.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the stop's order on the given route.
//
// Returns:
//   - int: the stop order when found.
//   - error: routes.ErrStopNotFound if the stop does not exist.
//   - error: routes.ErrStopRouteMismatch if the stop belongs to a
//     different route.
func (r *Resolver) Resolve(ctx context.Context, routeID, stopID int64) (int, error) {
	const op = "service.routes.Resolve"

	stop, err := r.catalog.GetStop(ctx, stopID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%s:%w", op, ErrStopNotFound)
		}

		return 0, fmt.Errorf("%s:%w", op, err)
	}

	if stop.RouteID != routeID {
		return 0, fmt.Errorf("%s:%w", op, ErrStopRouteMismatch)
	}

	return stop.Ord, nil
}

// ValidateSegment resolves both stops and builds the half-open segment.
//
// Returns:
//   - domain.Segment: the validated segment.
//   - error: routes.ErrInvalidSegmentOrder if boarding would happen at
//     or after alighting.
func (r *Resolver) ValidateSegment(
	ctx context.Context,
	routeID, fromStopID, toStopID int64,
) (domain.Segment, error) {
	const op = "service.routes.ValidateSegment"

	fromOrd, err := r.Resolve(ctx, routeID, fromStopID)
	if err != nil {
		return domain.Segment{}, err
	}

	toOrd, err := r.Resolve(ctx, routeID, toStopID)
	if err != nil {
		return domain.Segment{}, err
	}

	seg := domain.Segment{From: fromOrd, To: toOrd}
	if !seg.Valid() {
		return domain.Segment{}, fmt.Errorf("%s:%w", op, ErrInvalidSegmentOrder)
	}

	return seg, nil
}
