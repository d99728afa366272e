package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type holdRepo struct {
	s *Store
}

func (r *holdRepo) Get(_ context.Context, id uuid.UUID) (*domain.SeatHold, error) {
	const op = "memory.holdRepo.Get"

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	h, ok := r.s.holds[id]
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	cp := *h

	return &cp, nil
}

func (r *holdRepo) Create(
	_ context.Context,
	tripID int64,
	seatNumber string,
	userID int64,
	ttl time.Duration,
) (*domain.SeatHold, error) {
	const op = "memory.holdRepo.Create"

	k := seatKey{tripID: tripID, seat: seatNumber}

	lock := r.s.seatLock(k)
	lock.Lock()
	defer lock.Unlock()

	now := r.s.clock()()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	trip, ok := r.s.trips[tripID]
	if !ok {
		return nil, fmt.Errorf("%s: trip: %w", op, repository.ErrNotFound)
	}

	if hid, ok := r.s.holdBySeat[k]; ok {
		h := r.s.holds[hid]
		if h.Status == domain.HoldActive {
			if h.ExpiresAt.After(now) && h.UserID != userID {
				return nil, fmt.Errorf("%s:%w", op, repository.ErrSeatHeld)
			}
			// Expired, or the same user re-holding: retire and replace.
			h.Status = domain.HoldExpired
		}
		delete(r.s.holdBySeat, k)
	}

	lo, hi, err := r.s.routeSpanLocked(op, trip.RouteID)
	if err != nil {
		return nil, err
	}

	if coversSpan(r.s.soldSegmentsLocked(k), lo, hi) {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrSeatSold)
	}

	h := &domain.SeatHold{
		ID:         uuid.New(),
		TripID:     tripID,
		SeatNumber: seatNumber,
		UserID:     userID,
		ExpiresAt:  now.Add(ttl),
		Status:     domain.HoldActive,
	}

	r.s.holds[h.ID] = h
	r.s.holdBySeat[k] = h.ID

	cp := *h

	return &cp, nil
}

func (r *holdRepo) Expire(_ context.Context, id uuid.UUID) (*domain.SeatHold, error) {
	const op = "memory.holdRepo.Expire"

	r.s.mu.RLock()
	h, ok := r.s.holds[id]
	r.s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	k := seatKey{tripID: h.TripID, seat: h.SeatNumber}

	lock := r.s.seatLock(k)
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if h.Status != domain.HoldActive {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotHoldStatus)
	}

	h.Status = domain.HoldExpired
	if r.s.holdBySeat[k] == h.ID {
		delete(r.s.holdBySeat, k)
	}

	cp := *h

	return &cp, nil
}

func (r *holdRepo) SweepExpired(_ context.Context, now time.Time) ([]domain.SeatHold, error) {
	r.s.mu.RLock()
	var candidates []uuid.UUID
	for id, h := range r.s.holds {
		if h.Status == domain.HoldActive && !h.ExpiresAt.After(now) {
			candidates = append(candidates, id)
		}
	}
	r.s.mu.RUnlock()

	var swept []domain.SeatHold
	for _, id := range candidates {
		r.s.mu.RLock()
		h := r.s.holds[id]
		k := seatKey{tripID: h.TripID, seat: h.SeatNumber}
		r.s.mu.RUnlock()

		// Same exclusion scope as the commit path: a hold that a booking
		// just relied on cannot be expired mid-commit.
		lock := r.s.seatLock(k)
		lock.Lock()

		r.s.mu.Lock()
		if h.Status == domain.HoldActive && !h.ExpiresAt.After(now) {
			h.Status = domain.HoldExpired
			if r.s.holdBySeat[k] == h.ID {
				delete(r.s.holdBySeat, k)
			}
			swept = append(swept, *h)
		}
		r.s.mu.Unlock()

		lock.Unlock()
	}

	return swept, nil
}

func (r *holdRepo) FindActive(
	_ context.Context,
	tripID int64,
	seatNumber string,
) (*domain.SeatHold, error) {
	const op = "memory.holdRepo.FindActive"

	now := r.s.clock()()

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	hid, ok := r.s.holdBySeat[seatKey{tripID: tripID, seat: seatNumber}]
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	h := r.s.holds[hid]
	if !h.ActiveAt(now) {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	cp := *h

	return &cp, nil
}

// coversSpan reports whether the union of segs covers every hop of
// [lo, hi). A seat with no free hop left cannot be held whole.
func coversSpan(segs []domain.Segment, lo, hi int) bool {
	if hi <= lo {
		return false
	}

	for hop := lo; hop < hi; hop++ {
		covered := false
		for _, s := range segs {
			if s.From <= hop && hop < s.To {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}

	return true
}
