package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
)

type ticketRepo struct {
	s *Store
}

func (r *ticketRepo) Get(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "memory.ticketRepo.Get"

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	cp := *t

	return &cp, nil
}

func (r *ticketRepo) SoldSegments(
	_ context.Context,
	tripID int64,
	seatNumber string,
) ([]domain.Segment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.soldSegmentsLocked(seatKey{tripID: tripID, seat: seatNumber}), nil
}

func (r *ticketRepo) HasSoldOverlap(
	_ context.Context,
	tripID int64,
	seatNumber string,
	seg domain.Segment,
) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sold := range r.s.soldSegmentsLocked(seatKey{tripID: tripID, seat: seatNumber}) {
		if sold.Overlaps(seg) {
			return true, nil
		}
	}

	return false, nil
}

// Commit is the critical section of a booking: re-check, evaluate the
// hold, insert and retire the hold, all under the seat's keyed mutex.
func (r *ticketRepo) Commit(_ context.Context, nt repository.NewTicket) (*domain.Ticket, error) {
	const op = "memory.ticketRepo.Commit"

	if !nt.Segment.Valid() {
		return nil, fmt.Errorf("%s: invalid segment %s", op, nt.Segment)
	}

	k := seatKey{tripID: nt.TripID, seat: nt.SeatNumber}

	lock := r.s.seatLock(k)
	lock.Lock()
	defer lock.Unlock()

	now := r.s.clock()()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, sold := range r.s.soldSegmentsLocked(k) {
		if sold.Overlaps(nt.Segment) {
			return nil, fmt.Errorf("%s:%w", op, repository.ErrSegmentConflict)
		}
	}

	var retire *domain.SeatHold
	if hid, ok := r.s.holdBySeat[k]; ok {
		h := r.s.holds[hid]
		if h.Status == domain.HoldActive {
			if h.ExpiresAt.After(now) && h.UserID != nt.PassengerID {
				return nil, fmt.Errorf("%s:%w", op, repository.ErrSeatHeld)
			}
			retire = h
		}
	}

	id := uuid.New()
	t := &domain.Ticket{
		ID:          id,
		TripID:      nt.TripID,
		SeatNumber:  nt.SeatNumber,
		Segment:     nt.Segment,
		PassengerID: nt.PassengerID,
		PriceCents:  nt.PriceCents,
		Status:      domain.TicketSold,
		QRCode:      domain.TicketQR(id, nt.TripID, nt.SeatNumber, nt.Segment),
		CreatedAt:   now,
	}

	r.s.tickets[id] = t
	r.s.ticketsBySeat[k] = append(r.s.ticketsBySeat[k], id)

	if retire != nil {
		retire.Status = domain.HoldExpired
		delete(r.s.holdBySeat, k)
	}

	cp := *t

	return &cp, nil
}

func (r *ticketRepo) Cancel(_ context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "memory.ticketRepo.Cancel"

	r.s.mu.RLock()
	t, ok := r.s.tickets[id]
	r.s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	k := seatKey{tripID: t.TripID, seat: t.SeatNumber}

	lock := r.s.seatLock(k)
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if t.Status != domain.TicketSold {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotSold)
	}

	t.Status = domain.TicketCancelled

	cp := *t

	return &cp, nil
}

// soldSegmentsLocked requires s.mu held (read or write).
func (s *Store) soldSegmentsLocked(k seatKey) []domain.Segment {
	var out []domain.Segment
	for _, id := range s.ticketsBySeat[k] {
		if t := s.tickets[id]; t.Status == domain.TicketSold {
			out = append(out, t.Segment)
		}
	}

	return out
}
