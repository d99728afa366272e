// Package notify is the outbound notification sink. Delivery is
// best-effort: failures are logged and never roll back a booking.
package notify

import (
	"context"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
)

type Notifier interface {
	NotifyBooked(ctx context.Context, t *domain.Ticket)
	NotifyHoldExpired(ctx context.Context, h *domain.SeatHold)
}

// Noop is used when no broker is configured (memory mode, tests).
type Noop struct{}

func (Noop) NotifyBooked(context.Context, *domain.Ticket)        {}
func (Noop) NotifyHoldExpired(context.Context, *domain.SeatHold) {}
