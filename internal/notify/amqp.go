package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
)

const (
	QueueTicketBooked = "ticket.booked"
	QueueHoldExpired  = "hold.expired"
)

// TicketBookedEvent carries enough for downstream consumers (e-mail,
// SMS, analytics) without querying the primary database.
type TicketBookedEvent struct {
	TicketID    string `json:"ticket_id"`
	TripID      int64  `json:"trip_id"`
	SeatNumber  string `json:"seat_number"`
	PassengerID int64  `json:"passenger_id"`
	FromOrder   int    `json:"from_order"`
	ToOrder     int    `json:"to_order"`
	PriceCents  int64  `json:"price_cents"`
	QRCode      string `json:"qr_code"`
	BookedAt    string `json:"booked_at"`
}

type HoldExpiredEvent struct {
	HoldID     string `json:"hold_id"`
	TripID     int64  `json:"trip_id"`
	SeatNumber string `json:"seat_number"`
	UserID     int64  `json:"user_id"`
	ExpiredAt  string `json:"expired_at"`
}

// AMQP publishes booking events to RabbitMQ. The connection and channel
// are long-lived; queues are declared once, durable, with persistent
// deliveries.
type AMQP struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

func NewAMQP(url string, logger *slog.Logger) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	for _, q := range []string{QueueTicketBooked, QueueHoldExpired} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	return &AMQP{conn: conn, ch: ch, logger: logger}, nil
}

func (n *AMQP) Close() error {
	if err := n.ch.Close(); err != nil {
		return err
	}
	return n.conn.Close()
}

func (n *AMQP) NotifyBooked(ctx context.Context, t *domain.Ticket) {
	n.publish(ctx, QueueTicketBooked, TicketBookedEvent{
		TicketID:    t.ID.String(),
		TripID:      t.TripID,
		SeatNumber:  t.SeatNumber,
		PassengerID: t.PassengerID,
		FromOrder:   t.Segment.From,
		ToOrder:     t.Segment.To,
		PriceCents:  t.PriceCents,
		QRCode:      t.QRCode,
		BookedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (n *AMQP) NotifyHoldExpired(ctx context.Context, h *domain.SeatHold) {
	n.publish(ctx, QueueHoldExpired, HoldExpiredEvent{
		HoldID:     h.ID.String(),
		TripID:     h.TripID,
		SeatNumber: h.SeatNumber,
		UserID:     h.UserID,
		ExpiredAt:  h.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (n *AMQP) publish(ctx context.Context, queue string, event any) {
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("notify: marshal event", "queue", queue, "error", err)
		return
	}

	err = n.ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		n.logger.Error("notify: publish", "queue", queue, "error", err)
	}
}
