package domain

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripDeparted  TripStatus = "departed"
	TripCancelled TripStatus = "cancelled"
)

type TicketStatus string

const (
	TicketSold      TicketStatus = "sold"
	TicketCancelled TicketStatus = "cancelled"
)

type HoldStatus string

const (
	HoldActive  HoldStatus = "hold"
	HoldExpired HoldStatus = "expired"
)

type Route struct {
	ID   int64
	Name string
}

// Stop is a point on a route. Ord is unique and contiguous ascending per
// route and never changes once trips reference the route.
type Stop struct {
	ID      int64
	RouteID int64
	Ord     int
	Name    string
}

type Bus struct {
	ID       int64
	Plate    string
	Capacity int
}

// Seat identifies a physical seat slot on a bus.
type Seat struct {
	BusID  int64
	Number string
}

type Trip struct {
	ID          int64
	RouteID     int64
	BusID       int64
	ServiceDate time.Time
	DepartsAt   time.Time
	ArrivesAt   time.Time
	Status      TripStatus
}

type User struct {
	ID   int64
	Name string
}

// Segment is the half-open interval [From, To) over a route's stop
// ordering: the passenger boards at stop order From and alights at To.
type Segment struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s Segment) Valid() bool { return s.From < s.To }

// Overlaps reports whether the two segments share at least one hop.
// Adjacent segments ([1,3) and [3,5)) do not overlap.
func (s Segment) Overlaps(o Segment) bool {
	return s.From < o.To && o.From < s.To
}

// Hops is the number of stop-to-stop legs the segment spans.
func (s Segment) Hops() int { return s.To - s.From }

func (s Segment) String() string { return fmt.Sprintf("[%d,%d)", s.From, s.To) }

type Ticket struct {
	ID          uuid.UUID
	TripID      int64
	SeatNumber  string
	Segment     Segment
	PassengerID int64
	PriceCents  int64
	Status      TicketStatus
	QRCode      string
	CreatedAt   time.Time
}

// SeatHold is a soft, time-boxed claim on a (trip, seat) pair. It blocks
// a foreign purchase only while Status is HoldActive and ExpiresAt is in
// the future.
type SeatHold struct {
	ID         uuid.UUID
	TripID     int64
	SeatNumber string
	UserID     int64
	ExpiresAt  time.Time
	Status     HoldStatus
}

// ActiveAt reports whether the hold still blocks other buyers at now.
func (h *SeatHold) ActiveAt(now time.Time) bool {
	return h.Status == HoldActive && h.ExpiresAt.After(now)
}

// TicketQR builds the scannable payload embedded in a sold ticket.
func TicketQR(id uuid.UUID, tripID int64, seatNumber string, seg Segment) string {
	raw := fmt.Sprintf("BR2|%s|%d|%s|%d-%d", id, tripID, seatNumber, seg.From, seg.To)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// SeatAvailability is the per-seat availability view of a trip: the sold
// segments on the seat plus whether an unexpired hold currently claims it.
type SeatAvailability struct {
	SeatNumber string    `json:"seat_number"`
	Sold       []Segment `json:"sold"`
	Held       bool      `json:"held"`
}
