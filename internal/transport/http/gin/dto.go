package httpgin

import (
	"time"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/domain"
)

type CreateHoldRequest struct {
	UserID     int64  `json:"user_id" binding:"required"`
	SeatNumber string `json:"seat_number" binding:"required"`
	TTLSec     int    `json:"ttl_sec"`
}

type BookSegmentRequest struct {
	TripID     int64  `json:"trip_id" binding:"required"`
	SeatNumber string `json:"seat_number" binding:"required"`
	UserID     int64  `json:"user_id" binding:"required"`
	FromStopID int64  `json:"from_stop_id" binding:"required"`
	ToStopID   int64  `json:"to_stop_id" binding:"required"`
}

type CreateRouteRequest struct {
	Name  string   `json:"name" binding:"required"`
	Stops []string `json:"stops" binding:"required,min=2,dive,required"`
}

type CreateBusRequest struct {
	Plate string   `json:"plate" binding:"required"`
	Seats []string `json:"seats" binding:"required,min=1,dive,required"`
}

type CreateTripRequest struct {
	RouteID     int64  `json:"route_id" binding:"required"`
	BusID       int64  `json:"bus_id" binding:"required"`
	ServiceDate string `json:"service_date" binding:"required"`
	DepartsAt   string `json:"departs_at" binding:"required"`
	ArrivesAt   string `json:"arrives_at" binding:"required"`
}

type CreateUserRequest struct {
	Name string `json:"name" binding:"required"`
}

type SetFareRuleRequest struct {
	FromOrd    int   `json:"from_ord" binding:"required"`
	ToOrd      int   `json:"to_ord" binding:"required"`
	PriceCents int64 `json:"price_cents" binding:"required,gt=0"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateHoldResponse struct {
	HoldID    string    `json:"hold_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TicketResponse struct {
	TicketID   string         `json:"ticket_id"`
	TripID     int64          `json:"trip_id"`
	SeatNumber string         `json:"seat_number"`
	Segment    domain.Segment `json:"segment"`
	PriceCents int64          `json:"price_cents"`
	Status     string         `json:"status"`
	QRCode     string         `json:"qr_code"`
}

type CreateRouteResponse struct {
	RouteID int64         `json:"route_id"`
	Stops   []domain.Stop `json:"stops"`
}

type CreateBusResponse struct {
	BusID int64 `json:"bus_id"`
}

type CreateTripResponse struct {
	TripID int64 `json:"trip_id"`
}

type CreateUserResponse struct {
	UserID int64 `json:"user_id"`
}

func ticketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:   t.ID.String(),
		TripID:     t.TripID,
		SeatNumber: t.SeatNumber,
		Segment:    t.Segment,
		PriceCents: t.PriceCents,
		Status:     string(t.Status),
		QRCode:     t.QRCode,
	}
}

func segmentFrom(fromOrd, toOrd int) domain.Segment {
	return domain.Segment{From: fromOrd, To: toOrd}
}

func tripFrom(
	routeID, busID int64,
	serviceDate, departs, arrives time.Time,
) domain.Trip {
	return domain.Trip{
		RouteID:     routeID,
		BusID:       busID,
		ServiceDate: serviceDate,
		DepartsAt:   departs,
		ArrivesAt:   arrives,
		Status:      domain.TripScheduled,
	}
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
