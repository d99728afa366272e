package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	redisrepo "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/admin"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/booking"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/hold"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/query"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/routes"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/trips/:id", handleGetTrip(svcs))
	r.GET("/trips/:id/availability", handleGetAvailability(svcs))

	r.POST("/trips/:id/holds", handleCreateHold(svcs))
	r.GET("/holds/:id", handleGetHold(svcs))
	r.DELETE("/holds/:id", handleReleaseHold(svcs))

	r.POST("/bookings", handleBookSegment(svcs, idem))
	r.GET("/tickets/:id", handleGetTicket(svcs))
	r.POST("/tickets/:id/cancel", handleCancelTicket(svcs))

	// Admin-API
	// TODO: add admin middleware
	adm := r.Group("/admin")
	{
		adm.POST("/routes", handleCreateRoute(svcs))
		adm.POST("/routes/:id/fares", handleSetFareRule(svcs))
		adm.POST("/buses", handleCreateBus(svcs))
		adm.POST("/trips", handleCreateTrip(svcs))
		adm.POST("/users", handleCreateUser(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get trip
// @Param    id  path  int  true  "Trip ID"
// @Success  200  {object}  domain.Trip
// @Failure  404  {object}  ErrorResponse
// @Router   /trips/{id} [get]
func handleGetTrip(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Query.GetTrip(c.Request.Context(), tripID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, t, "public, max-age=60", true)
	}
}

// @Summary  Per-seat availability of a trip
// @Param    id  path  int  true  "Trip ID"
// @Success  200  {array}  domain.SeatAvailability
// @Router   /trips/{id}/availability [get]
func handleGetAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		av, err := svcs.Query.Availability(c.Request.Context(), tripID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, av, "public, max-age=15", true)
	}
}

// @Summary  Hold a seat on a trip
// @Param    id  path  int  true  "Trip ID"
// @Param    req body  CreateHoldRequest true "payload"
// @Success  201 {object} CreateHoldResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "seat held or sold out"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /trips/{id}/holds [post]
func handleCreateHold(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreateHoldRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		ttl := time.Duration(req.TTLSec) * time.Second
		rlKey := "ip:" + c.ClientIP()

		h, err := svcs.Holds.Create(
			c.Request.Context(),
			tripID,
			req.SeatNumber,
			req.UserID,
			ttl,
			rlKey,
		)
		if err != nil {
			if isRateLimitedErr(err) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: err.Error()},
				)
				return
			}
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreateHoldResponse{
			HoldID:    h.ID.String(),
			ExpiresAt: h.ExpiresAt,
		})
	}
}

// @Summary  Get hold
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Success  200 {object} domain.SeatHold
// @Router   /holds/{id} [get]
func handleGetHold(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		h, err := svcs.Query.GetHold(c.Request.Context(), holdID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, h)
	}
}

// @Summary  Release a hold
// @Param    id  path  string  true  "Hold ID (uuid)"
// @Success  200 {object} domain.SeatHold
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "already released"
// @Router   /holds/{id} [delete]
func handleReleaseHold(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		holdID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		h, err := svcs.Holds.Expire(c.Request.Context(), holdID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, h)
	}
}

// @Summary  Book a segment (idempotent with Idempotency-Key)
// @Param    req body  BookSegmentRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} TicketResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "segment conflict / seat held / idem in progress"
// @Router   /bookings [post]
func handleBookSegment(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BookSegmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(req.TripID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		t, err := svcs.Booking.BookSegment(
			c.Request.Context(),
			req.TripID,
			req.SeatNumber,
			req.UserID,
			req.FromStopID,
			req.ToStopID,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := ticketResponse(t)

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Get ticket
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} TicketResponse
// @Router   /tickets/{id} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Booking.GetTicket(c.Request.Context(), ticketID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ticketResponse(t))
	}
}

// @Summary  Cancel a sold ticket
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} TicketResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "already cancelled"
// @Router   /tickets/{id}/cancel [post]
func handleCancelTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Booking.Cancel(c.Request.Context(), ticketID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ticketResponse(t))
	}
}

// @Summary  Create route with ordered stops
// @Param    req body  CreateRouteRequest true "payload"
// @Success  201 {object} CreateRouteResponse
// @Router   /admin/routes [post]
func handleCreateRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		rt, stops, err := svcs.Admin.CreateRoute(
			c.Request.Context(),
			req.Name,
			req.Stops,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateRouteResponse{
			RouteID: rt.ID,
			Stops:   stops,
		})
	}
}

// @Summary  Set a fare rule for a route segment
// @Param    id  path  int  true  "Route ID"
// @Param    req body  SetFareRuleRequest true "payload"
// @Success  204
// @Router   /admin/routes/{id}/fares [post]
func handleSetFareRule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		routeID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SetFareRuleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		seg := segmentFrom(req.FromOrd, req.ToOrd)
		if !seg.Valid() {
			badRequest(c, "from_ord must be below to_ord")
			return
		}
		if err := svcs.Admin.SetFareRule(
			c.Request.Context(),
			routeID,
			seg,
			req.PriceCents,
		); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create bus with seats
// @Param    req body  CreateBusRequest true "payload"
// @Success  201 {object} CreateBusResponse
// @Router   /admin/buses [post]
func handleCreateBus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		b, err := svcs.Admin.CreateBus(
			c.Request.Context(),
			req.Plate,
			req.Seats,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateBusResponse{BusID: b.ID})
	}
}

// @Summary  Create trip
// @Param    req body  CreateTripRequest true "payload"
// @Success  201 {object} CreateTripResponse
// @Router   /admin/trips [post]
func handleCreateTrip(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTripRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		serviceDate, err := parseRFC3339(req.ServiceDate)
		if err != nil {
			badRequest(c, "invalid service_date (RFC3339)")
			return
		}
		departs, err := parseRFC3339(req.DepartsAt)
		if err != nil {
			badRequest(c, "invalid departs_at (RFC3339)")
			return
		}
		arrives, err := parseRFC3339(req.ArrivesAt)
		if err != nil {
			badRequest(c, "invalid arrives_at (RFC3339)")
			return
		}
		t, err := svcs.Admin.CreateTrip(c.Request.Context(), tripFrom(
			req.RouteID,
			req.BusID,
			serviceDate,
			departs,
			arrives,
		))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateTripResponse{TripID: t.ID})
	}
}

// @Summary  Create user
// @Param    req body  CreateUserRequest true "payload"
// @Success  201 {object} CreateUserResponse
// @Router   /admin/users [post]
func handleCreateUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, err := svcs.Admin.CreateUser(c.Request.Context(), req.Name)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateUserResponse{UserID: u.ID})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func isRateLimitedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "rate limited")
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// routes resolver
	case errors.Is(err, routes.ErrStopNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "stop not found"})
		return
	case errors.Is(err, routes.ErrStopRouteMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "stop belongs to another route"})
		return
	case errors.Is(err, routes.ErrInvalidSegmentOrder):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "boarding stop must precede alighting stop"})
		return
	// booking service
	case errors.Is(err, booking.ErrTripNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "trip not found"})
		return
	case errors.Is(err, booking.ErrPassengerNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "passenger not found"})
		return
	case errors.Is(err, booking.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat not found"})
		return
	case errors.Is(err, booking.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
		return
	case errors.Is(err, booking.ErrSegmentConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "segment conflict"})
		return
	case errors.Is(err, booking.ErrSeatHeldByOther):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat held by another user"})
		return
	case errors.Is(err, booking.ErrNotSold):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "ticket is not sold"})
		return
	// hold service
	case errors.Is(err, hold.ErrTripNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "trip not found"})
		return
	case errors.Is(err, hold.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat not found"})
		return
	case errors.Is(err, hold.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	case errors.Is(err, hold.ErrSeatHeld):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat already held"})
		return
	case errors.Is(err, hold.ErrSeatSold):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat sold out for the route"})
		return
	case errors.Is(err, hold.ErrHoldNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "hold not found"})
		return
	case errors.Is(err, hold.ErrNotHoldStatus):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "hold already released"})
		return
	// query service
	case errors.Is(err, query.ErrTripNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "trip not found"})
		return
	case errors.Is(err, query.ErrHoldNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "hold not found"})
		return
	// admin service
	case errors.Is(err, admin.ErrRouteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found"})
		return
	case errors.Is(err, admin.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "catalog conflict"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
