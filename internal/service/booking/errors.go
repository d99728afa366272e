package booking

import "errors"

var (
	ErrTripNotFound      = errors.New("trip not found")
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrSeatNotFound      = errors.New("seat not found on the trip's bus")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrSegmentConflict   = errors.New("segment overlaps a sold ticket")
	ErrSeatHeldByOther   = errors.New("seat held by another user")
	ErrNotSold           = errors.New("ticket is not sold")
)
