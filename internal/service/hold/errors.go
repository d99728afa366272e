package hold

import "errors"

var (
	ErrTripNotFound  = errors.New("trip not found")
	ErrSeatNotFound  = errors.New("seat not found on the trip's bus")
	ErrUserNotFound  = errors.New("user not found")
	ErrSeatHeld      = errors.New("seat already held by another user")
	ErrSeatSold      = errors.New("seat already sold out for the route")
	ErrHoldNotFound  = errors.New("hold not found")
	ErrNotHoldStatus = errors.New("hold is not in hold status")
)
