package query

import "errors"

var (
	ErrTripNotFound = errors.New("trip not found")
	ErrHoldNotFound = errors.New("hold not found")
)
