package repository

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrSegmentConflict = errors.New("segment already sold")
	ErrSeatHeld        = errors.New("seat held by another user")
	ErrSeatSold        = errors.New("seat sold out for the route")
	ErrNotHoldStatus   = errors.New("hold is not in hold status")
	ErrNotSold         = errors.New("ticket is not sold")
)
