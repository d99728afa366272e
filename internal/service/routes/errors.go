package routes

import "errors"

var (
	ErrStopNotFound        = errors.New("stop not found")
	ErrStopRouteMismatch   = errors.New("stop belongs to another route")
	ErrInvalidSegmentOrder = errors.New("boarding stop must precede alighting stop")
)
