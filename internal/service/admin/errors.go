package admin

import "errors"

var (
	ErrRouteNotFound = errors.New("route not found")
	ErrConflict      = errors.New("conflict creating catalog entry")
)
