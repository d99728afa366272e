package redisx

import "fmt"

const ns = "brasilia2:v1"

func KeyTripSummary(tripID int64) string {
	return fmt.Sprintf("%s:trip:%d:summary", ns, tripID)
}

func KeyTripAvailability(tripID int64) string {
	return fmt.Sprintf("%s:trip:%d:availability", ns, tripID)
}

func KeyRouteStops(routeID int64) string {
	return fmt.Sprintf("%s:route:%d:stops", ns, routeID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelTripsChanged() string {
	return ns + ":trips:changed"
}
