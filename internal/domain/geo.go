package domain

import "math"

const (
	earthRadiusKm = 6371.0
	kmPerMile     = 1.60934

	// Travel-time policy constants: an assumed 31 mph average urban speed
	// plus a flat buffer for parking/walking at either end.
	milesPerMinute    = 0.517
	shortTripBufferMi = 1.0
	shortTripBuffer   = 4 // minutes
	longTripBuffer    = 10
	negligibleMiles   = 0.05
)

// DistanceMiles returns the great-circle distance between two coordinates in
// miles (haversine on a mean Earth radius). Callers must not pass NaN/Inf
// coordinates; the timeline builder excludes ungeocoded waypoints upstream.
func DistanceMiles(a, b Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	km := earthRadiusKm * c
	return km / kmPerMile
}

// EstimateTravelMinutes converts a distance into a drive-time estimate. This
// is a planning policy, not a physical model: same-site moves are free, and
// every real move carries a fixed buffer on top of the average-speed time.
func EstimateTravelMinutes(miles float64) int {
	if miles <= negligibleMiles {
		return 0
	}
	base := miles / milesPerMinute
	if miles < shortTripBufferMi {
		base += shortTripBuffer
	} else {
		base += longTripBuffer
	}
	m := int(math.Round(base))
	if m < 1 {
		m = 1
	}
	return m
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
