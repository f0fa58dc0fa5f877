package exports

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// ErrNoWaypoints is returned when no remaining waypoint has coordinates, so
// there is nothing to navigate to.
var ErrNoWaypoints = errors.New("no geocoded waypoints to navigate")

// NavigationLink builds a turn-by-turn directions deep link over the given
// waypoints (callers pass the incomplete subset, in visit order). The home
// base is the origin when present; without one the first waypoint takes its
// place, or the origin is omitted entirely for a single stop (the mapping
// app then routes from the device's current location).
func NavigationLink(waypoints []domain.Waypoint, home *domain.HomeBase) (string, error) {
	pts := make([]domain.Waypoint, 0, len(waypoints))
	for _, wp := range waypoints {
		if wp.Coordinate != nil {
			pts = append(pts, wp)
		}
	}
	if len(pts) == 0 {
		return "", ErrNoWaypoints
	}

	var origin string
	via := pts[:len(pts)-1]
	if home != nil {
		origin = coordPair(home.Coordinate)
	} else if len(pts) > 1 {
		origin = coordPair(*pts[0].Coordinate)
		via = pts[1 : len(pts)-1]
	} else {
		via = nil
	}
	destination := coordPair(*pts[len(pts)-1].Coordinate)

	q := url.Values{}
	q.Set("api", "1")
	if origin != "" {
		q.Set("origin", origin)
	}
	q.Set("destination", destination)
	if len(via) > 0 {
		parts := make([]string, 0, len(via))
		for _, wp := range via {
			parts = append(parts, coordPair(*wp.Coordinate))
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}
	q.Set("travelmode", "driving")

	u := url.URL{
		Scheme:   "https",
		Host:     "www.google.com",
		Path:     "/maps/dir/",
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

func coordPair(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Latitude, 'f', 6, 64) + "," +
		strconv.FormatFloat(c.Longitude, 'f', 6, 64)
}
