package domain

import "time"

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Waypoint is a site to visit on a given day. The visit order is supplied
// externally (by the store-directory side of the application) and is never
// reordered by the scheduler. A waypoint without a coordinate is excluded
// from timeline construction and reported to the caller.
type Waypoint struct {
	ID       WaypointID
	Name     string
	Postcode *string

	// Coordinate is nil when the site has not been geocoded.
	Coordinate *Coordinate
}

// HomeBase is the manager's start/end location for the day. A nil *HomeBase
// means no leave-home/arrive-home legs are produced.
type HomeBase struct {
	Coordinate Coordinate
	Address    string
}

// ScheduleScope identifies one manager's day in one region. All durable
// override-store records are keyed by it.
type ScheduleScope struct {
	Manager ManagerID
	// Date carries date-only semantics; time-of-day and zone are ignored
	// beyond year/month/day.
	Date   time.Time
	Region string
}

// DayKey returns the canonical natural key for the scope. Adapters use it so
// that two scopes naming the same calendar day compare equal regardless of
// the Date value's time-of-day or zone representation.
func (s ScheduleScope) DayKey() string {
	return string(s.Manager) + "|" + s.Date.Format("2006-01-02") + "|" + s.Region
}

type ItemKind string

const (
	KindLeaveHome   ItemKind = "LEAVE_HOME"
	KindVisit       ItemKind = "VISIT"
	KindTravel      ItemKind = "TRAVEL"
	KindOperational ItemKind = "OPERATIONAL"
	KindArriveHome  ItemKind = "ARRIVE_HOME"
)

// TimelineItem is the atomic unit of a built day. Exactly one of the
// kind-specific payloads is non-nil, matching Kind.
type TimelineItem struct {
	Kind  ItemKind
	Start time.Time
	// End is nil for instantaneous items (Travel departure markers,
	// LeaveHome, ArriveHome).
	End   *time.Time
	Label string

	Visit       *VisitDetail
	Travel      *TravelDetail
	Operational *OperationalDetail
}

type VisitDetail struct {
	WaypointID WaypointID
	// Overridden is true when a persisted VisitOverride supplied this slot.
	Overridden bool
	Completed  bool
}

// TravelDetail carries the leg's endpoints as data, never re-derived from an
// identifier string. Origin/destination IDs are empty for home endpoints.
type TravelDetail struct {
	OriginID         WaypointID
	DestinationID    WaypointID
	OriginLabel      string
	DestinationLabel string

	Miles           float64
	DurationMinutes int
}

type OperationalDetail struct {
	ID              OperationalItemID
	Title           string
	Location        *string
	DurationMinutes int
}
