package overriderepo

import (
	"context"
	"time"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// VisitOverride is a user's manual correction to a visit's computed slot,
// keyed by (manager, date, region, waypoint). It is the persistence shape
// used by the override repository, not an HTTP DTO.
type VisitOverride struct {
	Scope      domain.ScheduleScope
	WaypointID domain.WaypointID

	Start time.Time
	End   time.Time

	UpdatedAt time.Time
}

// Repository provides access to persisted visit-time overrides.
//
// Upsert is idempotent by natural key: writing the same
// (manager, date, region, waypoint) twice replaces the stored window.
// Reads must reflect the most recent completed write.
type Repository interface {
	Upsert(ctx context.Context, o VisitOverride) error

	// ListByDay returns all overrides for a scope, ordered by waypoint ID.
	ListByDay(ctx context.Context, scope domain.ScheduleScope) ([]VisitOverride, error)
}
