package completionrepo

import (
	"context"
	"time"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// Repository records which visits a manager has marked complete on a day.
// Markers are set by an explicit user action and never cleared by rebuilds.
type Repository interface {
	MarkComplete(ctx context.Context, scope domain.ScheduleScope, waypointID domain.WaypointID, at time.Time) error

	// ListCompleted returns the set of completed waypoint IDs for a scope.
	ListCompleted(ctx context.Context, scope domain.ScheduleScope) (map[domain.WaypointID]struct{}, error)
}
