package completionrepo

import (
	"context"
	"sync"
	"time"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// Repo is an in-memory implementation of completionrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex
	// byDay maps scope day key to the set of completed waypoints and the
	// time each was marked.
	byDay map[string]map[domain.WaypointID]time.Time
}

func NewRepo() *Repo {
	return &Repo{
		byDay: make(map[string]map[domain.WaypointID]time.Time),
	}
}

func (r *Repo) MarkComplete(ctx context.Context, scope domain.ScheduleScope, waypointID domain.WaypointID, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	key := scope.DayKey()
	day, ok := r.byDay[key]
	if !ok {
		day = make(map[domain.WaypointID]time.Time)
		r.byDay[key] = day
	}
	// Marking twice keeps the first timestamp; the flag is never cleared.
	if _, ok := day[waypointID]; !ok {
		day[waypointID] = at
	}
	return nil
}

func (r *Repo) ListCompleted(ctx context.Context, scope domain.ScheduleScope) (map[domain.WaypointID]struct{}, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.WaypointID]struct{})
	for id := range r.byDay[scope.DayKey()] {
		out[id] = struct{}{}
	}
	return out, nil
}
