package overriderepo

import (
	"context"
	"sort"
	"sync"

	"github.com/storeops/route-scheduler-api/internal/domain"
	"github.com/storeops/route-scheduler-api/internal/ports/out/overriderepo"
)

// Repo is an in-memory implementation of overriderepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex
	// byDay groups overrides by scope day key, then waypoint.
	byDay map[string]map[domain.WaypointID]overriderepo.VisitOverride
}

func NewRepo() *Repo {
	return &Repo{
		byDay: make(map[string]map[domain.WaypointID]overriderepo.VisitOverride),
	}
}

func (r *Repo) Upsert(ctx context.Context, o overriderepo.VisitOverride) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	key := o.Scope.DayKey()
	day, ok := r.byDay[key]
	if !ok {
		day = make(map[domain.WaypointID]overriderepo.VisitOverride)
		r.byDay[key] = day
	}
	day[o.WaypointID] = o
	return nil
}

func (r *Repo) ListByDay(ctx context.Context, scope domain.ScheduleScope) ([]overriderepo.VisitOverride, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]overriderepo.VisitOverride, 0)
	for _, o := range r.byDay[scope.DayKey()] {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WaypointID < out[j].WaypointID
	})
	return out, nil
}
