package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/storeops/route-scheduler-api/internal/domain"
	"github.com/storeops/route-scheduler-api/internal/ports/out/clock"
	"github.com/storeops/route-scheduler-api/internal/ports/out/completionrepo"
	"github.com/storeops/route-scheduler-api/internal/ports/out/opsitemrepo"
	"github.com/storeops/route-scheduler-api/internal/ports/out/overriderepo"
)

// Service reconciles edits against the override store. Every mutation follows
// the same contract: validate, persist, then rebuild the whole day with
// BuildTimeline. Nothing ever patches a previously returned timeline in
// place, so one code path covers adds and edits alike.
type Service struct {
	overrides   overriderepo.Repository
	items       opsitemrepo.Repository
	completions completionrepo.Repository
	clk         clock.Clock

	// loc is the zone the 09:00 anchor is resolved in.
	loc *time.Location

	newItemID func() domain.OperationalItemID
}

func NewService(
	overrides overriderepo.Repository,
	items opsitemrepo.Repository,
	completions completionrepo.Repository,
	clk clock.Clock,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		overrides:   overrides,
		items:       items,
		completions: completions,
		clk:         clk,
		loc:         loc,
		newItemID: func() domain.OperationalItemID {
			return domain.OperationalItemID(uuid.NewString())
		},
	}
}

// SetNewItemIDForTest overrides operational-item ID generation for
// deterministic tests. It should not be used in production code.
func (s *Service) SetNewItemIDForTest(fn func() domain.OperationalItemID) {
	if fn != nil {
		s.newItemID = fn
	}
}

// BuildDay reads a consistent snapshot of the override store and builds the
// day's timeline from it.
func (s *Service) BuildDay(ctx context.Context, plan DayPlan) (BuildResult, error) {
	ovs, err := s.overrides.ListByDay(ctx, plan.Scope)
	if err != nil {
		return BuildResult{}, err
	}
	items, err := s.items.ListByDay(ctx, plan.Scope)
	if err != nil {
		return BuildResult{}, err
	}
	done, err := s.completions.ListCompleted(ctx, plan.Scope)
	if err != nil {
		return BuildResult{}, err
	}

	ovByWaypoint := make(map[domain.WaypointID]overriderepo.VisitOverride, len(ovs))
	for _, ov := range ovs {
		ovByWaypoint[ov.WaypointID] = ov
	}

	return BuildTimeline(BuildInput{
		Date:             plan.Scope.Date,
		Location:         s.loc,
		Waypoints:        plan.Waypoints,
		Home:             plan.Home,
		Overrides:        ovByWaypoint,
		OperationalItems: items,
		Completed:        done,
	}), nil
}

// SetVisitTime upserts the visit-time override for a waypoint and rebuilds.
// The write must complete before the rebuild reads; a failed write surfaces
// as-is and no optimistic timeline is produced.
func (s *Service) SetVisitTime(ctx context.Context, plan DayPlan, waypointID domain.WaypointID, start, end time.Time) (BuildResult, error) {
	if !end.After(start) {
		return BuildResult{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid time window", Details: map[string]any{"end": "must be after start"}}
	}
	if !planHasWaypoint(plan, waypointID) {
		return BuildResult{}, &Error{Status: 404, Code: "WAYPOINT_NOT_FOUND", Message: "waypoint is not on this day's route"}
	}

	ov := overriderepo.VisitOverride{
		Scope:      plan.Scope,
		WaypointID: waypointID,
		Start:      start,
		End:        end,
		UpdatedAt:  s.clk.Now(),
	}
	if err := s.overrides.Upsert(ctx, ov); err != nil {
		return BuildResult{}, err
	}
	return s.BuildDay(ctx, plan)
}

// UpsertOperationalItem creates (empty ID) or updates an operational item,
// then rebuilds. The builder already defers travel around stored items, so
// the full rebuild is the whole reconciliation.
func (s *Service) UpsertOperationalItem(ctx context.Context, plan DayPlan, in UpsertOperationalItemInput) (BuildResult, error) {
	title := domain.NormalizeTitle(in.Title)
	if title == "" {
		return BuildResult{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid title", Details: map[string]any{"title": "must be non-empty"}}
	}
	if in.DurationMinutes < 1 {
		return BuildResult{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid duration", Details: map[string]any{"durationMinutes": "must be >= 1"}}
	}

	now := s.clk.Now()
	var item opsitemrepo.Item
	if in.ID == "" {
		item = opsitemrepo.Item{
			ID:        s.newItemID(),
			Scope:     plan.Scope,
			CreatedAt: now,
		}
	} else {
		existing, err := s.items.GetByID(ctx, in.ID)
		if err != nil {
			if errors.Is(err, opsitemrepo.ErrNotFound) {
				return BuildResult{}, &Error{Status: 404, Code: "ITEM_NOT_FOUND", Message: "operational item not found"}
			}
			return BuildResult{}, err
		}
		// Items are day-scoped; an ID from another day is treated as absent.
		if existing.Scope.DayKey() != plan.Scope.DayKey() {
			return BuildResult{}, &Error{Status: 404, Code: "ITEM_NOT_FOUND", Message: "operational item not found"}
		}
		item = existing
	}

	item.Title = title
	item.Start = in.Start
	item.DurationMinutes = in.DurationMinutes
	if in.Location.IsSpecified() {
		if in.Location.IsNull() {
			item.Location = nil
		} else {
			v := in.Location.Value()
			item.Location = &v
		}
	}
	item.UpdatedAt = now

	if err := s.items.Upsert(ctx, item); err != nil {
		return BuildResult{}, err
	}
	return s.BuildDay(ctx, plan)
}

// DeleteOperationalItem removes the record and rebuilds (symmetric with add).
func (s *Service) DeleteOperationalItem(ctx context.Context, plan DayPlan, id domain.OperationalItemID) (BuildResult, error) {
	existing, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, opsitemrepo.ErrNotFound) {
			return BuildResult{}, &Error{Status: 404, Code: "ITEM_NOT_FOUND", Message: "operational item not found"}
		}
		return BuildResult{}, err
	}
	if existing.Scope.DayKey() != plan.Scope.DayKey() {
		return BuildResult{}, &Error{Status: 404, Code: "ITEM_NOT_FOUND", Message: "operational item not found"}
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return BuildResult{}, err
	}
	return s.BuildDay(ctx, plan)
}

// MarkVisitComplete sets the completion marker. It never shifts times, so no
// timeline is rebuilt here; callers re-read the day for the updated flags.
func (s *Service) MarkVisitComplete(ctx context.Context, plan DayPlan, waypointID domain.WaypointID) error {
	if !planHasWaypoint(plan, waypointID) {
		return &Error{Status: 404, Code: "WAYPOINT_NOT_FOUND", Message: "waypoint is not on this day's route"}
	}
	return s.completions.MarkComplete(ctx, plan.Scope, waypointID, s.clk.Now())
}

// RemainingWaypoints returns the plan's waypoints that have not been marked
// complete, in visit order. Used to build the navigation link.
func (s *Service) RemainingWaypoints(ctx context.Context, plan DayPlan) ([]domain.Waypoint, error) {
	done, err := s.completions.ListCompleted(ctx, plan.Scope)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Waypoint, 0, len(plan.Waypoints))
	for _, wp := range plan.Waypoints {
		if _, ok := done[wp.ID]; ok {
			continue
		}
		out = append(out, wp)
	}
	return out, nil
}

func planHasWaypoint(plan DayPlan, id domain.WaypointID) bool {
	for _, wp := range plan.Waypoints {
		if wp.ID == id {
			return true
		}
	}
	return false
}
