package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/storeops/route-scheduler-api/internal/domain"
	"github.com/storeops/route-scheduler-api/internal/ports/out/opsitemrepo"
	"github.com/storeops/route-scheduler-api/internal/ports/out/overriderepo"
)

var testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func wp(id, name string, lat, lon float64) domain.Waypoint {
	return domain.Waypoint{
		ID:         domain.WaypointID(id),
		Name:       name,
		Coordinate: &domain.Coordinate{Latitude: lat, Longitude: lon},
	}
}

func ungeocoded(id, name string) domain.Waypoint {
	return domain.Waypoint{ID: domain.WaypointID(id), Name: name}
}

func testScope() domain.ScheduleScope {
	return domain.ScheduleScope{Manager: "mgr-1", Date: testDay, Region: "north"}
}

func buildInput(waypoints ...domain.Waypoint) BuildInput {
	return BuildInput{
		Date:      testDay,
		Location:  time.UTC,
		Waypoints: waypoints,
	}
}

func itemsOfKind(items []domain.TimelineItem, kind domain.ItemKind) []domain.TimelineItem {
	var out []domain.TimelineItem
	for _, it := range items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

func visitFor(t *testing.T, items []domain.TimelineItem, id domain.WaypointID) domain.TimelineItem {
	t.Helper()
	for _, it := range items {
		if it.Kind == domain.KindVisit && it.Visit != nil && it.Visit.WaypointID == id {
			return it
		}
	}
	t.Fatalf("no visit for waypoint %q", id)
	return domain.TimelineItem{}
}

func travelTo(t *testing.T, items []domain.TimelineItem, destID domain.WaypointID) domain.TimelineItem {
	t.Helper()
	for _, it := range items {
		if it.Kind == domain.KindTravel && it.Travel != nil && it.Travel.DestinationID == destID {
			return it
		}
	}
	t.Fatalf("no travel leg to waypoint %q", destID)
	return domain.TimelineItem{}
}

func TestBuildTimeline_ExcludesUngeocodedWaypoints(t *testing.T) {
	t.Parallel()

	in := buildInput(ungeocoded("a", "Store A"), wp("b", "Store B", 51.51, -0.12))
	res := BuildTimeline(in)

	if res.MissingCoordinates != 1 {
		t.Fatalf("MissingCoordinates = %d, want 1", res.MissingCoordinates)
	}
	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(res.Items), res.Items)
	}
	v := res.Items[0]
	if v.Kind != domain.KindVisit || v.Visit.WaypointID != "b" {
		t.Fatalf("unexpected item: %+v", v)
	}
	if !v.Start.Equal(at(9, 0)) {
		t.Errorf("visit start = %v, want 09:00", v.Start)
	}
	if v.End == nil || !v.End.Equal(at(11, 0)) {
		t.Errorf("visit end = %v, want 11:00", v.End)
	}
}

func TestBuildTimeline_EmptyWhenNothingGeocoded(t *testing.T) {
	t.Parallel()

	res := BuildTimeline(buildInput(ungeocoded("a", "Store A"), ungeocoded("b", "Store B")))
	if len(res.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(res.Items))
	}
	if res.MissingCoordinates != 2 {
		t.Fatalf("MissingCoordinates = %d, want 2", res.MissingCoordinates)
	}
}

func TestBuildTimeline_DefaultChain(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	b := wp("b", "Store B", 51.51, -0.12)
	res := BuildTimeline(buildInput(a, b))

	va := visitFor(t, res.Items, "a")
	if !va.Start.Equal(at(9, 0)) || !va.End.Equal(at(11, 0)) {
		t.Fatalf("visit A = %v-%v, want 09:00-11:00", va.Start, va.End)
	}

	leg := travelTo(t, res.Items, "b")
	if !leg.Start.Equal(*va.End) {
		t.Errorf("travel start = %v, want previous visit end %v", leg.Start, *va.End)
	}

	mins := domain.EstimateTravelMinutes(domain.DistanceMiles(*a.Coordinate, *b.Coordinate))
	if leg.Travel.DurationMinutes != mins {
		t.Errorf("travel duration = %d, want %d", leg.Travel.DurationMinutes, mins)
	}

	vb := visitFor(t, res.Items, "b")
	wantStart := leg.Start.Add(time.Duration(mins) * time.Minute)
	if !vb.Start.Equal(wantStart) {
		t.Errorf("visit B start = %v, want %v", vb.Start, wantStart)
	}
	if !vb.End.Equal(wantStart.Add(2 * time.Hour)) {
		t.Errorf("visit B end = %v, want %v", vb.End, wantStart.Add(2*time.Hour))
	}
}

func TestBuildTimeline_AnchorIgnoresFirstWaypointOverrideStart(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	in := buildInput(a)
	in.Overrides = map[domain.WaypointID]overriderepo.VisitOverride{
		"a": {Scope: testScope(), WaypointID: "a", Start: at(10, 0), End: at(12, 30)},
	}
	res := BuildTimeline(in)

	va := visitFor(t, res.Items, "a")
	if !va.Start.Equal(at(9, 0)) {
		t.Errorf("first visit start = %v, want anchored 09:00", va.Start)
	}
	if !va.End.Equal(at(12, 30)) {
		t.Errorf("first visit end = %v, want the override end 12:30", va.End)
	}
	if !va.Visit.Overridden {
		t.Error("first visit should still be flagged as overridden")
	}
}

func TestBuildTimeline_OverrideMovesLaterVisitOnly(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	b := wp("b", "Store B", 51.51, -0.12)
	in := buildInput(a, b)
	in.Overrides = map[domain.WaypointID]overriderepo.VisitOverride{
		"b": {Scope: testScope(), WaypointID: "b", Start: at(14, 0), End: at(15, 0)},
	}
	res := BuildTimeline(in)

	va := visitFor(t, res.Items, "a")
	if !va.Start.Equal(at(9, 0)) || !va.End.Equal(at(11, 0)) {
		t.Fatalf("visit A moved: %v-%v", va.Start, va.End)
	}

	vb := visitFor(t, res.Items, "b")
	if !vb.Start.Equal(at(14, 0)) || !vb.End.Equal(at(15, 0)) {
		t.Fatalf("visit B = %v-%v, want the override 14:00-15:00", vb.Start, vb.End)
	}
	if !vb.Visit.Overridden {
		t.Error("visit B should be flagged as overridden")
	}

	// The preceding travel leg still departs when A ends.
	leg := travelTo(t, res.Items, "b")
	if !leg.Start.Equal(at(11, 0)) {
		t.Errorf("travel start = %v, want 11:00", leg.Start)
	}
}

func TestBuildTimeline_OperationalInsideVisitDoesNotPushTravel(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	b := wp("b", "Store B", 51.51, -0.12)
	in := buildInput(a, b)
	in.OperationalItems = []opsitemrepo.Item{
		{ID: "op-1", Scope: testScope(), Title: "Team call", Start: at(10, 0), DurationMinutes: 30},
	}
	res := BuildTimeline(in)

	// 10:00-10:30 sits inside visit A (09:00-11:00), not in the travel gap.
	leg := travelTo(t, res.Items, "b")
	if !leg.Start.Equal(at(11, 0)) {
		t.Errorf("travel start = %v, want 11:00 (unaffected)", leg.Start)
	}
}

func TestBuildTimeline_OperationalInGapPushesTravel(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	b := wp("b", "Store B", 51.51, -0.12)
	in := buildInput(a, b)
	in.OperationalItems = []opsitemrepo.Item{
		{ID: "op-1", Scope: testScope(), Title: "Stock check", Start: at(11, 0), DurationMinutes: 20},
	}
	res := BuildTimeline(in)

	leg := travelTo(t, res.Items, "b")
	if !leg.Start.Equal(at(11, 20)) {
		t.Errorf("travel start = %v, want pushed to 11:20", leg.Start)
	}

	// The visit rides with the delayed departure.
	vb := visitFor(t, res.Items, "b")
	wantStart := at(11, 20).Add(time.Duration(leg.Travel.DurationMinutes) * time.Minute)
	if !vb.Start.Equal(wantStart) {
		t.Errorf("visit B start = %v, want %v", vb.Start, wantStart)
	}
}

func TestBuildTimeline_OperationalDoesNotMoveOverriddenVisit(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	b := wp("b", "Store B", 51.51, -0.12)
	in := buildInput(a, b)
	in.Overrides = map[domain.WaypointID]overriderepo.VisitOverride{
		"b": {Scope: testScope(), WaypointID: "b", Start: at(14, 0), End: at(15, 0)},
	}
	in.OperationalItems = []opsitemrepo.Item{
		{ID: "op-1", Scope: testScope(), Title: "Stock check", Start: at(11, 0), DurationMinutes: 20},
	}
	res := BuildTimeline(in)

	leg := travelTo(t, res.Items, "b")
	if !leg.Start.Equal(at(11, 20)) {
		t.Errorf("travel start = %v, want pushed to 11:20", leg.Start)
	}
	vb := visitFor(t, res.Items, "b")
	if !vb.Start.Equal(at(14, 0)) || !vb.End.Equal(at(15, 0)) {
		t.Errorf("overridden visit moved: %v-%v", vb.Start, vb.End)
	}
}

func TestBuildTimeline_HomeLegs(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	in := buildInput(a)
	in.Home = &domain.HomeBase{
		Coordinate: domain.Coordinate{Latitude: 51.48, Longitude: -0.05},
		Address:    "12 High Street",
	}
	res := BuildTimeline(in)

	if len(res.Items) != 5 {
		t.Fatalf("got %d items, want 5 (leave, travel, visit, travel, arrive): %+v", len(res.Items), res.Items)
	}
	if res.Items[0].Kind != domain.KindLeaveHome {
		t.Fatalf("first item kind = %v, want LEAVE_HOME", res.Items[0].Kind)
	}

	outMins := domain.EstimateTravelMinutes(domain.DistanceMiles(in.Home.Coordinate, *a.Coordinate))
	wantLeave := at(9, 0).Add(-time.Duration(outMins) * time.Minute)
	if !res.Items[0].Start.Equal(wantLeave) {
		t.Errorf("leave home at %v, want %v", res.Items[0].Start, wantLeave)
	}

	arrives := itemsOfKind(res.Items, domain.KindArriveHome)
	if len(arrives) != 1 {
		t.Fatalf("got %d arrive-home items, want 1", len(arrives))
	}
	backMins := domain.EstimateTravelMinutes(domain.DistanceMiles(*a.Coordinate, in.Home.Coordinate))
	wantArrive := at(11, 0).Add(time.Duration(backMins) * time.Minute)
	if !arrives[0].Start.Equal(wantArrive) {
		t.Errorf("arrive home at %v, want %v", arrives[0].Start, wantArrive)
	}
}

func TestBuildTimeline_ReturnLegWaitsForOperational(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	in := buildInput(a)
	in.Home = &domain.HomeBase{Coordinate: domain.Coordinate{Latitude: 51.48, Longitude: -0.05}}
	in.OperationalItems = []opsitemrepo.Item{
		{ID: "op-1", Scope: testScope(), Title: "Paperwork", Start: at(11, 0), DurationMinutes: 15},
	}
	res := BuildTimeline(in)

	legs := itemsOfKind(res.Items, domain.KindTravel)
	var back *domain.TimelineItem
	for i := range legs {
		if legs[i].Travel.DestinationID == "" {
			back = &legs[i]
		}
	}
	if back == nil {
		t.Fatal("no return travel leg")
	}
	if !back.Start.Equal(at(11, 15)) {
		t.Errorf("return leg departs %v, want 11:15", back.Start)
	}
}

func TestBuildTimeline_LeaveHomeStaysFirst(t *testing.T) {
	t.Parallel()

	a := wp("a", "Store A", 51.5, -0.1)
	in := buildInput(a)
	in.Home = &domain.HomeBase{Coordinate: domain.Coordinate{Latitude: 51.48, Longitude: -0.05}}
	// An early-morning item sorts before the leave-home leg by time; the
	// leave-home rule must still win.
	in.OperationalItems = []opsitemrepo.Item{
		{ID: "op-1", Scope: testScope(), Title: "Emails", Start: at(6, 0), DurationMinutes: 30},
	}
	res := BuildTimeline(in)

	if res.Items[0].Kind != domain.KindLeaveHome {
		t.Fatalf("first item kind = %v, want LEAVE_HOME", res.Items[0].Kind)
	}
}

func TestBuildTimeline_Deterministic(t *testing.T) {
	t.Parallel()

	in := buildInput(
		wp("a", "Store A", 51.5, -0.1),
		wp("b", "Store B", 51.51, -0.12),
		wp("c", "Store C", 51.53, -0.09),
	)
	in.Home = &domain.HomeBase{Coordinate: domain.Coordinate{Latitude: 51.48, Longitude: -0.05}}
	in.OperationalItems = []opsitemrepo.Item{
		{ID: "op-1", Scope: testScope(), Title: "Team call", Start: at(13, 0), DurationMinutes: 45},
	}

	first := BuildTimeline(in)
	second := BuildTimeline(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("builds differ:\n%+v\n%+v", first, second)
	}
}

func TestBuildTimeline_MonotonicNonOverlap(t *testing.T) {
	t.Parallel()

	in := buildInput(
		wp("a", "Store A", 51.5, -0.1),
		wp("b", "Store B", 51.51, -0.12),
		wp("c", "Store C", 51.53, -0.09),
	)
	in.Home = &domain.HomeBase{Coordinate: domain.Coordinate{Latitude: 51.48, Longitude: -0.05}}
	res := BuildTimeline(in)

	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Start.Before(res.Items[i-1].Start) {
			t.Fatalf("item %d starts before item %d: %v < %v",
				i, i-1, res.Items[i].Start, res.Items[i-1].Start)
		}
	}
}

func TestBuildTimeline_CompletionFlags(t *testing.T) {
	t.Parallel()

	in := buildInput(wp("a", "Store A", 51.5, -0.1), wp("b", "Store B", 51.51, -0.12))
	in.Completed = map[domain.WaypointID]struct{}{"a": {}}
	res := BuildTimeline(in)

	if !visitFor(t, res.Items, "a").Visit.Completed {
		t.Error("visit A should be completed")
	}
	if visitFor(t, res.Items, "b").Visit.Completed {
		t.Error("visit B should not be completed")
	}
}
