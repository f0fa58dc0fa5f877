package schedule

import (
	"sort"
	"time"

	"github.com/storeops/route-scheduler-api/internal/domain"
	"github.com/storeops/route-scheduler-api/internal/ports/out/opsitemrepo"
	"github.com/storeops/route-scheduler-api/internal/ports/out/overriderepo"
)

const (
	// Every day starts at a fixed wall-clock time so the first stop is
	// predictable even when a stale override exists for it.
	anchorHour = 9

	defaultVisitDuration = 2 * time.Hour
)

// BuildInput is everything the timeline builder reads. The same input always
// yields the same output; the builder performs no I/O and keeps no state.
type BuildInput struct {
	// Date supplies the planned day; only year/month/day are used.
	Date time.Time
	// Location is the zone the 09:00 anchor is resolved in. Nil falls back
	// to time.Local.
	Location *time.Location

	Waypoints []domain.Waypoint
	Home      *domain.HomeBase

	Overrides        map[domain.WaypointID]overriderepo.VisitOverride
	OperationalItems []opsitemrepo.Item
	Completed        map[domain.WaypointID]struct{}
}

// BuildResult is a freshly built day plus the count of waypoints that were
// excluded for missing coordinates (informational, not fatal).
type BuildResult struct {
	Items              []domain.TimelineItem
	MissingCoordinates int
}

// BuildTimeline turns the ordered store list, home base, and the current
// override-store contents into the full ordered timeline for the day.
//
// The pass threads an explicit cursor (the previous visit's end) through the
// waypoint list: each leg's departure is the cursor pushed past any
// operational commitment sitting in the gap, and each visit without an
// override starts when the leg arrives.
func BuildTimeline(in BuildInput) BuildResult {
	geocoded := make([]domain.Waypoint, 0, len(in.Waypoints))
	for _, w := range in.Waypoints {
		if w.Coordinate != nil {
			geocoded = append(geocoded, w)
		}
	}
	missing := len(in.Waypoints) - len(geocoded)
	if len(geocoded) == 0 {
		return BuildResult{Items: []domain.TimelineItem{}, MissingCoordinates: missing}
	}

	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	anchor := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), anchorHour, 0, 0, 0, loc)

	items := make([]domain.TimelineItem, 0, 2*len(geocoded)+len(in.OperationalItems)+4)

	// The first visit is anchored: an override's start is deliberately
	// ignored, though its end is kept when it still lands after the anchor.
	first := geocoded[0]
	firstStart := anchor
	firstEnd := anchor.Add(defaultVisitDuration)
	firstOverridden := false
	if ov, ok := in.Overrides[first.ID]; ok {
		firstOverridden = true
		if ov.End.After(firstStart) {
			firstEnd = ov.End
		}
	}
	items = append(items, visitItem(first, firstStart, firstEnd, firstOverridden, in.Completed))

	prev := first
	prevEnd := firstEnd
	for _, wp := range geocoded[1:] {
		miles := domain.DistanceMiles(*prev.Coordinate, *wp.Coordinate)
		mins := domain.EstimateTravelMinutes(miles)
		travel := time.Duration(mins) * time.Minute

		start := prevEnd.Add(travel)
		end := start.Add(defaultVisitDuration)
		overridden := false
		if ov, ok := in.Overrides[wp.ID]; ok {
			start, end = ov.Start, ov.End
			overridden = true
		}

		// Operational commitments in the gap delay the departure; the
		// visit itself moves only when it has no explicit override.
		travelStart := pushPastOperational(prevEnd, start, in.OperationalItems)
		if !overridden {
			start = travelStart.Add(travel)
			end = start.Add(defaultVisitDuration)
		}

		items = append(items, travelItem(prev.ID, wp.ID, prev.Name, wp.Name, miles, mins, travelStart))
		items = append(items, visitItem(wp, start, end, overridden, in.Completed))

		prev = wp
		prevEnd = end
	}

	if in.Home != nil {
		home := *in.Home

		outMiles := domain.DistanceMiles(home.Coordinate, *first.Coordinate)
		outMins := domain.EstimateTravelMinutes(outMiles)
		leaveAt := firstStart.Add(-time.Duration(outMins) * time.Minute)
		items = append(items,
			domain.TimelineItem{Kind: domain.KindLeaveHome, Start: leaveAt, Label: "Leave home"},
			travelItem("", first.ID, homeLabel(home), first.Name, outMiles, outMins, leaveAt),
		)

		backMiles := domain.DistanceMiles(*prev.Coordinate, home.Coordinate)
		backMins := domain.EstimateTravelMinutes(backMiles)
		backDur := time.Duration(backMins) * time.Minute
		departAt := pushPastOperational(prevEnd, prevEnd.Add(backDur), in.OperationalItems)
		items = append(items,
			travelItem(prev.ID, "", prev.Name, homeLabel(home), backMiles, backMins, departAt),
			domain.TimelineItem{Kind: domain.KindArriveHome, Start: departAt.Add(backDur), Label: "Arrive home"},
		)
	}

	for _, it := range in.OperationalItems {
		end := it.Start.Add(time.Duration(it.DurationMinutes) * time.Minute)
		var locPtr *string
		if it.Location != nil {
			v := *it.Location
			locPtr = &v
		}
		items = append(items, domain.TimelineItem{
			Kind:  domain.KindOperational,
			Start: it.Start,
			End:   &end,
			Label: it.Title,
			Operational: &domain.OperationalDetail{
				ID:              it.ID,
				Title:           it.Title,
				Location:        locPtr,
				DurationMinutes: it.DurationMinutes,
			},
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Start.Before(items[j].Start)
	})
	moveLeaveHomeFirst(items)

	return BuildResult{Items: items, MissingCoordinates: missing}
}

// pushPastOperational returns the earliest departure at or after gapStart
// that clears every operational item whose stored interval intersects the
// open gap (gapStart, gapEnd).
func pushPastOperational(gapStart, gapEnd time.Time, ops []opsitemrepo.Item) time.Time {
	depart := gapStart
	for _, it := range ops {
		s := it.Start
		e := s.Add(time.Duration(it.DurationMinutes) * time.Minute)
		if !e.After(gapStart) || !s.Before(gapEnd) {
			continue
		}
		if e.After(depart) {
			depart = e
		}
	}
	return depart
}

func visitItem(wp domain.Waypoint, start, end time.Time, overridden bool, completed map[domain.WaypointID]struct{}) domain.TimelineItem {
	_, done := completed[wp.ID]
	e := end
	return domain.TimelineItem{
		Kind:  domain.KindVisit,
		Start: start,
		End:   &e,
		Label: wp.Name,
		Visit: &domain.VisitDetail{
			WaypointID: wp.ID,
			Overridden: overridden,
			Completed:  done,
		},
	}
}

func travelItem(originID, destID domain.WaypointID, originLabel, destLabel string, miles float64, mins int, start time.Time) domain.TimelineItem {
	return domain.TimelineItem{
		Kind:  domain.KindTravel,
		Start: start,
		Label: "Travel to " + destLabel,
		Travel: &domain.TravelDetail{
			OriginID:         originID,
			DestinationID:    destID,
			OriginLabel:      originLabel,
			DestinationLabel: destLabel,
			Miles:            miles,
			DurationMinutes:  mins,
		},
	}
}

func homeLabel(h domain.HomeBase) string {
	if h.Address != "" {
		return h.Address
	}
	return "Home"
}

// moveLeaveHomeFirst re-applies the leave-home-anchors-the-day rule after the
// final sort. By construction LeaveHome is already earliest, but the rule
// must hold even if an upstream record places something before it.
func moveLeaveHomeFirst(items []domain.TimelineItem) {
	for i, it := range items {
		if it.Kind != domain.KindLeaveHome {
			continue
		}
		if i > 0 {
			lh := items[i]
			copy(items[1:i+1], items[0:i])
			items[0] = lh
		}
		return
	}
}
