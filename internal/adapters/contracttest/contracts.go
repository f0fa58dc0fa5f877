package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/storeops/route-scheduler-api/internal/domain"
	completionport "github.com/storeops/route-scheduler-api/internal/ports/out/completionrepo"
	opsitemport "github.com/storeops/route-scheduler-api/internal/ports/out/opsitemrepo"
	overrideport "github.com/storeops/route-scheduler-api/internal/ports/out/overriderepo"
)

type CleanupFunc = func()

type OverrideRepoFactory func(t *testing.T) (overrideport.Repository, CleanupFunc)
type OpsItemRepoFactory func(t *testing.T) (opsitemport.Repository, CleanupFunc)
type CompletionRepoFactory func(t *testing.T) (completionport.Repository, CleanupFunc)

func testScope(day int) domain.ScheduleScope {
	return domain.ScheduleScope{
		Manager: domain.ManagerID("mgr-" + uuid.NewString()),
		Date:    time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC),
		Region:  "north",
	}
}

func RunOverrideRepo(t *testing.T, newRepo OverrideRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	scope := testScope(2)
	now := time.Unix(1000, 0).UTC()
	ov := overrideport.VisitOverride{
		Scope:      scope,
		WaypointID: "wp-1",
		Start:      time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC),
		End:        time.Date(2026, time.March, 2, 15, 0, 0, 0, time.UTC),
		UpdatedAt:  now,
	}
	if err := repo.Upsert(ctx, ov); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.ListByDay(ctx, scope)
	if err != nil {
		t.Fatalf("ListByDay: %v", err)
	}
	if len(got) != 1 || got[0].WaypointID != "wp-1" || !got[0].Start.Equal(ov.Start) || !got[0].End.Equal(ov.End) {
		t.Fatalf("unexpected overrides: %#v", got)
	}

	// Upsert by natural key replaces the stored window.
	ov2 := ov
	ov2.Start = ov.Start.Add(30 * time.Minute)
	ov2.UpdatedAt = now.Add(time.Minute)
	if err := repo.Upsert(ctx, ov2); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	got, err = repo.ListByDay(ctx, scope)
	if err != nil {
		t.Fatalf("ListByDay after replace: %v", err)
	}
	if len(got) != 1 || !got[0].Start.Equal(ov2.Start) {
		t.Fatalf("expected replaced window, got %#v", got)
	}

	// Day scoping: another day sees nothing; ordering is by waypoint ID.
	other := scope
	other.Date = scope.Date.AddDate(0, 0, 1)
	if ds, err := repo.ListByDay(ctx, other); err != nil || len(ds) != 0 {
		t.Fatalf("ListByDay other day: n=%d err=%v", len(ds), err)
	}
	ov3 := ov
	ov3.WaypointID = "wp-0"
	if err := repo.Upsert(ctx, ov3); err != nil {
		t.Fatalf("Upsert wp-0: %v", err)
	}
	got, err = repo.ListByDay(ctx, scope)
	if err != nil {
		t.Fatalf("ListByDay ordering: %v", err)
	}
	if len(got) != 2 || got[0].WaypointID != "wp-0" || got[1].WaypointID != "wp-1" {
		t.Fatalf("unexpected ordering: %#v", got)
	}
}

func RunOpsItemRepo(t *testing.T, newRepo OpsItemRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	scope := testScope(9)
	now := time.Unix(2000, 0).UTC()
	loc := "HQ"
	a := opsitemport.Item{
		ID:              domain.OperationalItemID(uuid.NewString()),
		Scope:           scope,
		Title:           "Team call",
		Location:        &loc,
		Start:           time.Date(2026, time.March, 9, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Upsert(ctx, a); err != nil {
		t.Fatalf("Upsert a: %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Team call" || got.Location == nil || *got.Location != "HQ" || got.DurationMinutes != 30 {
		t.Fatalf("unexpected item: %#v", got)
	}

	// Update in place.
	got.Title = "Team call (moved)"
	got.Start = got.Start.Add(time.Hour)
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Upsert(ctx, got); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	got2, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got2.Title != "Team call (moved)" {
		t.Fatalf("update not persisted: %#v", got2)
	}

	// Ordering by start time within a day.
	b := a
	b.ID = domain.OperationalItemID(uuid.NewString())
	b.Title = "Stock take"
	b.Location = nil
	b.Start = time.Date(2026, time.March, 9, 9, 30, 0, 0, time.UTC)
	if err := repo.Upsert(ctx, b); err != nil {
		t.Fatalf("Upsert b: %v", err)
	}
	items, err := repo.ListByDay(ctx, scope)
	if err != nil {
		t.Fatalf("ListByDay: %v", err)
	}
	if len(items) != 2 || items[0].ID != b.ID || items[1].ID != a.ID {
		t.Fatalf("unexpected ordering: %#v", items)
	}

	// Delete is definitive; a second delete reports not-found.
	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); err == nil {
		t.Fatalf("expected not-found after delete")
	}
	if err := repo.Delete(ctx, a.ID); err == nil {
		t.Fatalf("expected not-found on second delete")
	}
}

func RunCompletionRepo(t *testing.T, newRepo CompletionRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	scope := testScope(16)
	now := time.Unix(3000, 0).UTC()

	done, err := repo.ListCompleted(ctx, scope)
	if err != nil {
		t.Fatalf("ListCompleted empty: %v", err)
	}
	if len(done) != 0 {
		t.Fatalf("expected empty set, got %v", done)
	}

	if err := repo.MarkComplete(ctx, scope, "wp-1", now); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	// Idempotent.
	if err := repo.MarkComplete(ctx, scope, "wp-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("MarkComplete again: %v", err)
	}
	if err := repo.MarkComplete(ctx, scope, "wp-2", now); err != nil {
		t.Fatalf("MarkComplete wp-2: %v", err)
	}

	done, err = repo.ListCompleted(ctx, scope)
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if len(done) != 2 {
		t.Fatalf("expected 2 completed, got %v", done)
	}
	if _, ok := done["wp-1"]; !ok {
		t.Fatalf("wp-1 missing from %v", done)
	}

	// Scoped per day.
	other := scope
	other.Date = scope.Date.AddDate(0, 0, 1)
	done, err = repo.ListCompleted(ctx, other)
	if err != nil || len(done) != 0 {
		t.Fatalf("other day: n=%d err=%v", len(done), err)
	}
}
