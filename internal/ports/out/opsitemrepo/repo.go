package opsitemrepo

import (
	"context"
	"time"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// Item is the persistence shape of an operational item: a scheduled activity
// with no associated waypoint (a meeting, an admin block). Its stored time is
// never shifted by rebuilds; only its displayed position in a freshly built
// timeline can differ.
type Item struct {
	ID    domain.OperationalItemID
	Scope domain.ScheduleScope

	Title    string
	Location *string

	Start           time.Time
	DurationMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted operational items.
type Repository interface {
	Upsert(ctx context.Context, item Item) error

	GetByID(ctx context.Context, id domain.OperationalItemID) (Item, error)

	// ListByDay returns all items for a scope, ordered by start time
	// (ties broken by ID).
	ListByDay(ctx context.Context, scope domain.ScheduleScope) ([]Item, error)

	Delete(ctx context.Context, id domain.OperationalItemID) error
}
