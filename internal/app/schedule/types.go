package schedule

import (
	"time"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// DayPlan is the external input to a day's schedule: the ordered store list
// and the manager's home base, both supplied by the caller (the store
// directory owns them, not the scheduler).
type DayPlan struct {
	Scope     domain.ScheduleScope
	Waypoints []domain.Waypoint
	Home      *domain.HomeBase
}

// UpsertOperationalItemInput creates a new item when ID is empty, otherwise
// updates the existing record. Location is tri-state: unspecified keeps the
// stored value on update, null clears it.
type UpsertOperationalItemInput struct {
	ID    domain.OperationalItemID
	Title string

	Location Optional[string]

	Start           time.Time
	DurationMinutes int
}
