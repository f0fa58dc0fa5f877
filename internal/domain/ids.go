package domain

// ManagerID identifies the field manager a day's schedule belongs to.
// It is an opaque identifier: authentication happens upstream of this service.
type ManagerID string

// WaypointID is an internal identifier for a store/site to be visited.
type WaypointID string

// OperationalItemID is an internal identifier for a persisted operational item.
type OperationalItemID string
