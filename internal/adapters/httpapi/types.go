package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

// Request/response DTOs. The ordered store list and home base travel with
// every request: the store directory owns them, the scheduler does not.

type waypointDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Postcode  *string  `json:"postcode,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type homeBaseDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type dayPlanRequest struct {
	Date      openapi_types.Date `json:"date"`
	Region    string             `json:"region"`
	Waypoints []waypointDTO      `json:"waypoints"`
	Home      *homeBaseDTO       `json:"home,omitempty"`
}

type setVisitTimeRequest struct {
	dayPlanRequest
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type upsertItemRequest struct {
	dayPlanRequest
	ItemID string `json:"itemId,omitempty"`
	Title  string `json:"title"`
	// Location is tri-state: omitted keeps the stored value on update,
	// null clears it.
	Location        nullable.Nullable[string] `json:"location,omitempty"`
	Start           time.Time                 `json:"start"`
	DurationMinutes int                       `json:"durationMinutes"`
}

type calendarRequest struct {
	dayPlanRequest
	OwnerName string `json:"ownerName"`
}

type visitDTO struct {
	WaypointID string `json:"waypointId"`
	Overridden bool   `json:"overridden"`
	Completed  bool   `json:"completed"`
}

type travelDTO struct {
	OriginID         string  `json:"originId,omitempty"`
	DestinationID    string  `json:"destinationId,omitempty"`
	OriginLabel      string  `json:"originLabel"`
	DestinationLabel string  `json:"destinationLabel"`
	Miles            float64 `json:"miles"`
	DurationMinutes  int     `json:"durationMinutes"`
}

type operationalDTO struct {
	ItemID          string  `json:"itemId"`
	Title           string  `json:"title"`
	Location        *string `json:"location,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
}

type timelineItemDTO struct {
	Kind  string     `json:"kind"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
	Label string     `json:"label"`

	Visit       *visitDTO       `json:"visit,omitempty"`
	Travel      *travelDTO      `json:"travel,omitempty"`
	Operational *operationalDTO `json:"operational,omitempty"`
}

type scheduleResponse struct {
	Items              []timelineItemDTO `json:"items"`
	MissingCoordinates int               `json:"missingCoordinates"`
}

type navigationLinkResponse struct {
	URL string `json:"url"`
}

func toTimelineItemDTO(it domain.TimelineItem) timelineItemDTO {
	out := timelineItemDTO{
		Kind:  string(it.Kind),
		Start: it.Start,
		End:   it.End,
		Label: it.Label,
	}
	if it.Visit != nil {
		out.Visit = &visitDTO{
			WaypointID: string(it.Visit.WaypointID),
			Overridden: it.Visit.Overridden,
			Completed:  it.Visit.Completed,
		}
	}
	if it.Travel != nil {
		out.Travel = &travelDTO{
			OriginID:         string(it.Travel.OriginID),
			DestinationID:    string(it.Travel.DestinationID),
			OriginLabel:      it.Travel.OriginLabel,
			DestinationLabel: it.Travel.DestinationLabel,
			Miles:            it.Travel.Miles,
			DurationMinutes:  it.Travel.DurationMinutes,
		}
	}
	if it.Operational != nil {
		out.Operational = &operationalDTO{
			ItemID:          string(it.Operational.ID),
			Title:           it.Operational.Title,
			Location:        it.Operational.Location,
			DurationMinutes: it.Operational.DurationMinutes,
		}
	}
	return out
}
