package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/storeops/route-scheduler-api/internal/app/exports"
	"github.com/storeops/route-scheduler-api/internal/app/schedule"
	"github.com/storeops/route-scheduler-api/internal/domain"
)

// Server is the HTTP adapter over the schedule service and export helpers.
type Server struct {
	Schedules *schedule.Service
	Log       zerolog.Logger
}

func NewServer(schedules *schedule.Service, log zerolog.Logger) *Server {
	return &Server{Schedules: schedules, Log: log}
}

func (s *Server) handleBuildDay(w http.ResponseWriter, r *http.Request) {
	var req dayPlanRequest
	plan, ok := s.decodePlan(w, r, &req, &req)
	if !ok {
		return
	}

	res, err := s.Schedules.BuildDay(r.Context(), plan)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(res))
}

func (s *Server) handleSetVisitTime(w http.ResponseWriter, r *http.Request) {
	var req setVisitTimeRequest
	plan, ok := s.decodePlan(w, r, &req, &req.dayPlanRequest)
	if !ok {
		return
	}
	waypointID := domain.WaypointID(chi.URLParam(r, "waypointID"))

	res, err := s.Schedules.SetVisitTime(r.Context(), plan, waypointID, req.Start, req.End)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(res))
}

func (s *Server) handleUpsertItem(w http.ResponseWriter, r *http.Request) {
	var req upsertItemRequest
	plan, ok := s.decodePlan(w, r, &req, &req.dayPlanRequest)
	if !ok {
		return
	}

	in := schedule.UpsertOperationalItemInput{
		ID:              domain.OperationalItemID(req.ItemID),
		Title:           req.Title,
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
	}
	if req.Location.IsSpecified() {
		if req.Location.IsNull() {
			in.Location = schedule.Null[string]()
		} else {
			in.Location = schedule.Some(req.Location.MustGet())
		}
	}

	res, err := s.Schedules.UpsertOperationalItem(r.Context(), plan, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(res))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	var req dayPlanRequest
	plan, ok := s.decodePlan(w, r, &req, &req)
	if !ok {
		return
	}
	itemID := domain.OperationalItemID(chi.URLParam(r, "itemID"))

	res, err := s.Schedules.DeleteOperationalItem(r.Context(), plan, itemID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(res))
}

func (s *Server) handleMarkComplete(w http.ResponseWriter, r *http.Request) {
	var req dayPlanRequest
	plan, ok := s.decodePlan(w, r, &req, &req)
	if !ok {
		return
	}
	waypointID := domain.WaypointID(chi.URLParam(r, "waypointID"))

	if err := s.Schedules.MarkVisitComplete(r.Context(), plan, waypointID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	var req calendarRequest
	plan, ok := s.decodePlan(w, r, &req, &req.dayPlanRequest)
	if !ok {
		return
	}

	res, err := s.Schedules.BuildDay(r.Context(), plan)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	ics := exports.Calendar(res.Items, req.OwnerName, plan.Scope.Date)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="route-`+plan.Scope.Date.Format("2006-01-02")+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}

func (s *Server) handleNavigationLink(w http.ResponseWriter, r *http.Request) {
	var req dayPlanRequest
	plan, ok := s.decodePlan(w, r, &req, &req)
	if !ok {
		return
	}

	remaining, err := s.Schedules.RemainingWaypoints(r.Context(), plan)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	link, err := exports.NavigationLink(remaining, plan.Home)
	if err != nil {
		if errors.Is(err, exports.ErrNoWaypoints) {
			writeError(w, r, http.StatusConflict, "NOTHING_TO_NAVIGATE", "no remaining waypoints with coordinates", nil)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, navigationLinkResponse{URL: link})
}

// decodePlan decodes the request body into dst and converts its embedded
// dayPlanRequest into a schedule.DayPlan for the authenticated manager.
// On failure it writes the error response and returns ok=false.
func (s *Server) decodePlan(w http.ResponseWriter, r *http.Request, dst any, planPart *dayPlanRequest) (schedule.DayPlan, bool) {
	mgr, ok := ManagerFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing manager identity", nil)
		return schedule.DayPlan{}, false
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "request body is not valid JSON", nil)
		return schedule.DayPlan{}, false
	}

	if planPart.Date.Time.IsZero() {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid date", map[string]any{"date": "must be set (YYYY-MM-DD)"})
		return schedule.DayPlan{}, false
	}
	if planPart.Region == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid region", map[string]any{"region": "must be non-empty"})
		return schedule.DayPlan{}, false
	}
	for i, wp := range planPart.Waypoints {
		if wp.ID == "" {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid waypoint", map[string]any{"waypoints": "entry " + strconv.Itoa(i) + " is missing an id"})
			return schedule.DayPlan{}, false
		}
		if (wp.Latitude == nil) != (wp.Longitude == nil) {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid waypoint", map[string]any{"waypoints": "entry " + strconv.Itoa(i) + " has a partial coordinate"})
			return schedule.DayPlan{}, false
		}
	}

	return schedule.DayPlan{
		Scope: domain.ScheduleScope{
			Manager: mgr,
			Date:    planPart.Date.Time,
			Region:  planPart.Region,
		},
		Waypoints: toDomainWaypoints(planPart.Waypoints),
		Home:      toDomainHome(planPart.Home),
	}, true
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *schedule.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	s.Log.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled service error")
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func toDomainWaypoints(in []waypointDTO) []domain.Waypoint {
	out := make([]domain.Waypoint, 0, len(in))
	for _, wp := range in {
		dw := domain.Waypoint{
			ID:       domain.WaypointID(wp.ID),
			Name:     wp.Name,
			Postcode: wp.Postcode,
		}
		if wp.Latitude != nil && wp.Longitude != nil {
			dw.Coordinate = &domain.Coordinate{Latitude: *wp.Latitude, Longitude: *wp.Longitude}
		}
		out = append(out, dw)
	}
	return out
}

func toDomainHome(in *homeBaseDTO) *domain.HomeBase {
	if in == nil {
		return nil
	}
	return &domain.HomeBase{
		Coordinate: domain.Coordinate{Latitude: in.Latitude, Longitude: in.Longitude},
		Address:    in.Address,
	}
}

func toScheduleResponse(res schedule.BuildResult) scheduleResponse {
	items := make([]timelineItemDTO, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, toTimelineItemDTO(it))
	}
	return scheduleResponse{Items: items, MissingCoordinates: res.MissingCoordinates}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

