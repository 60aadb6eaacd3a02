package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/contract"
	"github.com/alexanderramin/gantt/internal/timeline"
)

func (h *Handler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	deps, err := h.svc.Dependencies.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.DependenciesFrom(deps))
}

func (h *Handler) AddDependency(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	var body contract.DependencyBody
	if !decode(w, r, &body) {
		return
	}
	if err := body.Validate(); err != nil {
		h.writeError(w, r, invalid(err))
		return
	}
	pred, err := h.svc.Tasks.GetByID(r.Context(), body.PredecessorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if pred.ProjectID != p.ID {
		h.writeError(w, r, invalid(fmt.Errorf("task %s is not in project %s", pred.ID, p.DisplayID())))
		return
	}
	dep, err := h.svc.Dependencies.Add(r.Context(), body.PredecessorID, body.SuccessorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract.Dependency{PredecessorID: dep.PredecessorID, SuccessorID: dep.SuccessorID})
}

// RemoveDependency takes the link ends from the predecessor and successor
// query parameters.
func (h *Handler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.project(w, r); !ok {
		return
	}
	q := r.URL.Query()
	body := contract.DependencyBody{PredecessorID: q.Get("predecessor"), SuccessorID: q.Get("successor")}
	if err := body.Validate(); err != nil {
		h.writeError(w, r, invalid(err))
		return
	}
	if err := h.svc.Dependencies.Remove(r.Context(), body.PredecessorID, body.SuccessorID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	var body contract.RegenerateBody
	if !decode(w, r, &body) {
		return
	}
	start, err := parseDate("start_date", body.StartDate)
	if err != nil {
		h.writeError(w, r, invalid(err))
		return
	}
	schema := body.ImportSchema
	schema.Project = nil
	res, err := h.svc.Imports.RegenerateFromSchema(r.Context(), p.ID, &schema, optionalDate(start))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.RegenerateFrom(res))
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, r, invalid(fmt.Errorf("limit must be a non-negative integer")))
			return
		}
		limit = n
	}
	runs, err := h.svc.Schedules.ListRuns(r.Context(), p.ID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.RunsFrom(runs))
}

// Gantt accepts zoom, collapsed (comma separated task ids) and today.
func (h *Handler) Gantt(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	req := app.NewGanttRequest(p.ID)
	req.Zoom = h.defaultZoom
	if z := q.Get("zoom"); z != "" {
		req.Zoom = timeline.Zoom(z)
	}
	for _, id := range strings.Split(q.Get("collapsed"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			req.Collapsed = append(req.Collapsed, id)
		}
	}
	if v := q.Get("today"); v != "" {
		today, err := calendar.ParseDate(v)
		if err != nil {
			h.writeError(w, r, invalid(fmt.Errorf("today: want YYYY-MM-DD, got %q", v)))
			return
		}
		req.Today = &today
	}

	resp, err := h.svc.Gantt.Gantt(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.GanttFrom(resp))
}
