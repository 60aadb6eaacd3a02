package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/contract"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/gorilla/mux"
)

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	tasks, err := h.svc.Tasks.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TasksFrom(tasks))
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	var body contract.TaskBody
	if !decode(w, r, &body) {
		return
	}
	t := &domain.Task{ProjectID: p.ID, ParentID: body.ParentID}
	if err := applyTaskBody(t, body); err != nil {
		h.writeError(w, r, invalid(err))
		return
	}
	if err := h.svc.Tasks.Create(r.Context(), t); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract.TaskFrom(t))
}

// UpdateTask applies the fields present in the body. A parent_id moves the
// task (empty string makes it a root); the rest is a plain update.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["taskID"]
	var body contract.TaskBody
	if !decode(w, r, &body) {
		return
	}
	t, err := h.svc.Tasks.GetByID(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := applyTaskBody(t, body); err != nil {
		h.writeError(w, r, invalid(err))
		return
	}
	if err := h.svc.Tasks.Update(ctx, t); err != nil {
		h.writeError(w, r, err)
		return
	}
	if body.ParentID != nil {
		if t, err = h.svc.Tasks.Move(ctx, id, body.ParentID, body.SortOrder); err != nil {
			h.writeError(w, r, err)
			return
		}
	} else if t, err = h.svc.Tasks.GetByID(ctx, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TaskFrom(t))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tasks.Delete(r.Context(), mux.Vars(r)["taskID"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func applyTaskBody(t *domain.Task, b contract.TaskBody) error {
	if b.Title != nil {
		t.Title = *b.Title
	}
	if b.StartDate != nil {
		d, err := parseDate("start_date", *b.StartDate)
		if err != nil {
			return err
		}
		t.StartDate = d
	}
	if b.EndDate != nil {
		d, err := parseDate("end_date", *b.EndDate)
		if err != nil {
			return err
		}
		t.EndDate = d
	}
	if b.DurationDays != nil {
		t.DurationDays = *b.DurationDays
	}
	if b.ProgressPct != nil {
		t.ProgressPct = *b.ProgressPct
	}
	if b.IsMilestone != nil {
		t.IsMilestone = *b.IsMilestone
	}
	if b.SortOrder != nil {
		t.SortOrder = *b.SortOrder
	}
	if b.Color != nil {
		t.Color = *b.Color
	}
	return nil
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM-DD, got %q", field, s)
	}
	return d, nil
}

func optionalDate(d time.Time) *time.Time {
	if d.IsZero() {
		return nil
	}
	return &d
}
