package api

import (
	"net/http"

	"github.com/alexanderramin/gantt/internal/contract"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/gorilla/mux"
)

// project resolves the {id} route variable, which may be a short id.
func (h *Handler) project(w http.ResponseWriter, r *http.Request) (*domain.Project, bool) {
	p, err := h.svc.Projects.Resolve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Projects.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.ProjectsFrom(projects))
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body importer.ProjectImport
	if !decode(w, r, &body) {
		return
	}
	p, err := importer.ConvertProject(&body)
	if err != nil {
		h.writeError(w, r, invalid(err))
		return
	}
	if err := h.svc.Projects.Create(r.Context(), p); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract.ProjectFrom(p))
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, contract.ProjectFrom(p))
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	if err := h.svc.Projects.Delete(r.Context(), p.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetCalendar(w http.ResponseWriter, r *http.Request) {
	p, ok := h.project(w, r)
	if !ok {
		return
	}
	var body contract.CalendarBody
	if !decode(w, r, &body) {
		return
	}
	mask, err := body.Mask()
	if err != nil {
		h.writeError(w, r, invalid(err))
		return
	}
	updated, err := h.svc.Projects.SetCalendar(r.Context(), p.ID, mask)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.ProjectFrom(updated))
}

func invalid(err error) error {
	return &validationError{err: err}
}

type validationError struct{ err error }

func (e *validationError) Error() string { return e.err.Error() }

func (e *validationError) Unwrap() []error { return []error{service.ErrValidation, e.err} }
