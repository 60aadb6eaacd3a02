package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/contract"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorStatus(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, contract.Error{Code: code, Message: msg})
}

// writeError maps service errors to HTTP statuses. Anything unrecognised is
// logged and reported as 500 without its message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeErrorStatus(w, status, code, "internal error")
		return
	}

	msg := err.Error()
	body := contract.Error{Code: code, Message: msg}
	if lines := strings.Split(msg, "\n"); len(lines) > 1 {
		body.Message = strings.TrimSuffix(lines[0], ":")
		for _, l := range lines[1:] {
			body.Details = append(body.Details, strings.TrimPrefix(strings.TrimSpace(l), "- "))
		}
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, string) {
	var se *app.ScheduleError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrDependencyCycle), errors.Is(err, service.ErrParentCycle):
		return http.StatusConflict, "CYCLE"
	case errors.As(err, &se):
		if se.Code == app.ScheduleErrPersistFailed {
			return http.StatusInternalServerError, string(se.Code)
		}
		return http.StatusUnprocessableEntity, string(se.Code)
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidDependency),
		errors.Is(err, service.ErrInvalidParent),
		errors.Is(err, service.ErrSummaryDates):
		return http.StatusUnprocessableEntity, "VALIDATION"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
