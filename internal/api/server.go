// Package api serves projects, tasks and render-ready Gantt charts as JSON
// for a separate rendering client.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/timeline"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Services are the use cases the handlers call.
type Services struct {
	Projects     service.ProjectService
	Tasks        service.TaskService
	Dependencies service.DependencyService
	Schedules    service.ScheduleService
	Gantt        service.GanttService
	Imports      service.ImportService
}

type Handler struct {
	svc         Services
	log         logrus.FieldLogger
	defaultZoom timeline.Zoom
}

func NewHandler(svc Services, logger logrus.FieldLogger, defaultZoom timeline.Zoom) *Handler {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(discard{})
		logger = l
	}
	if defaultZoom == "" {
		defaultZoom = timeline.ZoomWeek
	}
	return &Handler{svc: svc, log: logger, defaultZoom: defaultZoom}
}

// Router registers every route on a new mux router wrapped in request
// logging and CORS.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/projects", h.ListProjects).Methods(http.MethodGet)
	r.HandleFunc("/projects", h.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}", h.GetProject).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}", h.DeleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/projects/{id}/calendar", h.SetCalendar).Methods(http.MethodPut)

	r.HandleFunc("/projects/{id}/tasks", h.ListTasks).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}/tasks", h.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{taskID}", h.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{taskID}", h.DeleteTask).Methods(http.MethodDelete)

	r.HandleFunc("/projects/{id}/dependencies", h.ListDependencies).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}/dependencies", h.AddDependency).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}/dependencies", h.RemoveDependency).Methods(http.MethodDelete)

	r.HandleFunc("/projects/{id}/schedule", h.Regenerate).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}/schedule/runs", h.ListRuns).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}/gantt", h.Gantt).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorStatus(w, http.StatusNotFound, "NOT_FOUND", "no such route")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Use(h.logRequests)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := h.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Error("http_request")
			return
		}
		entry.Info("http_request")
	})
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
