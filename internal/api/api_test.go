package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexanderramin/gantt/internal/contract"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnv struct {
	handler  http.Handler
	projects *repository.SQLiteProjectRepo
	tasks    *repository.SQLiteTaskRepo
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)
	runs := repository.NewSQLiteScheduleRunRepo(database)

	schedules := service.NewScheduleService(projects, runs, uow, nil)
	h := NewHandler(Services{
		Projects:     service.NewProjectService(projects),
		Tasks:        service.NewTaskService(tasks, uow),
		Dependencies: service.NewDependencyService(deps, uow),
		Schedules:    schedules,
		Gantt:        service.NewGanttService(projects, tasks, deps, nil),
		Imports:      service.NewImportService(projects, schedules),
	}, nil, "")
	return &apiEnv{handler: h.Router(), projects: projects, tasks: tasks}
}

func (e *apiEnv) seedProject(t *testing.T) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Api")
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *apiEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestProjects_CreateListGet(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/projects",
		`{"short_id":"HSE01","name":"House","start_date":"2025-06-02","working_days":"mon-sat"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[contract.Project](t, rec)
	assert.Equal(t, "1111110", created.WorkingDays)

	rec = env.do(t, http.MethodGet, "/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]contract.Project](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/projects/hse01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeBody[contract.Project](t, rec).ID)

	rec = env.do(t, http.MethodGet, "/projects/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[contract.Error](t, rec).Code)
}

func TestProjects_BadBody(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/projects", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/projects", `{"short_id":"bad","name":"X","start_date":"2025-06-02"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION", decodeBody[contract.Error](t, rec).Code)
}

func TestSetCalendar(t *testing.T) {
	env := newAPIEnv(t)
	p := env.seedProject(t)

	rec := env.do(t, http.MethodPut, "/projects/"+p.ID+"/calendar", `{"working_days":"0000000"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPut, "/projects/"+p.ID+"/calendar", `{"working_days":"1010100"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1010100", decodeBody[contract.Project](t, rec).WorkingDays)
}

func TestTasks_CreateUpdateMoveDelete(t *testing.T) {
	env := newAPIEnv(t)
	p := env.seedProject(t)
	base := "/projects/" + p.ID + "/tasks"

	rec := env.do(t, http.MethodPost, base, `{"title":"Stage","start_date":"2025-06-02","end_date":"2025-06-06"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	stage := decodeBody[contract.Task](t, rec)
	assert.Equal(t, 5, stage.DurationDays)

	rec = env.do(t, http.MethodPost, base, `{"title":"Dig","duration_days":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dig := decodeBody[contract.Task](t, rec)
	assert.Equal(t, "2025-06-02", dig.StartDate)
	assert.Equal(t, "2025-06-04", dig.EndDate)

	rec = env.do(t, http.MethodPut, "/tasks/"+dig.ID, `{"parent_id":"`+stage.ID+`","progress_pct":50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	moved := decodeBody[contract.Task](t, rec)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, stage.ID, *moved.ParentID)
	assert.Equal(t, 50, moved.ProgressPct)

	// The stage is now a summary; its end follows its only child.
	rec = env.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, task := range decodeBody[[]contract.Task](t, rec) {
		if task.ID == stage.ID {
			assert.Equal(t, "2025-06-04", task.EndDate)
		}
	}

	rec = env.do(t, http.MethodPut, "/tasks/"+stage.ID, `{"end_date":"2025-06-20"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPut, "/tasks/"+stage.ID, `{"parent_id":"`+dig.ID+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, "/tasks/"+dig.ID, `{"start_date":"June"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodDelete, "/tasks/"+dig.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, "/tasks/"+dig.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDependencies(t *testing.T) {
	env := newAPIEnv(t)
	p := env.seedProject(t)
	a := testutil.NewTestTask(p.ID, "A")
	b := testutil.NewTestTask(p.ID, "B")
	require.NoError(t, env.tasks.Create(context.Background(), a))
	require.NoError(t, env.tasks.Create(context.Background(), b))
	base := "/projects/" + p.ID + "/dependencies"

	rec := env.do(t, http.MethodPost, base, `{"predecessor_id":"`+a.ID+`","successor_id":"`+b.ID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, base, `{"predecessor_id":"`+b.ID+`","successor_id":"`+a.ID+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, base, `{"predecessor_id":"`+a.ID+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]contract.Dependency](t, rec), 1)

	rec = env.do(t, http.MethodDelete, base+"?predecessor="+a.ID+"&successor="+b.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

const estimateBody = `{
	"origin": "estimate",
	"mode": "detailed",
	"estimate": {
		"stages": [{"ref": "s1", "name": "Groundwork", "order": 1}],
		"tasks": [
			{"ref": "t1", "stage_ref": "s1", "name": "Excavate", "duration_days": 2, "order": 1},
			{"ref": "t2", "stage_ref": "s1", "name": "Pour", "duration_days": 3, "order": 2}
		]
	}
}`

func TestRegenerateAndGantt(t *testing.T) {
	env := newAPIEnv(t)
	p := env.seedProject(t)
	base := "/projects/" + p.ID

	rec := env.do(t, http.MethodPost, base+"/schedule", estimateBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[contract.Regenerate](t, rec)
	assert.Equal(t, "detailed", res.Mode)
	assert.Equal(t, 3, res.TaskCount)
	assert.Equal(t, "2025-06-02", res.Start)
	assert.Equal(t, "2025-06-06", res.End)

	rec = env.do(t, http.MethodGet, base+"/gantt?zoom=day&today=2025-06-03", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	g := decodeBody[contract.Gantt](t, rec)
	assert.Equal(t, 40, g.DayWidth)
	require.Len(t, g.Rows, 3)
	assert.Equal(t, "summary", g.Rows[0].Kind)
	assert.Equal(t, "1.2", g.Rows[2].WBS)
	require.NotNil(t, g.TodayX)

	stageID := g.Rows[0].Task.ID
	rec = env.do(t, http.MethodGet, base+"/gantt?collapsed="+stageID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	collapsed := decodeBody[contract.Gantt](t, rec)
	assert.Len(t, collapsed.Rows, 1)
	assert.Equal(t, 3, collapsed.TaskCount)
	assert.Equal(t, g.RangeStart, collapsed.RangeStart)

	rec = env.do(t, http.MethodGet, base+"/gantt?zoom=year", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeBody[contract.Error](t, rec).Code)

	rec = env.do(t, http.MethodGet, base+"/schedule/runs?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decodeBody[[]contract.ScheduleRun](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, "succeeded", runs[0].Status)
}

func TestRegenerate_ValidationDetails(t *testing.T) {
	env := newAPIEnv(t)
	p := env.seedProject(t)

	body := strings.Replace(estimateBody, `"duration_days": 2`, `"duration_days": -2`, 1)
	rec := env.do(t, http.MethodPost, "/projects/"+p.ID+"/schedule", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeBody[contract.Error](t, rec)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.NotEmpty(t, e.Details)
}

func TestCORSPreflightAndUnknownRoute(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodOptions, "/projects", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = env.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
