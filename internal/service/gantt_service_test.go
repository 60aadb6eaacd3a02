package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/alexanderramin/gantt/internal/timeline"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDetailedSchedule(t *testing.T, env *testEnv, proj *domain.Project) *app.RegenerateResult {
	t.Helper()
	req := generalRequest(proj.ID)
	req.Mode = domain.ModeDetailed
	res, err := NewScheduleService(env.projects, env.runs, env.uow, nil).Regenerate(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestGanttService_LaysOutRows(t *testing.T) {
	env := newTestEnv(t)
	proj := env.seedProject(t)
	res := seedDetailedSchedule(t, env, proj)
	svc := NewGanttService(env.projects, env.tasks, env.deps, nil)

	req := app.NewGanttRequest(proj.ID)
	req.Zoom = timeline.ZoomDay
	today := testutil.Day(1)
	req.Today = &today

	resp, err := svc.Gantt(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TaskCount)
	assert.Empty(t, resp.Warnings)
	assert.Equal(t, 40, resp.Chart.DayWidth)

	require.Len(t, resp.Chart.Rows, 3)
	stage := resp.Chart.Rows[0]
	assert.Equal(t, res.Tasks[0].ID, stage.Node.ID())
	assert.Equal(t, "1", stage.Node.WBS)
	assert.Equal(t, tree.KindSummary, stage.Node.Kind)
	assert.Equal(t, "1.2", resp.Chart.Rows[2].Node.WBS)
	require.NotNil(t, resp.Chart.TodayX)
}

func TestGanttService_CollapseKeepsAxis(t *testing.T) {
	env := newTestEnv(t)
	proj := env.seedProject(t)
	res := seedDetailedSchedule(t, env, proj)
	svc := NewGanttService(env.projects, env.tasks, env.deps, nil)
	ctx := context.Background()

	full, err := svc.Gantt(ctx, app.NewGanttRequest(proj.ID))
	require.NoError(t, err)

	req := app.NewGanttRequest(proj.ID)
	req.Collapsed = []string{res.Tasks[0].ID}
	collapsed, err := svc.Gantt(ctx, req)
	require.NoError(t, err)

	require.Len(t, collapsed.Chart.Rows, 1)
	assert.False(t, collapsed.Chart.Rows[0].Expanded)
	assert.Equal(t, full.Chart.Range, collapsed.Chart.Range)
	assert.Equal(t, 3, collapsed.TaskCount)
}

func TestGanttService_DeadlineOverrunWarning(t *testing.T) {
	env := newTestEnv(t)
	proj := env.seedProject(t, testutil.WithDeadline(testutil.Day(2)))
	late := env.seedTask(t, proj.ID, "Late", testutil.WithDays(1, 4))
	env.seedTask(t, proj.ID, "Early", testutil.WithDays(0, 1))
	svc := NewGanttService(env.projects, env.tasks, env.deps, nil)

	resp, err := svc.Gantt(context.Background(), app.NewGanttRequest(proj.ID))
	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, app.WarningDeadlineOverrun, resp.Warnings[0].Code)
	assert.Equal(t, late.ID, resp.Warnings[0].TaskID)
	assert.Contains(t, resp.Warnings[0].Message, "2 days after the deadline")
}

func TestGanttService_LinksBetweenVisibleRows(t *testing.T) {
	env := newTestEnv(t)
	proj := env.seedProject(t)
	a := env.seedTask(t, proj.ID, "A", testutil.WithDays(0, 1), testutil.WithSortOrder(0))
	b := env.seedTask(t, proj.ID, "B", testutil.WithDays(2, 3), testutil.WithSortOrder(1))
	_, err := NewDependencyService(env.deps, env.uow).Add(context.Background(), a.ID, b.ID)
	require.NoError(t, err)

	resp, err := NewGanttService(env.projects, env.tasks, env.deps, nil).
		Gantt(context.Background(), app.NewGanttRequest(proj.ID))
	require.NoError(t, err)
	require.Len(t, resp.Chart.Links, 1)
	assert.Equal(t, 0, resp.Chart.Links[0].FromRow)
	assert.Equal(t, 1, resp.Chart.Links[0].ToRow)
}

func TestGanttService_Errors(t *testing.T) {
	env := newTestEnv(t)
	proj := env.seedProject(t)
	svc := NewGanttService(env.projects, env.tasks, env.deps, nil)

	req := app.NewGanttRequest(proj.ID)
	req.Zoom = "year"
	_, err := svc.Gantt(context.Background(), req)
	assert.True(t, IsScheduleError(err, app.ScheduleErrInvalidInput))

	_, err = svc.Gantt(context.Background(), app.NewGanttRequest("missing"))
	assert.Error(t, err)
}
