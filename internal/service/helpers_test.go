package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	database *sql.DB
	uow      db.UnitOfWork
	projects *repository.SQLiteProjectRepo
	tasks    *repository.SQLiteTaskRepo
	deps     *repository.SQLiteDependencyRepo
	runs     *repository.SQLiteScheduleRunRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		database: database,
		uow:      testutil.NewTestUoW(database),
		projects: repository.NewSQLiteProjectRepo(database),
		tasks:    repository.NewSQLiteTaskRepo(database),
		deps:     repository.NewSQLiteDependencyRepo(database),
		runs:     repository.NewSQLiteScheduleRunRepo(database),
	}
}

func (e *testEnv) seedProject(t *testing.T, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Seeded", opts...)
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *testEnv) seedTask(t *testing.T, projectID, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(projectID, title, opts...)
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func (e *testEnv) task(t *testing.T, id string) *domain.Task {
	t.Helper()
	got, err := e.tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return got
}

func intPtr(i int) *int { return &i }
