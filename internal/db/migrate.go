package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id           TEXT PRIMARY KEY,
		short_id     TEXT NOT NULL,
		name         TEXT NOT NULL,
		start_date   TEXT NOT NULL,
		deadline     TEXT,
		working_days TEXT NOT NULL DEFAULT '1111100',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	// Columns added after the first release; no-ops on fresh databases.
	`ALTER TABLE projects ADD COLUMN deadline TEXT`,
	`ALTER TABLE projects ADD COLUMN working_days TEXT NOT NULL DEFAULT '1111100'`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id     TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		title         TEXT NOT NULL,
		start_date    TEXT NOT NULL,
		end_date      TEXT NOT NULL,
		duration_days INTEGER NOT NULL DEFAULT 0 CHECK(duration_days >= 0),
		progress_pct  INTEGER NOT NULL DEFAULT 0 CHECK(progress_pct BETWEEN 0 AND 100),
		is_milestone  INTEGER NOT NULL DEFAULT 0,
		sort_order    INTEGER NOT NULL DEFAULT 0,
		color         TEXT NOT NULL DEFAULT '',
		source        TEXT NOT NULL DEFAULT 'manual'
		              CHECK(source IN ('manual','estimate','cost_estimate','offer')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		CHECK(end_date >= start_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		predecessor_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		PRIMARY KEY (predecessor_id, successor_id),
		CHECK(predecessor_id <> successor_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_dependencies_project ON task_dependencies(project_id)`,

	`CREATE TABLE IF NOT EXISTS schedule_runs (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		mode          TEXT NOT NULL CHECK(mode IN ('general','detailed')),
		status        TEXT NOT NULL CHECK(status IN ('succeeded','failed')),
		task_count    INTEGER NOT NULL DEFAULT 0,
		warning_count INTEGER NOT NULL DEFAULT 0,
		error         TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedule_runs_project ON schedule_runs(project_id, created_at)`,
}
