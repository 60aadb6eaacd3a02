package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
)

type SQLiteScheduleRunRepo struct {
	db db.DBTX
}

func NewSQLiteScheduleRunRepo(db db.DBTX) *SQLiteScheduleRunRepo {
	return &SQLiteScheduleRunRepo{db: db}
}

func (r *SQLiteScheduleRunRepo) Create(ctx context.Context, run *domain.ScheduleRun) error {
	query := `INSERT INTO schedule_runs (id, project_id, mode, status, task_count, warning_count, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.ProjectID,
		string(run.Mode),
		string(run.Status),
		run.TaskCount,
		run.WarningCount,
		run.Error,
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule run: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRunRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.ScheduleRun, error) {
	query := `SELECT id, project_id, mode, status, task_count, warning_count, error, created_at
		FROM schedule_runs WHERE project_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{projectID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing schedule runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.ScheduleRun
	for rows.Next() {
		var run domain.ScheduleRun
		var mode, status, createdAtStr string
		if err := rows.Scan(&run.ID, &run.ProjectID, &mode, &status, &run.TaskCount,
			&run.WarningCount, &run.Error, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning schedule run: %w", err)
		}
		run.Mode = domain.ScheduleMode(mode)
		run.Status = domain.RunStatus(status)
		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing schedule run created_at: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule runs: %w", err)
	}
	return runs, nil
}
