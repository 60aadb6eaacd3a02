package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, parent_id, title, start_date, end_date, duration_days,
		progress_pct, is_milestone, sort_order, color, source, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(t.ParentID),
		t.Title,
		t.StartDate.Format(dateLayout),
		t.EndDate.Format(dateLayout),
		t.DurationDays,
		t.ProgressPct,
		boolToInt(t.IsMilestone),
		t.SortOrder,
		t.Color,
		string(t.Source),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return r.scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ?
		ORDER BY sort_order, start_date, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE parent_id = ? ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_id = ?, title = ?, start_date = ?, end_date = ?,
		duration_days = ?, progress_pct = ?, is_milestone = ?, sort_order = ?, color = ?,
		source = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(t.ParentID),
		t.Title,
		t.StartDate.Format(dateLayout),
		t.EndDate.Format(dateLayout),
		t.DurationDays,
		t.ProgressPct,
		boolToInt(t.IsMilestone),
		t.SortOrder,
		t.Color,
		string(t.Source),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task")
}

// Delete re-parents the task's children to NULL before removing it.
// Children are never deleted with their parent.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET parent_id = NULL, updated_at = ? WHERE parent_id = ?`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("detaching child tasks: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *SQLiteTaskRepo) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks of project %s: %w", projectID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tasks: %w", err)
	}
	return n, nil
}

func (r *SQLiteTaskRepo) scanTask(row scanner) (*domain.Task, error) {
	var t domain.Task
	var parentID sql.NullString
	var startStr, endStr, sourceStr, createdAtStr, updatedAtStr string
	var milestone int

	err := row.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.Title, &startStr, &endStr, &t.DurationDays,
		&t.ProgressPct, &milestone, &t.SortOrder, &t.Color, &sourceStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	if parentID.Valid {
		t.ParentID = &parentID.String
	}
	t.IsMilestone = intToBool(milestone)
	t.Source = domain.TaskSource(sourceStr)
	if t.StartDate, err = parseDate("task start_date", startStr); err != nil {
		return nil, err
	}
	if t.EndDate, err = parseDate("task end_date", endStr); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp("task created_at", createdAtStr); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp("task updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}
