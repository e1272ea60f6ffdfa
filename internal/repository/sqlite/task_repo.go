package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
)

const taskColumns = `id, user_id, title, description, priority, estimated_duration, status,
        created_at, date, micro_steps, points_value, completed_at`

type TaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	steps, err := json.Marshal(t.MicroSteps)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO tasks (id, user_id, title, description, priority, estimated_duration,
                           status, created_at, date, micro_steps, points_value)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		string(t.Priority),
		t.EstimatedDuration,
		string(t.Status),
		formatTime(t.CreatedAt),
		t.Date,
		string(steps),
		t.PointsValue,
	)
	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err), zap.String("user_id", t.UserID))
		return err
	}
	r.logger.Info("Task inserted successfully",
		zap.String("task_id", t.ID),
		zap.String("user_id", t.UserID),
	)
	return nil
}

func (r *TaskRepository) FindForUser(ctx context.Context, userID, taskID string) (*model.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks WHERE id = ? AND user_id = ?
    `
	t, err := scanTask(r.db.QueryRowContext(ctx, query, taskID, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, userID, taskID string, at time.Time) error {
	query := `
        UPDATE tasks SET status = 'completed', completed_at = ?
        WHERE id = ? AND user_id = ?
    `
	result, err := r.db.ExecContext(ctx, query, formatTime(at), taskID, userID)
	if err != nil {
		r.logger.Error("Failed to mark task as completed", zap.Error(err), zap.String("task_id", taskID))
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	r.logger.Info("Task marked as completed", zap.String("task_id", taskID))
	return nil
}

func (r *TaskRepository) ListByDate(ctx context.Context, userID, day string, status model.TaskStatus) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks
        WHERE user_id = ? AND date = ? AND (? = '' OR status = ?)
        ORDER BY created_at ASC, rowid ASC
    `
	rows, err := r.db.QueryContext(ctx, query, userID, day, string(status), string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Count(ctx context.Context, userID string, filter repository.TaskCountFilter) (int, error) {
	since := ""
	if !filter.CreatedSince.IsZero() {
		since = formatTime(filter.CreatedSince)
	}
	query := `
        SELECT COUNT(*) FROM tasks
        WHERE user_id = ?
          AND (? = '' OR status = ?)
          AND (? = '' OR date = ?)
          AND (? = '' OR created_at >= ?)
    `
	var n int
	err := r.db.QueryRowContext(ctx, query,
		userID,
		string(filter.Status), string(filter.Status),
		filter.Date, filter.Date,
		since, since,
	).Scan(&n)
	return n, err
}

func scanTask(row rowScanner) (*model.Task, error) {
	var t model.Task
	var priority, status, created, steps string
	var completed sql.NullString
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&priority,
		&t.EstimatedDuration,
		&status,
		&created,
		&t.Date,
		&steps,
		&t.PointsValue,
		&completed,
	)
	if err != nil {
		return nil, err
	}
	t.Priority = model.Priority(priority)
	t.Status = model.TaskStatus(status)
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if completed.Valid {
		at, err := parseTime(completed.String)
		if err != nil {
			return nil, err
		}
		t.CompletedAt = &at
	}
	t.MicroSteps = []string{}
	if steps != "" {
		if err := json.Unmarshal([]byte(steps), &t.MicroSteps); err != nil {
			return nil, err
		}
	}
	return &t, nil
}
