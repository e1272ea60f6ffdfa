package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
)

const taskColumns = `id, user_id, title, description, priority, estimated_duration, status,
        created_at, date, micro_steps, points_value, completed_at`

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Inserting task",
		zap.String("user_id", t.UserID),
		zap.String("title", t.Title),
		zap.String("date", t.Date),
	)
	steps, err := json.Marshal(t.MicroSteps)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO tasks (id, user_id, title, description, priority, estimated_duration,
                           status, created_at, date, micro_steps, points_value)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err = r.db.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		string(t.Priority),
		t.EstimatedDuration,
		string(t.Status),
		t.CreatedAt,
		t.Date,
		steps,
		t.PointsValue,
	)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("user_id", t.UserID),
		)
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
        FROM tasks
        WHERE id = $1 AND user_id = $2
    `
	row := r.db.QueryRow(ctx, query, taskID, userID)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, userID, taskID string, at time.Time) error {
	r.logger.Debug("Marking task as completed", zap.String("task_id", taskID))
	query := `
        UPDATE tasks
        SET status = 'completed', completed_at = $3
        WHERE id = $1 AND user_id = $2
    `
	result, err := r.db.Exec(ctx, query, taskID, userID, at)
	if err != nil {
		r.logger.Error("Failed to mark task as completed",
			zap.Error(err),
			zap.String("task_id", taskID),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	r.logger.Info("Task marked as completed", zap.String("task_id", taskID))
	return nil
}

func (r *TaskRepository) ListByDate(ctx context.Context, userID, day string, status model.TaskStatus) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks
        WHERE user_id = $1
          AND date = $2
          AND ($3::text = '' OR status = $3::text)
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID, day, string(status))
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.String("user_id", userID),
		)
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
	var since *time.Time
	if !filter.CreatedSince.IsZero() {
		since = &filter.CreatedSince
	}
	query := `
        SELECT COUNT(*)
        FROM tasks
        WHERE user_id = $1
          AND ($2::text = '' OR status = $2::text)
          AND ($3::text = '' OR date = $3::text)
          AND ($4::timestamptz IS NULL OR created_at >= $4::timestamptz)
    `
	var n int
	err := r.db.QueryRow(ctx, query, userID, string(filter.Status), filter.Date, since).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.Task, error) {
	var t model.Task
	var priority, status string
	var steps []byte
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&priority,
		&t.EstimatedDuration,
		&status,
		&t.CreatedAt,
		&t.Date,
		&steps,
		&t.PointsValue,
		&t.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Priority = model.Priority(priority)
	t.Status = model.TaskStatus(status)
	t.MicroSteps = []string{}
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &t.MicroSteps); err != nil {
			return nil, err
		}
	}
	return &t, nil
}
