package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
)

type ActivityRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func (r *ActivityRepository) Append(ctx context.Context, a *model.Activity) error {
	data, err := json.Marshal(a.Data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO activities (id, user_id, activity, timestamp, data)
        VALUES (?, ?, ?, ?, ?)
    `, a.ID, a.UserID, a.Activity, formatTime(a.Timestamp), string(data))
	if err != nil {
		r.logger.Error("Failed to append activity",
			zap.Error(err),
			zap.String("user_id", a.UserID),
			zap.String("activity", a.Activity),
		)
	}
	return err
}

func (r *ActivityRepository) Latest(ctx context.Context, userID string) (*model.Activity, error) {
	a, err := scanActivity(r.db.QueryRowContext(ctx, `
        SELECT id, user_id, activity, timestamp, data
        FROM activities WHERE user_id = ?
        ORDER BY timestamp DESC, rowid DESC
        LIMIT 1
    `, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *ActivityRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]model.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, activity, timestamp, data
        FROM activities WHERE user_id = ? AND timestamp >= ?
        ORDER BY timestamp ASC, rowid ASC
    `, userID, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func scanActivity(row rowScanner) (*model.Activity, error) {
	var a model.Activity
	var ts, data string
	if err := row.Scan(&a.ID, &a.UserID, &a.Activity, &ts, &data); err != nil {
		return nil, err
	}
	var err error
	if a.Timestamp, err = parseTime(ts); err != nil {
		return nil, err
	}
	a.Data = map[string]any{}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &a.Data); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
