package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
)

type ActivityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewActivityRepository(db *pgxpool.Pool, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{db: db, logger: logger}
}

func (r *ActivityRepository) Append(ctx context.Context, a *model.Activity) error {
	data, err := json.Marshal(a.Data)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO activities (id, user_id, activity, timestamp, data)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := r.db.Exec(ctx, query, a.ID, a.UserID, a.Activity, a.Timestamp, data); err != nil {
		r.logger.Error("Failed to append activity",
			zap.Error(err),
			zap.String("user_id", a.UserID),
			zap.String("activity", a.Activity),
		)
		return err
	}
	return nil
}

func (r *ActivityRepository) Latest(ctx context.Context, userID string) (*model.Activity, error) {
	query := `
        SELECT id, user_id, activity, timestamp, data
        FROM activities
        WHERE user_id = $1
        ORDER BY timestamp DESC
        LIMIT 1
    `
	a, err := scanActivity(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *ActivityRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]model.Activity, error) {
	query := `
        SELECT id, user_id, activity, timestamp, data
        FROM activities
        WHERE user_id = $1 AND timestamp >= $2
        ORDER BY timestamp ASC
    `
	rows, err := r.db.Query(ctx, query, userID, since)
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
	var data []byte
	if err := row.Scan(&a.ID, &a.UserID, &a.Activity, &a.Timestamp, &data); err != nil {
		return nil, err
	}
	a.Data = map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &a.Data); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
