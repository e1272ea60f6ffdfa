package sqlite

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
)

type StatsRepository struct {
	db     *sql.DB
	clock  clock.Clock
	logger *zap.Logger
}

func (r *StatsRepository) Get(ctx context.Context, userID string) (*model.AccountStats, error) {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO user_stats (user_id, updated_at) VALUES (?, ?)
        ON CONFLICT (user_id) DO NOTHING
    `, userID, formatTime(r.clock.Now()))
	if err != nil {
		return nil, err
	}

	var s model.AccountStats
	var updated string
	err = r.db.QueryRowContext(ctx, `
        SELECT user_id, total_points, streak, updated_at
        FROM user_stats WHERE user_id = ?
    `, userID).Scan(&s.UserID, &s.TotalPoints, &s.Streak, &updated)
	if err != nil {
		r.logger.Error("Failed to load stats", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StatsRepository) AddPoints(ctx context.Context, userID string, points int) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO user_stats (user_id, total_points, updated_at) VALUES (?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE
        SET total_points = user_stats.total_points + excluded.total_points,
            updated_at = excluded.updated_at
    `, userID, points, formatTime(r.clock.Now()))
	if err != nil {
		r.logger.Error("Failed to add points", zap.Error(err), zap.String("user_id", userID))
	}
	return err
}

func (r *StatsRepository) IncrementStreak(ctx context.Context, userID string) (int, error) {
	return r.setStreak(ctx, `
        INSERT INTO user_stats (user_id, streak, updated_at) VALUES (?, 1, ?)
        ON CONFLICT (user_id) DO UPDATE
        SET streak = user_stats.streak + 1,
            updated_at = excluded.updated_at
        RETURNING streak
    `, userID)
}

func (r *StatsRepository) ResetStreak(ctx context.Context, userID string) (int, error) {
	return r.setStreak(ctx, `
        INSERT INTO user_stats (user_id, streak, updated_at) VALUES (?, 1, ?)
        ON CONFLICT (user_id) DO UPDATE
        SET streak = 1,
            updated_at = excluded.updated_at
        RETURNING streak
    `, userID)
}

func (r *StatsRepository) setStreak(ctx context.Context, query, userID string) (int, error) {
	var streak int
	if err := r.db.QueryRowContext(ctx, query, userID, formatTime(r.clock.Now())).Scan(&streak); err != nil {
		r.logger.Error("Failed to update streak", zap.Error(err), zap.String("user_id", userID))
		return 0, err
	}
	return streak, nil
}
