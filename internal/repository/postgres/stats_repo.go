package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
)

// StatsRepository keeps user_stats. Each mutation is one upsert so that
// concurrent completions never lose an update.
type StatsRepository struct {
	db     *pgxpool.Pool
	clock  clock.Clock
	logger *zap.Logger
}

func NewStatsRepository(db *pgxpool.Pool, c clock.Clock, logger *zap.Logger) *StatsRepository {
	return &StatsRepository{db: db, clock: c, logger: logger}
}

func (r *StatsRepository) Get(ctx context.Context, userID string) (*model.AccountStats, error) {
	query := `
        WITH ins AS (
            INSERT INTO user_stats (user_id, updated_at) VALUES ($1, $2)
            ON CONFLICT (user_id) DO NOTHING
            RETURNING user_id, total_points, streak, updated_at
        )
        SELECT user_id, total_points, streak, updated_at FROM ins
        UNION ALL
        SELECT user_id, total_points, streak, updated_at FROM user_stats WHERE user_id = $1
        LIMIT 1
    `
	var s model.AccountStats
	err := r.db.QueryRow(ctx, query, userID, r.clock.Now()).Scan(&s.UserID, &s.TotalPoints, &s.Streak, &s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to load stats", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	return &s, nil
}

func (r *StatsRepository) AddPoints(ctx context.Context, userID string, points int) error {
	query := `
        INSERT INTO user_stats (user_id, total_points, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE
        SET total_points = user_stats.total_points + EXCLUDED.total_points,
            updated_at = EXCLUDED.updated_at
    `
	if _, err := r.db.Exec(ctx, query, userID, points, r.clock.Now()); err != nil {
		r.logger.Error("Failed to add points", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	return nil
}

func (r *StatsRepository) IncrementStreak(ctx context.Context, userID string) (int, error) {
	query := `
        INSERT INTO user_stats (user_id, streak, updated_at)
        VALUES ($1, 1, $2)
        ON CONFLICT (user_id) DO UPDATE
        SET streak = user_stats.streak + 1,
            updated_at = EXCLUDED.updated_at
        RETURNING streak
    `
	return r.setStreak(ctx, query, userID)
}

func (r *StatsRepository) ResetStreak(ctx context.Context, userID string) (int, error) {
	query := `
        INSERT INTO user_stats (user_id, streak, updated_at)
        VALUES ($1, 1, $2)
        ON CONFLICT (user_id) DO UPDATE
        SET streak = 1,
            updated_at = EXCLUDED.updated_at
        RETURNING streak
    `
	return r.setStreak(ctx, query, userID)
}

func (r *StatsRepository) setStreak(ctx context.Context, query, userID string) (int, error) {
	var streak int
	if err := r.db.QueryRow(ctx, query, userID, r.clock.Now()).Scan(&streak); err != nil {
		r.logger.Error("Failed to update streak", zap.Error(err), zap.String("user_id", userID))
		return 0, err
	}
	return streak, nil
}
