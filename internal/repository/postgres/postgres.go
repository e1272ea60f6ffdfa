// Package postgres implements the repositories on PostgreSQL via pgxpool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Migrate creates the tables if they do not exist
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// NewStore wires every repository to db. c stamps updated_at; nil means
// the wall clock.
func NewStore(db *pgxpool.Pool, c clock.Clock, logger *zap.Logger) *repository.Store {
	if c == nil {
		c = clock.System
	}
	return &repository.Store{
		Users:      NewUserRepository(db, logger),
		Tasks:      NewTaskRepository(db, logger),
		Stats:      NewStatsRepository(db, c, logger),
		Activities: NewActivityRepository(db, logger),
		Ping:       db.Ping,
		Close:      db.Close,
	}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
