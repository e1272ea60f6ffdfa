// Package sqlite implements the repositories on an embedded SQLite file.
// Timestamps are stored as fixed-width UTC text so that string comparison
// orders them chronologically.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
)

//go:embed schema.sql
var schema string

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Migrate creates the tables if they do not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// NewStore wires every repository to db. c stamps updated_at; nil means
// the wall clock.
func NewStore(db *sql.DB, c clock.Clock, logger *zap.Logger) *repository.Store {
	if c == nil {
		c = clock.System
	}
	return &repository.Store{
		Users:      &UserRepository{db: db, logger: logger},
		Tasks:      &TaskRepository{db: db, logger: logger},
		Stats:      &StatsRepository{db: db, clock: c, logger: logger},
		Activities: &ActivityRepository{db: db, logger: logger},
		Ping:       db.PingContext,
		Close:      func() { _ = db.Close() },
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type rowScanner interface {
	Scan(dest ...any) error
}
