package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/TushantKaura1/ai-micro-motivation/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "motivation"})
	assert.Equal(t, "postgres://u:p@localhost:5432/motivation?sslmode=disable", dsn)

	dsn = DSN(config.DBConfig{Host: "h", Port: 1, User: "u", Password: "p", Name: "n", SSLMode: "require"})
	assert.Contains(t, dsn, "sslmode=require")
}

func TestSlowQueryTracer(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tracer := NewSlowQueryTracer(zap.New(core), time.Nanosecond)

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	time.Sleep(time.Millisecond)
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "SELECT 1", logs.All()[0].ContextMap()["sql"])
}

func TestSlowQueryTracer_FastQueryIgnored(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tracer := NewSlowQueryTracer(zap.New(core), time.Hour)

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	tracer.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})

	assert.Equal(t, 0, logs.Len())
}

func TestOpenSQLite(t *testing.T) {
	conn, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer conn.Close()

	var one int
	require.NoError(t, conn.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}
