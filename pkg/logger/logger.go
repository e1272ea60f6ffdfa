package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/pkg/trace"
)

// NewLogger builds the process logger. Development mode gives console output
// with debug level; everything else gets the JSON production config.
func NewLogger(mode string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if mode == "debug" || mode == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l
}

// WithTrace attaches the trace_id from ctx to logger
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID := trace.FromContext(ctx)
	if traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
