// Package events publishes domain events. Publishing is best effort: a
// failure is logged and never fails the request that caused it.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	contractmq "github.com/TushantKaura1/ai-micro-motivation/contracts/mq"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/logger"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/mq"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/otel"
)

// Publisher is satisfied by *mq.Publisher
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Emitter struct {
	pub    Publisher
	logger *zap.Logger
}

// NewEmitter returns an emitter on pub. A nil pub drops every event.
func NewEmitter(pub Publisher, logger *zap.Logger) *Emitter {
	return &Emitter{pub: pub, logger: logger}
}

func (e *Emitter) TaskCreated(ctx context.Context, t *model.Task) {
	e.emit(ctx, contractmq.RoutingTaskCreated, contractmq.TaskCreatedPayload{
		TaskID:      t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Date:        t.Date,
		PointsValue: t.PointsValue,
		CreatedAt:   t.CreatedAt,
	})
}

func (e *Emitter) TaskCompleted(ctx context.Context, userID, taskID string, points, streak int, at time.Time) {
	e.emit(ctx, contractmq.RoutingTaskCompleted, contractmq.TaskCompletedPayload{
		TaskID:       taskID,
		UserID:       userID,
		PointsEarned: points,
		Streak:       streak,
		CompletedAt:  at,
	})
}

// NarrativeGenerated publishes nudge.generated or digest.generated
func (e *Emitter) NarrativeGenerated(ctx context.Context, routingKey, userID, kind string, fallback bool, at time.Time) {
	e.emit(ctx, routingKey, contractmq.NarrativeGeneratedPayload{
		UserID:      userID,
		Kind:        kind,
		Fallback:    fallback,
		GeneratedAt: at,
	})
}

func (e *Emitter) emit(ctx context.Context, routingKey string, payload any) {
	if e == nil || e.pub == nil {
		return
	}
	ctx, span := otel.MQPublishSpan(ctx, routingKey, mq.ExchangeName)
	err := e.pub.Publish(ctx, routingKey, payload)
	otel.EndSpan(span, err)
	if err != nil {
		logger.WithTrace(ctx, e.logger).Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
