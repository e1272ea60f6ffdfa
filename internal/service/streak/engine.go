// Package streak owns the points and streak accounting that runs when a
// task is completed, and the stats report built from it.
package streak

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/logger"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/metrics"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/otel"
)

// Streak transition outcomes, also used as metric labels
const (
	OutcomeIncremented = "incremented"
	OutcomeReset       = "reset"
	OutcomeUnchanged   = "unchanged"
)

const weeklyWindowDays = 7

// Completion is the result of CompleteTask
type Completion struct {
	TaskID       string `json:"task_id"`
	Title        string `json:"title"`
	PointsEarned int    `json:"points_earned"`
	Streak       int    `json:"streak"`
	Outcome      string `json:"-"`
}

type Engine struct {
	tasks  repository.TaskRepository
	stats  repository.StatsRepository
	clock  clock.Clock
	logger *zap.Logger
}

func NewEngine(tasks repository.TaskRepository, stats repository.StatsRepository, c clock.Clock, logger *zap.Logger) *Engine {
	if c == nil {
		c = clock.System
	}
	return &Engine{tasks: tasks, stats: stats, clock: c, logger: logger}
}

// CompleteTask marks the task completed, credits its points and applies the
// streak rule. Completing an already-completed task applies both effects
// again. The task update and the stats updates are separate writes.
func (e *Engine) CompleteTask(ctx context.Context, userID, taskID string) (c *Completion, err error) {
	ctx, span := otel.StartSpan(ctx, "streak.CompleteTask")
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("task.id", taskID))
	defer func() { otel.EndSpan(span, err) }()

	log := logger.WithTrace(ctx, e.logger)

	task, err := e.tasks.FindForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == model.TaskStatusCompleted {
		log.Warn("Task completed again; points and streak are re-applied",
			zap.String("task_id", taskID),
			zap.String("user_id", userID),
		)
	}

	if err := e.tasks.MarkCompleted(ctx, userID, taskID, e.clock.Now()); err != nil {
		return nil, err
	}
	if err := e.stats.AddPoints(ctx, userID, task.PointsValue); err != nil {
		return nil, fmt.Errorf("failed to add points: %w", err)
	}

	streak, outcome, err := e.applyStreakRule(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	metrics.RecordCompletion(task.PointsValue)
	metrics.IncrementStreakTransition(outcome)
	span.SetAttributes(attribute.Int("streak", streak), attribute.String("streak.outcome", outcome))

	log.Info("Task completed",
		zap.String("task_id", taskID),
		zap.String("user_id", userID),
		zap.Int("points_earned", task.PointsValue),
		zap.Int("streak", streak),
		zap.String("outcome", outcome),
	)

	return &Completion{
		TaskID:       task.ID,
		Title:        task.Title,
		PointsEarned: task.PointsValue,
		Streak:       streak,
		Outcome:      outcome,
	}, nil
}

// applyStreakRule: no completions today leaves the streak alone; otherwise a
// completion yesterday extends it and none resets it to 1.
func (e *Engine) applyStreakRule(ctx context.Context, userID string) (int, string, error) {
	todayCount, err := e.tasks.Count(ctx, userID, repository.TaskCountFilter{
		Status: model.TaskStatusCompleted,
		Date:   clock.Today(e.clock),
	})
	if err != nil {
		return 0, "", err
	}
	if todayCount == 0 {
		s, err := e.stats.Get(ctx, userID)
		if err != nil {
			return 0, "", err
		}
		return s.Streak, OutcomeUnchanged, nil
	}

	yesterdayCount, err := e.tasks.Count(ctx, userID, repository.TaskCountFilter{
		Status: model.TaskStatusCompleted,
		Date:   clock.Yesterday(e.clock),
	})
	if err != nil {
		return 0, "", err
	}
	if yesterdayCount > 0 {
		streak, err := e.stats.IncrementStreak(ctx, userID)
		return streak, OutcomeIncremented, err
	}
	streak, err := e.stats.ResetStreak(ctx, userID)
	return streak, OutcomeReset, err
}

// GetStats builds the stats report. Counts are read live from the task store.
func (e *Engine) GetStats(ctx context.Context, userID string) (*model.StatsReport, error) {
	s, err := e.stats.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := e.tasks.Count(ctx, userID, repository.TaskCountFilter{})
	if err != nil {
		return nil, err
	}
	completed, err := e.tasks.Count(ctx, userID, repository.TaskCountFilter{Status: model.TaskStatusCompleted})
	if err != nil {
		return nil, err
	}
	weekly, err := e.tasks.Count(ctx, userID, repository.TaskCountFilter{
		CreatedSince: e.clock.Now().AddDate(0, 0, -weeklyWindowDays),
	})
	if err != nil {
		return nil, err
	}

	return &model.StatsReport{
		Streak:         s.Streak,
		TotalPoints:    s.TotalPoints,
		TotalTasks:     total,
		CompletedTasks: completed,
		CompletionRate: model.CompletionRate(completed, total),
		WeeklyTasks:    weekly,
	}, nil
}
