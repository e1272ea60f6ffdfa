package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/events"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
	"github.com/TushantKaura1/ai-micro-motivation/internal/service/coach"
	"github.com/TushantKaura1/ai-micro-motivation/internal/service/streak"
)

// CompleteResult is the body of POST /api/tasks/{id}/complete
type CompleteResult struct {
	Message      string `json:"message"`
	PointsEarned int    `json:"points_earned"`
	Streak       int    `json:"streak"`
	Celebration  string `json:"celebration"`
}

type Service struct {
	tasks      repository.TaskRepository
	activities repository.ActivityRepository
	engine     *streak.Engine
	coach      *coach.Service
	events     *events.Emitter
	clock      clock.Clock
	logger     *zap.Logger
}

func NewService(
	tasks repository.TaskRepository,
	activities repository.ActivityRepository,
	engine *streak.Engine,
	coachSvc *coach.Service,
	emitter *events.Emitter,
	c clock.Clock,
	logger *zap.Logger,
) *Service {
	if c == nil {
		c = clock.System
	}
	return &Service{
		tasks:      tasks,
		activities: activities,
		engine:     engine,
		coach:      coachSvc,
		events:     emitter,
		clock:      c,
		logger:     logger,
	}
}

// Create validates in and stores a pending task for today
func (s *Service) Create(ctx context.Context, userID string, in model.CreateTaskInput) (*model.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := model.NewTask(userID, in, s.clock.Now())
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.events.TaskCreated(ctx, t)
	return t, nil
}

// ListToday returns every task assigned to today, in creation order
func (s *Service) ListToday(ctx context.Context, userID string) ([]model.Task, error) {
	return s.tasks.ListByDate(ctx, userID, clock.Today(s.clock), "")
}

// Complete runs the streak engine, records the completion and attaches a
// celebration built from the updated streak.
func (s *Service) Complete(ctx context.Context, userID, taskID string) (*CompleteResult, error) {
	c, err := s.engine.CompleteTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	act := model.NewActivity(userID, model.ActivityTaskCompleted, map[string]any{
		"task_id":       c.TaskID,
		"points_earned": c.PointsEarned,
	}, now)
	if err := s.activities.Append(ctx, act); err != nil {
		return nil, err
	}
	s.events.TaskCompleted(ctx, userID, c.TaskID, c.PointsEarned, c.Streak, now)

	celebration := s.coach.Celebrate(ctx, userID, c.Title, c.Streak)
	return &CompleteResult{
		Message:      "Task completed!",
		PointsEarned: c.PointsEarned,
		Streak:       c.Streak,
		Celebration:  celebration.Text,
	}, nil
}
