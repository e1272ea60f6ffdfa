package repository

import (
	"context"
	"time"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
)

// Lookups that miss return model.ErrNotFound.

type UserRepository interface {
	// Create returns model.ErrEmailExists when the email is taken
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// TaskCountFilter narrows Count; zero values match everything
type TaskCountFilter struct {
	Status       model.TaskStatus
	Date         string
	CreatedSince time.Time
}

type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	FindForUser(ctx context.Context, userID, taskID string) (*model.Task, error)
	MarkCompleted(ctx context.Context, userID, taskID string, at time.Time) error
	// ListByDate returns the user's tasks for day in creation order; an empty
	// status matches any status
	ListByDate(ctx context.Context, userID, day string, status model.TaskStatus) ([]model.Task, error)
	Count(ctx context.Context, userID string, filter TaskCountFilter) (int, error)
}

// StatsRepository mutates AccountStats with single atomic statements. Every
// method creates the row on first use.
type StatsRepository interface {
	Get(ctx context.Context, userID string) (*model.AccountStats, error)
	AddPoints(ctx context.Context, userID string, points int) error
	IncrementStreak(ctx context.Context, userID string) (int, error)
	ResetStreak(ctx context.Context, userID string) (int, error)
}

type ActivityRepository interface {
	Append(ctx context.Context, a *model.Activity) error
	Latest(ctx context.Context, userID string) (*model.Activity, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]model.Activity, error)
}

// Store bundles the repositories of one backend
type Store struct {
	Users      UserRepository
	Tasks      TaskRepository
	Stats      StatsRepository
	Activities ActivityRepository

	Ping  func(ctx context.Context) error
	Close func()
}
