package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	DefaultEstimatedDuration = 30 // minutes
	DefaultPointsValue       = 10
	MaxPointsValue           = 1000
)

// DayLayout formats the calendar-day partition key of a task
const DayLayout = "2006-01-02"

// Task is a unit of work assigned to one calendar day. Date never changes
// after creation; completion only sets Status and CompletedAt.
type Task struct {
	ID                string     `json:"task_id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Priority          Priority   `json:"priority"`
	EstimatedDuration int        `json:"estimated_duration"`
	Status            TaskStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	Date              string     `json:"date"`
	MicroSteps        []string   `json:"micro_steps"`
	PointsValue       int        `json:"points_value"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// CreateTaskInput is the body of POST /api/tasks
type CreateTaskInput struct {
	Title             string   `json:"title" validate:"required,max=200"`
	Description       string   `json:"description" validate:"max=2000"`
	Priority          Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedDuration *int     `json:"estimated_duration" validate:"omitempty,min=0,max=1440"`
	MicroSteps        []string `json:"micro_steps" validate:"max=50,dive,max=500"`
	PointsValue       *int     `json:"points_value" validate:"omitempty,min=1,max=1000"`
}

var validate = validator.New()

// Validate trims the title and checks the input. Errors wrap ErrValidation.
func (in *CreateTaskInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on %s", ErrValidation, strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// NewTask builds a pending task from validated input. The assignment day is
// taken from now in its own location.
func NewTask(userID string, in CreateTaskInput, now time.Time) *Task {
	t := &Task{
		ID:                uuid.NewString(),
		UserID:            userID,
		Title:             in.Title,
		Description:       in.Description,
		Priority:          in.Priority,
		EstimatedDuration: DefaultEstimatedDuration,
		Status:            TaskStatusPending,
		CreatedAt:         now,
		Date:              now.Format(DayLayout),
		MicroSteps:        in.MicroSteps,
		PointsValue:       DefaultPointsValue,
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if in.EstimatedDuration != nil {
		t.EstimatedDuration = *in.EstimatedDuration
	}
	if in.PointsValue != nil {
		t.PointsValue = *in.PointsValue
	}
	if t.MicroSteps == nil {
		t.MicroSteps = []string{}
	}
	return t
}
