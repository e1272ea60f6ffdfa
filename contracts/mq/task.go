package mq

import "time"

// Routing keys published on the motivation.events exchange
const (
	RoutingTaskCreated     = "task.created"
	RoutingTaskCompleted   = "task.completed"
	RoutingNudgeGenerated  = "nudge.generated"
	RoutingDigestGenerated = "digest.generated"
)

type TaskCreatedPayload struct {
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	PointsValue int       `json:"points_value"`
	CreatedAt   time.Time `json:"created_at"`
}

type TaskCompletedPayload struct {
	TaskID       string    `json:"task_id"`
	UserID       string    `json:"user_id"`
	PointsEarned int       `json:"points_earned"`
	Streak       int       `json:"streak"`
	CompletedAt  time.Time `json:"completed_at"`
}
