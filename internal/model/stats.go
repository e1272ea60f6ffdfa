package model

import "time"

// AccountStats is the per-user aggregate mutated by task completion.
// TotalPoints never decreases.
type AccountStats struct {
	UserID      string    `json:"user_id"`
	TotalPoints int64     `json:"total_points"`
	Streak      int       `json:"streak"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatsReport is the body of GET /api/user/stats
type StatsReport struct {
	Streak         int     `json:"streak"`
	TotalPoints    int64   `json:"total_points"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	WeeklyTasks    int     `json:"weekly_tasks"`
}

// CompletionRate returns completed/total*100 clamped to [0,100], and 0 for no tasks
func CompletionRate(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	if rate > 100 {
		return 100
	}
	return rate
}
