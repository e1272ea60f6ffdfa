package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActivityNudgeGenerated  = "nudge_generated"
	ActivityTaskCompleted   = "task_completed"
	ActivityDigestGenerated = "digest_generated"
	ActivityMoodAnalyzed    = "mood_analyzed"
)

// Activity is an append-only log entry
type Activity struct {
	ID        string         `json:"activity_id"`
	UserID    string         `json:"user_id"`
	Activity  string         `json:"activity"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

func NewActivity(userID, kind string, data map[string]any, now time.Time) *Activity {
	if data == nil {
		data = map[string]any{}
	}
	return &Activity{
		ID:        uuid.NewString(),
		UserID:    userID,
		Activity:  kind,
		Timestamp: now,
		Data:      data,
	}
}
