package mq

import "time"

type NarrativeGeneratedPayload struct {
	UserID      string    `json:"user_id"`
	Kind        string    `json:"kind"` // nudge | digest
	Fallback    bool      `json:"fallback"`
	GeneratedAt time.Time `json:"generated_at"`
}
