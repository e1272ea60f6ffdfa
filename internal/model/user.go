package model

import "time"

type WorkHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Preferences struct {
	NudgeFrequency string    `json:"nudge_frequency"`
	WorkHours      WorkHours `json:"work_hours"`
	BreakReminders bool      `json:"break_reminders"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		NudgeFrequency: "medium",
		WorkHours:      WorkHours{Start: "09:00", End: "17:00"},
		BreakReminders: true,
	}
}

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Preferences  Preferences
	CreatedAt    time.Time
}

// UserProfile is the user object returned by register and login
type UserProfile struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Streak      int    `json:"streak"`
	TotalPoints int64  `json:"total_points"`
}
