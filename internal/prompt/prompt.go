// Package prompt turns context snapshots into instructions for the text
// generator. Nothing here performs I/O.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
)

type Kind string

const (
	KindNudge       Kind = "nudge"
	KindCelebration Kind = "celebration"
	KindDigest      Kind = "digest"
	KindMood        Kind = "mood"
)

// Placeholders written in place of missing context
const (
	NoTask          = "No specific task"
	NoActivity      = "None"
	NoCompletions   = "None"
	DefaultMood     = "neutral"
	DefaultLevel    = "medium"
	DefaultTrend    = "stable"
	MoodPositive    = "positive"
	MoodNegative    = "negative"
	MoodNeutral     = "neutral"
	nudgeTimeLayout = "15:04"
)

const (
	nudgeRole = "You are a supportive AI coach that helps people stay focused and motivated. " +
		"You provide gentle, encouraging nudges to help users take small steps toward their goals. " +
		"Keep responses under 100 words and make them feel personal and conversational."
	celebrationRole = "You are an enthusiastic AI coach that celebrates user achievements. " +
		"Create short, exciting celebration messages with emojis that make users feel proud and motivated to continue."
	digestRole = "You are a friendly AI that creates engaging daily digest stories. " +
		"Write a short, encouraging narrative about the user's day, highlighting their achievements and progress. " +
		"Make it feel like a personal journal entry that celebrates their wins."
	moodRole = "You are a mood analyzer. Respond with only one word: positive, negative, or neutral."
)

// Request is everything the gateway needs to run one generation
type Request struct {
	Kind            Kind
	SystemRole      string
	UserPrompt      string
	MaxOutputTokens int
	Temperature     float32
}

// NudgeContext is the snapshot behind a micro-nudge
type NudgeContext struct {
	CurrentTask       string
	Mood              string
	Streak            int
	LastActivity      string
	ProductivityLevel string
	Now               time.Time
}

// DigestContext is the end-of-day snapshot behind a digest
type DigestContext struct {
	CompletedTasks []string
	Streak         int
	PointsEarned   int
	MoodTrend      string
}

// Builder holds the per-kind generation settings. The zero value is not
// usable; call NewBuilder.
type Builder struct {
	NudgeMaxTokens   int
	NudgeTemperature float32
	// Clock dates a nudge whose context carries no time
	Clock clock.Clock
}

func NewBuilder() *Builder {
	return &Builder{NudgeMaxTokens: 150, NudgeTemperature: 0.7, Clock: clock.System}
}

func (b *Builder) Nudge(c NudgeContext) Request {
	now := c.Now
	if now.IsZero() && b.Clock != nil {
		now = b.Clock.Now()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current time: %s on %s\n", now.Format(nudgeTimeLayout), now.Weekday())
	fmt.Fprintf(&sb, "User's current task: %s\n", orDefault(c.CurrentTask, NoTask))
	fmt.Fprintf(&sb, "User's mood: %s\n", orDefault(c.Mood, DefaultMood))
	fmt.Fprintf(&sb, "Streak: %d days\n", c.Streak)
	fmt.Fprintf(&sb, "Last activity: %s\n", orDefault(c.LastActivity, NoActivity))
	fmt.Fprintf(&sb, "Productivity level: %s\n\n", orDefault(c.ProductivityLevel, DefaultLevel))
	sb.WriteString("Generate a gentle, encouraging nudge to help them take the next small step. " +
		"Consider their current context and time of day.")

	return Request{
		Kind:            KindNudge,
		SystemRole:      nudgeRole,
		UserPrompt:      sb.String(),
		MaxOutputTokens: b.NudgeMaxTokens,
		Temperature:     b.NudgeTemperature,
	}
}

func (b *Builder) Celebration(achievement string, streak int) Request {
	return Request{
		Kind:       KindCelebration,
		SystemRole: celebrationRole,
		UserPrompt: fmt.Sprintf("Generate a short, enthusiastic celebration message for someone who just achieved: %s. "+
			"They have a %d-day streak. Make it feel exciting and motivating!", orDefault(achievement, NoTask), streak),
		MaxOutputTokens: 100,
		Temperature:     0.9,
	}
}

func (b *Builder) Digest(c DigestContext) Request {
	completed := NoCompletions
	if len(c.CompletedTasks) > 0 {
		completed = strings.Join(c.CompletedTasks, ", ")
	}

	var sb strings.Builder
	sb.WriteString("Create a daily digest story for a user with:\n")
	fmt.Fprintf(&sb, "- Completed tasks: %s\n", completed)
	fmt.Fprintf(&sb, "- Current streak: %d days\n", c.Streak)
	fmt.Fprintf(&sb, "- Points earned today: %d\n", c.PointsEarned)
	fmt.Fprintf(&sb, "- Mood trend: %s\n\n", orDefault(c.MoodTrend, DefaultTrend))
	sb.WriteString("Write an encouraging, story-like summary of their day that celebrates their progress " +
		"and motivates them for tomorrow.")

	return Request{
		Kind:            KindDigest,
		SystemRole:      digestRole,
		UserPrompt:      sb.String(),
		MaxOutputTokens: 300,
		Temperature:     0.8,
	}
}

func (b *Builder) Mood(text string) Request {
	return Request{
		Kind:       KindMood,
		SystemRole: moodRole,
		UserPrompt: fmt.Sprintf("Analyze the mood/emotion in this text: \"%s\"\n\n"+
			"Respond with just one word: positive, negative, or neutral", text),
		MaxOutputTokens: 10,
		Temperature:     0.1,
	}
}

// ParseMood normalises a classifier reply. Anything that is not exactly one
// of the three moods after trimming and lower-casing becomes neutral.
func ParseMood(raw string) string {
	switch m := strings.ToLower(strings.TrimSpace(raw)); m {
	case MoodPositive, MoodNegative, MoodNeutral:
		return m
	default:
		return MoodNeutral
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
