// Package coach assembles context snapshots from the stores and turns them
// into nudges, celebrations, digests and mood labels. Every narrative has a
// fixed fallback, so these calls only fail when a store does.
package coach

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	contractmq "github.com/TushantKaura1/ai-micro-motivation/contracts/mq"
	"github.com/TushantKaura1/ai-micro-motivation/internal/cache"
	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/events"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/narrative"
	"github.com/TushantKaura1/ai-micro-motivation/internal/prompt"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
)

const (
	FallbackNudge            = "Hey there! Ready to tackle your next micro-step? You've got this! 💪"
	FallbackDigest           = "Today was another step forward in your journey! Every small action counts. Keep going! 🌟"
	fallbackCelebrationFmt   = "🎉 Amazing work! You're on fire with that %d-day streak! Keep it up! 🔥"
	noPendingTasks           = "No tasks"
	defaultProductivityLevel = "medium"
)

// FallbackCelebration is the celebration used when generation fails
func FallbackCelebration(streak int) string {
	return fmt.Sprintf(fallbackCelebrationFmt, streak)
}

// Limiter decides whether a user may trigger another generator call
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type Deps struct {
	Tasks      repository.TaskRepository
	Stats      repository.StatsRepository
	Activities repository.ActivityRepository
	Builder    *prompt.Builder
	Gateway    *narrative.Gateway
	Limiter    Limiter
	Cache      *cache.DigestCache
	Events     *events.Emitter
	Clock      clock.Clock
	Logger     *zap.Logger
}

type Service struct {
	Deps
}

func NewService(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = clock.System
	}
	if d.Builder == nil {
		d.Builder = prompt.NewBuilder()
		d.Builder.Clock = d.Clock
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{Deps: d}
}

// Nudge builds the user's current context, generates a nudge and records it
// in the activity log.
func (s *Service) Nudge(ctx context.Context, userID, mood string) (narrative.Result, error) {
	st, err := s.Stats.Get(ctx, userID)
	if err != nil {
		return narrative.Result{}, err
	}

	pending, err := s.Tasks.ListByDate(ctx, userID, clock.Today(s.Clock), model.TaskStatusPending)
	if err != nil {
		return narrative.Result{}, err
	}
	current := noPendingTasks
	if len(pending) > 0 {
		current = pending[0].Title
	}

	lastActivity := prompt.NoActivity
	last, err := s.Activities.Latest(ctx, userID)
	switch {
	case err == nil:
		lastActivity = last.Activity
	case !errors.Is(err, model.ErrNotFound):
		return narrative.Result{}, err
	}

	req := s.Builder.Nudge(prompt.NudgeContext{
		CurrentTask:       current,
		Mood:              mood,
		Streak:            st.Streak,
		LastActivity:      lastActivity,
		ProductivityLevel: defaultProductivityLevel,
		Now:               s.Clock.Now(),
	})
	res := s.generate(ctx, userID, req, FallbackNudge)

	now := s.Clock.Now()
	act := model.NewActivity(userID, model.ActivityNudgeGenerated, map[string]any{"nudge": res.Text}, now)
	if err := s.Activities.Append(ctx, act); err != nil {
		return narrative.Result{}, err
	}
	s.Events.NarrativeGenerated(ctx, contractmq.RoutingNudgeGenerated, userID, string(prompt.KindNudge), res.IsFallback(), now)
	return res, nil
}

// Celebrate generates the message shown after a completion
func (s *Service) Celebrate(ctx context.Context, userID, achievement string, streak int) narrative.Result {
	return s.generate(ctx, userID, s.Builder.Celebration(achievement, streak), FallbackCelebration(streak))
}

// Digest summarises today's completions. Generated digests are cached until
// the number of completions changes.
func (s *Service) Digest(ctx context.Context, userID string) (narrative.Result, error) {
	day := clock.Today(s.Clock)
	completed, err := s.Tasks.ListByDate(ctx, userID, day, model.TaskStatusCompleted)
	if err != nil {
		return narrative.Result{}, err
	}

	st, err := s.Stats.Get(ctx, userID)
	if err != nil {
		return narrative.Result{}, err
	}
	todays, err := s.Activities.ListSince(ctx, userID, clock.StartOfDay(s.Clock))
	if err != nil {
		return narrative.Result{}, err
	}
	trend := MoodTrend(todays)

	fp := cache.Fingerprint{Day: day, Completed: len(completed), Streak: st.Streak, Trend: trend}
	if cached, ok := s.Cache.Get(ctx, userID, fp); ok {
		return narrative.Result{Text: cached, Source: narrative.SourceGenerated}, nil
	}

	titles := make([]string, 0, len(completed))
	points := 0
	for _, t := range completed {
		titles = append(titles, t.Title)
		points += t.PointsValue
	}

	req := s.Builder.Digest(prompt.DigestContext{
		CompletedTasks: titles,
		Streak:         st.Streak,
		PointsEarned:   points,
		MoodTrend:      trend,
	})
	res := s.generate(ctx, userID, req, FallbackDigest)
	if !res.IsFallback() {
		s.Cache.Set(ctx, userID, fp, res.Text)
	}

	now := s.Clock.Now()
	act := model.NewActivity(userID, model.ActivityDigestGenerated, map[string]any{"completed_tasks": len(completed)}, now)
	if err := s.Activities.Append(ctx, act); err != nil {
		return narrative.Result{}, err
	}
	s.Events.NarrativeGenerated(ctx, contractmq.RoutingDigestGenerated, userID, string(prompt.KindDigest), res.IsFallback(), now)
	return res, nil
}

// AnalyzeMood classifies text and records the label for the digest trend
func (s *Service) AnalyzeMood(ctx context.Context, userID, text string) (string, error) {
	mood := prompt.MoodNeutral
	if s.Limiter == nil || s.Limiter.Allow(ctx, userID) {
		mood = s.Gateway.ClassifyMood(ctx, s.Builder.Mood(text))
	} else {
		s.Gateway.Fallback(prompt.KindMood, mood, narrative.ReasonRateLimited)
	}

	act := model.NewActivity(userID, model.ActivityMoodAnalyzed, map[string]any{"mood": mood}, s.Clock.Now())
	if err := s.Activities.Append(ctx, act); err != nil {
		return "", err
	}
	return mood, nil
}

func (s *Service) generate(ctx context.Context, userID string, req prompt.Request, fallback string) narrative.Result {
	if s.Limiter != nil && !s.Limiter.Allow(ctx, userID) {
		s.Logger.Info("Narrative rate limit reached",
			zap.String("user_id", userID),
			zap.String("kind", string(req.Kind)),
		)
		return s.Gateway.Fallback(req.Kind, fallback, narrative.ReasonRateLimited)
	}
	return s.Gateway.Generate(ctx, req, fallback)
}

// MoodTrend reduces today's mood labels to positive, negative or stable.
// With no labels the day counts as positive.
func MoodTrend(activities []model.Activity) string {
	positive, negative, seen := 0, 0, 0
	for _, a := range activities {
		if a.Activity != model.ActivityMoodAnalyzed {
			continue
		}
		seen++
		switch a.Data["mood"] {
		case prompt.MoodPositive:
			positive++
		case prompt.MoodNegative:
			negative++
		}
	}
	switch {
	case seen == 0:
		return prompt.MoodPositive
	case positive > negative:
		return prompt.MoodPositive
	case negative > positive:
		return prompt.MoodNegative
	default:
		return prompt.DefaultTrend
	}
}
