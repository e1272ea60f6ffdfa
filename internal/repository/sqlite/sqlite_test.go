package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/db"
)

func newTestStore(t *testing.T) *repository.Store {
	return newTestStoreAt(t, nil)
}

func newTestStoreAt(t *testing.T, c clock.Clock) *repository.Store {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), conn))
	store := NewStore(conn, c, zap.NewNop())
	t.Cleanup(store.Close)
	return store
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	u := &model.User{
		ID:           "u1",
		Email:        "a@example.com",
		Name:         "Ann",
		PasswordHash: "hash",
		Preferences:  model.DefaultPreferences(),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, store.Users.Create(ctx, u))

	dup := *u
	dup.ID = "u2"
	assert.ErrorIs(t, store.Users.Create(ctx, &dup), model.ErrEmailExists)

	got, err := store.Users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, model.DefaultPreferences(), got.Preferences)

	_, err = store.Users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTaskRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.Local)

	first := model.NewTask("u1", model.CreateTaskInput{Title: "first", MicroSteps: []string{"a"}}, now)
	second := model.NewTask("u1", model.CreateTaskInput{Title: "second"}, now.Add(time.Minute))
	old := model.NewTask("u1", model.CreateTaskInput{Title: "old"}, now.AddDate(0, 0, -10))
	other := model.NewTask("u2", model.CreateTaskInput{Title: "other"}, now)
	for _, task := range []*model.Task{first, second, old, other} {
		require.NoError(t, store.Tasks.Create(ctx, task))
	}

	tasks, err := store.Tasks.ListByDate(ctx, "u1", "2024-05-02", "")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, []string{"a"}, tasks[0].MicroSteps)
	assert.Equal(t, "second", tasks[1].Title)

	_, err = store.Tasks.FindForUser(ctx, "u2", first.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, store.Tasks.MarkCompleted(ctx, "u2", first.ID, now), model.ErrNotFound)

	require.NoError(t, store.Tasks.MarkCompleted(ctx, "u1", first.ID, now.Add(time.Hour)))
	got, err := store.Tasks.FindForUser(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(now.Add(time.Hour)))
	assert.Equal(t, "2024-05-02", got.Date)

	pending, err := store.Tasks.ListByDate(ctx, "u1", "2024-05-02", model.TaskStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "second", pending[0].Title)

	n, err := store.Tasks.Count(ctx, "u1", repository.TaskCountFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = store.Tasks.Count(ctx, "u1", repository.TaskCountFilter{Status: model.TaskStatusCompleted, Date: "2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.Tasks.Count(ctx, "u1", repository.TaskCountFilter{CreatedSince: now.AddDate(0, 0, -7)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStatsRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	s, err := store.Stats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.TotalPoints)
	assert.Equal(t, 0, s.Streak)

	require.NoError(t, store.Stats.AddPoints(ctx, "u1", 10))
	require.NoError(t, store.Stats.AddPoints(ctx, "u1", 5))

	streak, err := store.Stats.IncrementStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
	streak, err = store.Stats.IncrementStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
	streak, err = store.Stats.ResetStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	s, err = store.Stats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), s.TotalPoints)
	assert.Equal(t, 1, s.Streak)

	streak, err = store.Stats.ResetStreak(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestStatsRepository_UpdatedAtFollowsClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	store := newTestStoreAt(t, clock.Func(func() time.Time { return now }))

	s, err := store.Stats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, now.Equal(s.UpdatedAt), s.UpdatedAt)

	now = now.Add(time.Hour)
	require.NoError(t, store.Stats.AddPoints(ctx, "u1", 10))
	s, err = store.Stats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, now.Equal(s.UpdatedAt), s.UpdatedAt)

	now = now.Add(time.Hour)
	_, err = store.Stats.IncrementStreak(ctx, "u1")
	require.NoError(t, err)
	s, err = store.Stats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, now.Equal(s.UpdatedAt), s.UpdatedAt)
}

func TestStatsRepository_ConcurrentAddPoints(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Stats.AddPoints(ctx, "u1", 10))
		}()
	}
	wg.Wait()

	s, err := store.Stats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), s.TotalPoints)
}

func TestActivityRepository(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Activities.Latest(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, store.Activities.Append(ctx, model.NewActivity("u1", model.ActivityTaskCompleted, map[string]any{"points_earned": 10}, base)))
	require.NoError(t, store.Activities.Append(ctx, model.NewActivity("u1", model.ActivityNudgeGenerated, map[string]any{"nudge": "go"}, base.Add(time.Minute))))

	latest, err := store.Activities.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.ActivityNudgeGenerated, latest.Activity)
	assert.Equal(t, "go", latest.Data["nudge"])

	list, err := store.Activities.ListSince(ctx, "u1", base.Add(30*time.Second))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.ActivityNudgeGenerated, list[0].Activity)
}
