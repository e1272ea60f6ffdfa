package streak

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository/sqlite"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/db"
)

type fixture struct {
	store  *repository.Store
	engine *Engine
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(context.Background(), conn))
	f := &fixture{now: time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)}
	c := clock.Func(func() time.Time { return f.now })
	store := sqlite.NewStore(conn, c, zap.NewNop())
	t.Cleanup(store.Close)

	f.store = store
	f.engine = NewEngine(store.Tasks, store.Stats, c, zap.NewNop())
	return f
}

func (f *fixture) addTask(t *testing.T, user string, points int) *model.Task {
	t.Helper()
	task := model.NewTask(user, model.CreateTaskInput{Title: "task", PointsValue: &points}, f.now)
	require.NoError(t, f.store.Tasks.Create(context.Background(), task))
	return task
}

func (f *fixture) nextDay() {
	f.now = f.now.AddDate(0, 0, 1)
}

func TestCompleteTask_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CompleteTask(ctx, "u1", "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	task := f.addTask(t, "u1", 10)
	_, err = f.engine.CompleteTask(ctx, "someone-else", task.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	s, err := f.store.Stats.Get(ctx, "someone-else")
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.TotalPoints)
}

func TestCompleteTask_PointsSumIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	values := []int{10, 25, 3, 40}

	for _, order := range [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}} {
		f := newFixture(t)
		tasks := make([]*model.Task, len(values))
		for i, v := range values {
			tasks[i] = f.addTask(t, "u1", v)
		}
		for _, i := range order {
			_, err := f.engine.CompleteTask(ctx, "u1", tasks[i].ID)
			require.NoError(t, err)
		}
		s, err := f.store.Stats.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(78), s.TotalPoints)
	}
}

func TestStreakRule(t *testing.T) {
	ctx := context.Background()

	t.Run("yesterday had a completion", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.CompleteTask(ctx, "u1", f.addTask(t, "u1", 10).ID)
		require.NoError(t, err)

		f.nextDay()
		c, err := f.engine.CompleteTask(ctx, "u1", f.addTask(t, "u1", 10).ID)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Streak)
		assert.Equal(t, OutcomeIncremented, c.Outcome)
	})

	t.Run("gap resets a long streak to one", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 4; i++ {
			_, err := f.engine.CompleteTask(ctx, "u1", f.addTask(t, "u1", 10).ID)
			require.NoError(t, err)
			f.nextDay()
		}
		s, err := f.store.Stats.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 4, s.Streak)

		f.nextDay()
		c, err := f.engine.CompleteTask(ctx, "u1", f.addTask(t, "u1", 10).ID)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Streak)
		assert.Equal(t, OutcomeReset, c.Outcome)
	})

	t.Run("day is taken from the task, not the completion time", func(t *testing.T) {
		f := newFixture(t)
		task := f.addTask(t, "u1", 10)
		f.nextDay()
		c, err := f.engine.CompleteTask(ctx, "u1", task.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Streak)
		assert.Equal(t, OutcomeUnchanged, c.Outcome)
	})
}

func TestCompleteTask_EndToEndScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := model.NewTask("u1", model.CreateTaskInput{Title: "Write report", PointsValue: intPtr(20)}, f.now)
	require.NoError(t, f.store.Tasks.Create(ctx, first))

	c, err := f.engine.CompleteTask(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, c.PointsEarned)
	assert.Equal(t, "Write report", c.Title)

	stats, err := f.engine.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), stats.TotalPoints)
	assert.Equal(t, 1, stats.Streak)

	_, err = f.engine.CompleteTask(ctx, "u1", f.addTask(t, "u1", 10).ID)
	require.NoError(t, err)
	stats, err = f.engine.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), stats.TotalPoints)
	assert.Equal(t, 1, stats.Streak)

	f.nextDay()
	_, err = f.engine.CompleteTask(ctx, "u1", f.addTask(t, "u1", 10).ID)
	require.NoError(t, err)
	stats, err = f.engine.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Streak)
	assert.Equal(t, int64(40), stats.TotalPoints)
}

func TestCompleteTask_RepeatedCompletionReappliesEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CompleteTask(ctx, "u1", f.addTask(t, "u1", 5).ID)
	require.NoError(t, err)
	f.nextDay()
	task := f.addTask(t, "u1", 10)

	c1, err := f.engine.CompleteTask(ctx, "u1", task.ID)
	require.NoError(t, err)
	c2, err := f.engine.CompleteTask(ctx, "u1", task.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, c1.Streak)
	assert.Equal(t, 3, c2.Streak)
	s, err := f.store.Stats.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(25), s.TotalPoints)
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.engine.GetStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, model.StatsReport{}, *empty)

	old := model.NewTask("u1", model.CreateTaskInput{Title: "old"}, f.now.AddDate(0, 0, -8))
	require.NoError(t, f.store.Tasks.Create(ctx, old))
	done := f.addTask(t, "u1", 10)
	f.addTask(t, "u1", 10)
	f.addTask(t, "u1", 10)
	_, err = f.engine.CompleteTask(ctx, "u1", done.ID)
	require.NoError(t, err)

	stats, err := f.engine.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 25.0, stats.CompletionRate)
	assert.Equal(t, 3, stats.WeeklyTasks)
}

func intPtr(n int) *int { return &n }
