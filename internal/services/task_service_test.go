package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/todo-assistant/internal/models"
	"github.com/adanyl0v/todo-assistant/internal/query"
	"github.com/adanyl0v/todo-assistant/internal/storage"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func sequentialIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return strconv.Itoa(n), nil
	}
}

type failingBackend struct {
	loadErr error
	saveErr error
	saves   int
}

func (b *failingBackend) Load(context.Context) ([]byte, error) {
	return nil, b.loadErr
}

func (b *failingBackend) Save(context.Context, []byte) error {
	b.saves++
	return b.saveErr
}

func (b *failingBackend) Close() error {
	return nil
}

func newTestService(t *testing.T, backend storage.Backend) (TaskService, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)}
	s := NewTaskService(
		zerolog.Nop(),
		backend,
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
	)
	s.Load(context.Background())
	return s, clock
}

func savedTasks(t *testing.T, b *storage.MemoryBackend) []models.Task {
	t.Helper()
	data, err := b.Load(context.Background())
	require.NoError(t, err)
	tasks, err := storage.Decode(data)
	require.NoError(t, err)
	return tasks
}

func TestTaskService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		s, clock := newTestService(t, backend)

		task, err := s.Add(ctx, AddTaskParams{Text: "Buy milk"})
		require.NoError(t, err)
		assert.Equal(t, "1", task.ID)
		assert.Equal(t, "Buy milk", task.Text)
		assert.Equal(t, models.CategoryOther, task.Category)
		assert.Equal(t, models.PriorityMedium, task.Priority)
		assert.False(t, task.Completed)
		assert.Nil(t, task.CompletedAt)
		assert.False(t, task.HasDueDate())
		assert.Equal(t, clock.Now(), task.CreatedAt)

		assert.Equal(t, []models.Task{*task}, savedTasks(t, backend))
	})

	t.Run("explicit fields and trimming", func(t *testing.T) {
		s, _ := newTestService(t, storage.NewMemoryBackend())

		task, err := s.Add(ctx, AddTaskParams{
			Text:     "  Run 5k \n",
			Category: "health",
			Priority: "high",
			DueDate:  models.NewDate(2024, time.June, 20),
		})
		require.NoError(t, err)
		assert.Equal(t, "Run 5k", task.Text)
		assert.Equal(t, models.CategoryHealth, task.Category)
		assert.Equal(t, models.PriorityHigh, task.Priority)
		assert.Equal(t, models.NewDate(2024, time.June, 20), task.DueDate)
	})

	t.Run("blank text is rejected without side effects", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		s, _ := newTestService(t, backend)

		for _, text := range []string{"", "   ", "\t\n"} {
			task, err := s.Add(ctx, AddTaskParams{Text: text})
			assert.ErrorIs(t, err, ErrEmptyText)
			assert.Nil(t, task)
		}
		assert.Empty(t, s.Tasks())
		assert.Zero(t, backend.Saves())
	})

	t.Run("unknown enums are rejected", func(t *testing.T) {
		s, _ := newTestService(t, storage.NewMemoryBackend())

		_, err := s.Add(ctx, AddTaskParams{Text: "a", Category: "errands"})
		assert.ErrorIs(t, err, ErrInvalidCategory)
		_, err = s.Add(ctx, AddTaskParams{Text: "a", Priority: "urgent"})
		assert.ErrorIs(t, err, ErrInvalidPriority)
		assert.Empty(t, s.Tasks())
	})

	t.Run("ids are unique and order is kept", func(t *testing.T) {
		s := NewTaskService(zerolog.Nop(), storage.NewMemoryBackend())

		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			task, err := s.Add(ctx, AddTaskParams{Text: "task " + strconv.Itoa(i)})
			require.NoError(t, err)
			require.False(t, seen[task.ID], "duplicate id %s", task.ID)
			seen[task.ID] = true
		}

		tasks := s.Tasks()
		require.Len(t, tasks, 50)
		for i, task := range tasks {
			assert.Equal(t, "task "+strconv.Itoa(i), task.Text)
		}
	})
}

func TestTaskService_ToggleComplete(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	s, clock := newTestService(t, backend)

	task, err := s.Add(ctx, AddTaskParams{Text: "Write report"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	toggled, err := s.ToggleComplete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	require.NotNil(t, toggled.CompletedAt)
	assert.Equal(t, clock.Now(), *toggled.CompletedAt)
	assert.True(t, savedTasks(t, backend)[0].Completed)

	toggled, err = s.ToggleComplete(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
	assert.Nil(t, toggled.CompletedAt)

	stored, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, *task, *stored)

	_, err = s.ToggleComplete(ctx, "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, 3, backend.Saves())
}

func TestTaskService_Edit(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	s, _ := newTestService(t, backend)

	task, err := s.Add(ctx, AddTaskParams{Text: "Call mom", Category: "personal", Priority: "high"})
	require.NoError(t, err)

	edited, err := s.Edit(ctx, EditTaskParams{ID: task.ID, Text: " Call mom and dad "})
	require.NoError(t, err)
	assert.Equal(t, "Call mom and dad", edited.Text)
	assert.Equal(t, task.Category, edited.Category)
	assert.Equal(t, task.Priority, edited.Priority)
	assert.Equal(t, task.CreatedAt, edited.CreatedAt)
	assert.Equal(t, "Call mom and dad", savedTasks(t, backend)[0].Text)

	_, err = s.Edit(ctx, EditTaskParams{ID: task.ID, Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyText)
	stored, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call mom and dad", stored.Text)

	_, err = s.Edit(ctx, EditTaskParams{ID: "missing", Text: "x"})
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, 2, backend.Saves())
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, storage.NewMemoryBackend())

	for _, text := range []string{"a", "b", "c"} {
		_, err := s.Add(ctx, AddTaskParams{Text: text})
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(ctx, "2"))
	assert.ErrorIs(t, s.Delete(ctx, "2"), ErrTaskNotFound)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Text)
	assert.Equal(t, "c", tasks[1].Text)
}

func TestTaskService_ClearCompleted(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	s, _ := newTestService(t, backend)

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		_, err := s.Add(ctx, AddTaskParams{Text: text})
		require.NoError(t, err)
	}
	for _, id := range []string{"2", "4"} {
		_, err := s.ToggleComplete(ctx, id)
		require.NoError(t, err)
	}
	before := s.Tasks()

	assert.Equal(t, 2, s.ClearCompleted(ctx))

	want := []models.Task{before[0], before[2], before[4]}
	assert.Equal(t, want, s.Tasks())
	assert.Equal(t, want, savedTasks(t, backend))

	saves := backend.Saves()
	assert.Zero(t, s.ClearCompleted(ctx))
	assert.Equal(t, saves, backend.Saves(), "nothing to clear must not write")
}

func TestTaskService_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, storage.NewMemoryBackend())

	task, err := s.Add(ctx, AddTaskParams{Text: "a"})
	require.NoError(t, err)
	task.Text = "changed"

	tasks := s.Tasks()
	tasks[0].Text = "changed too"

	stored, err := s.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", stored.Text)
}

func TestTaskService_ViewAndStats(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestService(t, storage.NewMemoryBackend())

	_, err := s.Add(ctx, AddTaskParams{Text: "low", Priority: "low", DueDate: models.NewDate(2024, time.June, 1)})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = s.Add(ctx, AddTaskParams{Text: "high", Priority: "high", DueDate: models.NewDate(2024, time.June, 13)})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	done, err := s.Add(ctx, AddTaskParams{Text: "done"})
	require.NoError(t, err)
	_, err = s.ToggleComplete(ctx, done.ID)
	require.NoError(t, err)

	view := s.View(query.Params{Status: query.StatusActive, SortBy: query.SortPriority})
	require.Len(t, view, 2)
	assert.Equal(t, "high", view[0].Text)
	assert.Equal(t, "low", view[1].Text)

	view = s.View(query.DefaultParams())
	require.Len(t, view, 3)
	assert.Equal(t, "done", view[0].Text, "newest first")

	assert.Equal(t, query.Stats{
		Total:        3,
		Active:       2,
		Completed:    1,
		Overdue:      1,
		DueSoon:      1,
		HighPriority: 1,
	}, s.Stats())
}

func TestTaskService_Persistence(t *testing.T) {
	ctx := context.Background()

	t.Run("reload reproduces the collection", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		s, _ := newTestService(t, backend)

		_, err := s.Add(ctx, AddTaskParams{Text: "a", Category: "work", DueDate: models.NewDate(2024, time.July, 4)})
		require.NoError(t, err)
		b, err := s.Add(ctx, AddTaskParams{Text: "b", Priority: "low"})
		require.NoError(t, err)
		_, err = s.ToggleComplete(ctx, b.ID)
		require.NoError(t, err)

		reloaded, _ := newTestService(t, backend)
		assert.Equal(t, s.Tasks(), reloaded.Tasks())
	})

	t.Run("malformed data starts empty", func(t *testing.T) {
		backend := storage.NewMemoryBackend()
		require.NoError(t, backend.Save(ctx, []byte(`not json`)))

		s, _ := newTestService(t, backend)
		assert.Empty(t, s.Tasks())
	})

	t.Run("read failure starts empty", func(t *testing.T) {
		s, _ := newTestService(t, &failingBackend{loadErr: errors.New("disk on fire")})
		assert.Empty(t, s.Tasks())
	})

	t.Run("write failure is not surfaced", func(t *testing.T) {
		backend := &failingBackend{loadErr: storage.ErrNoData, saveErr: errors.New("quota exceeded")}
		s, _ := newTestService(t, backend)

		task, err := s.Add(ctx, AddTaskParams{Text: "a"})
		require.NoError(t, err)
		_, err = s.ToggleComplete(ctx, task.ID)
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, task.ID))

		assert.Equal(t, 3, backend.saves)
		assert.Empty(t, s.Tasks())
	})
}

func TestTaskService_ConcurrentAddKeepsCreationOrder(t *testing.T) {
	base := time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)
	var ticks atomic.Int64
	s := NewTaskService(
		zerolog.Nop(),
		storage.NewMemoryBackend(),
		WithClock(func() time.Time {
			return base.Add(time.Duration(ticks.Add(1)) * time.Millisecond)
		}),
	)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Add(context.Background(), AddTaskParams{Text: "task " + strconv.Itoa(i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tasks := s.Tasks()
	require.Len(t, tasks, workers)
	for i := 1; i < len(tasks); i++ {
		assert.True(t, tasks[i-1].CreatedAt.Before(tasks[i].CreatedAt),
			"task %d was created after task %d", i-1, i)
	}

	view := s.View(query.DefaultParams())
	for i := range view {
		assert.Equal(t, tasks[len(tasks)-1-i].ID, view[i].ID)
	}
}
