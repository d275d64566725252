package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/todo-assistant/internal/models"
	"github.com/adanyl0v/todo-assistant/internal/query"
	"github.com/adanyl0v/todo-assistant/internal/storage"
)

type TaskServiceOption func(*taskServiceImpl)

func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

func WithIDGenerator(newID func() (string, error)) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.newID = newID
	}
}

type taskServiceImpl struct {
	logger  zerolog.Logger
	backend storage.Backend
	now     func() time.Time
	newID   func() (string, error)

	mu    sync.RWMutex
	tasks []models.Task
}

func NewTaskService(
	logger zerolog.Logger,
	backend storage.Backend,
	opts ...TaskServiceOption,
) TaskService {
	s := &taskServiceImpl{
		logger:  logger,
		backend: backend,
		now:     time.Now,
		newID:   newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

func (s *taskServiceImpl) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil

	data, err := s.backend.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoData) {
			s.logger.Info().Msg("no saved tasks, starting empty")
			return
		}

		s.logger.Warn().
			Err(err).
			Msg("failed to load tasks, starting empty")
		return
	}

	tasks, err := storage.Decode(data)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("size", len(data)).
			Msg("discarding malformed saved tasks")
		return
	}
	s.tasks = tasks

	s.logger.Info().
		Int("count", len(tasks)).
		Msg("loaded tasks")
}

func (s *taskServiceImpl) Add(ctx context.Context, params AddTaskParams) (*models.Task, error) {
	text := strings.TrimSpace(params.Text)
	if text == "" {
		s.logger.Debug().Msg("rejected task with empty text")
		return nil, ErrEmptyText
	}

	category, err := models.ParseCategory(params.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCategory, err)
	}
	priority, err := models.ParsePriority(params.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPriority, err)
	}

	id, err := s.newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task id")
		return nil, err
	}

	task := models.Task{
		ID:       id,
		Text:     text,
		Category: category,
		Priority: priority,
		DueDate:  params.DueDate,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.CreatedAt = s.now()
	s.tasks = append(s.tasks, task)
	s.persistLocked(ctx)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("category", string(task.Category)).
		Str("priority", string(task.Priority)).
		Msg("created task")
	created := task.Clone()
	return &created, nil
}

func (s *taskServiceImpl) Get(id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrTaskNotFound
	}
	task := s.tasks[i].Clone()
	return &task, nil
}

func (s *taskServiceImpl) Edit(ctx context.Context, params EditTaskParams) (*models.Task, error) {
	text := strings.TrimSpace(params.Text)
	if text == "" {
		s.logger.Debug().
			Str("task_id", params.ID).
			Msg("cancelled edit with empty text")
		return nil, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(params.ID)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", params.ID).
			Msg("task not found")
		return nil, ErrTaskNotFound
	}

	s.tasks[i].Text = text
	s.persistLocked(ctx)

	s.logger.Info().
		Str("task_id", params.ID).
		Msg("edited task")
	task := s.tasks[i].Clone()
	return &task, nil
}

func (s *taskServiceImpl) ToggleComplete(ctx context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("task not found")
		return nil, ErrTaskNotFound
	}

	task := &s.tasks[i]
	task.Completed = !task.Completed
	if task.Completed {
		completedAt := s.now()
		task.CompletedAt = &completedAt
	} else {
		task.CompletedAt = nil
	}
	s.persistLocked(ctx)

	s.logger.Info().
		Str("task_id", id).
		Bool("completed", task.Completed).
		Msg("toggled task")
	toggled := task.Clone()
	return &toggled, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.persistLocked(ctx)

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) ClearCompleted(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool {
		return t.Completed
	})
	removed := before - len(s.tasks)
	if removed == 0 {
		s.logger.Debug().Msg("no completed tasks to clear")
		return 0
	}
	s.persistLocked(ctx)

	s.logger.Info().
		Int("count", removed).
		Msg("cleared completed tasks")
	return removed
}

func (s *taskServiceImpl) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *taskServiceImpl) View(params query.Params) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return query.View(s.tasks, params)
}

func (s *taskServiceImpl) Stats() query.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return query.Aggregate(s.tasks, s.now())
}

func (s *taskServiceImpl) snapshotLocked() []models.Task {
	tasks := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		tasks[i] = t.Clone()
	}
	return tasks
}

func (s *taskServiceImpl) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool {
		return t.ID == id
	})
}

// persistLocked writes the whole collection. Failures are logged only: the
// in-memory collection stays authoritative.
func (s *taskServiceImpl) persistLocked(ctx context.Context) {
	data, err := storage.Encode(s.tasks)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to encode tasks")
		return
	}

	err = s.backend.Save(context.WithoutCancel(ctx), data)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("count", len(s.tasks)).
			Msg("failed to save tasks")
		return
	}
	s.logger.Debug().
		Int("count", len(s.tasks)).
		Int("size", len(data)).
		Msg("saved tasks")
}
