// Package store holds the client-side task cache and is the only path
// through which the presentation layer changes remote task state.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"todo/internal/client"
	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
	"todo/internal/validation"
)

// Store caches the most recently fetched task list and a loading flag.
// The cache is replaced wholesale by fetches and never edited locally.
type Store struct {
	api       client.API
	validator *validation.TaskValidator
	logger    *log.Logger

	refreshOnMutate bool

	mu      sync.RWMutex
	tasks   []domain.Task
	seq     uint64 // sequence number of the newest FetchTasks call
	loading bool

	listeners []func()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for fetch failures and mutations.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator replaces the default title/description rules.
func WithValidator(v *validation.TaskValidator) Option {
	return func(s *Store) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithRefreshOnMutate makes UpdateTask and DeleteTask re-fetch the
// unfiltered list after they succeed. Off by default: only AddTask refreshes.
func WithRefreshOnMutate(enabled bool) Option {
	return func(s *Store) {
		s.refreshOnMutate = enabled
	}
}

// New creates a Store backed by api.
func New(api client.API, opts ...Option) *Store {
	s := &Store{
		api:       api,
		validator: validation.NewTaskValidator(),
		logger:    logging.Discard(),
		tasks:     []domain.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the cached tasks in server order.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Loading reports whether a fetch is outstanding.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers fn to run after every change to the cache or the
// loading flag. fn runs on the goroutine that made the change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// FetchTasks loads the tasks matching search (empty means all) and
// replaces the cache with them. Failures are logged and leave the cache
// as it was. When calls overlap, only the result of the newest call is
// applied, and loading clears when that newest call returns.
func (s *Store) FetchTasks(ctx context.Context, search string) {
	_ = s.Refresh(ctx, search)
}

// Refresh behaves like FetchTasks but also returns the failure, for
// callers that must not report success on a stale or empty cache.
func (s *Store) Refresh(ctx context.Context, search string) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading = true
	s.mu.Unlock()
	s.notify()

	tasks, err := s.api.ListTasks(ctx, search)

	s.mu.Lock()
	current := seq == s.seq
	if current {
		if err == nil {
			if tasks == nil {
				tasks = []domain.Task{}
			}
			s.tasks = tasks
		}
		s.loading = false
	}
	s.mu.Unlock()

	switch {
	case err != nil && current:
		s.logger.Error("fetch tasks failed", "search", search, "err", err)
	case err != nil:
		s.logger.Debug("superseded fetch failed", "search", search, "err", err)
	case !current:
		s.logger.Debug("discarding superseded fetch", "search", search, "count", len(tasks))
	}
	s.notify()

	if err != nil {
		return errors.NewOperationError(errors.OpFetch, err)
	}
	return nil
}

// GetTask reads one task straight from the server. The cache is not
// touched. An unknown id comes back as a not-found error.
func (s *Store) GetTask(ctx context.Context, id string) (domain.Task, error) {
	if err := s.validator.ValidateTaskID(id); err != nil {
		return domain.Task{}, validationFailure(err)
	}

	task, err := s.api.GetTask(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.Task{}, err
		}
		s.logger.Error("get task failed", "id", id, "err", err)
		return domain.Task{}, errors.NewOperationError(errors.OpFetch, err)
	}
	return task, nil
}

// AddTask creates a task and then refreshes the cache with an unfiltered
// fetch. A blank title fails validation without any request.
func (s *Store) AddTask(ctx context.Context, task domain.NewTask) error {
	task.Title = strings.TrimSpace(task.Title)
	if err := s.validator.ValidateNewTask(task); err != nil {
		return validationFailure(err)
	}

	created, err := s.api.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error("create task failed", "title", task.Title, "err", err)
		return errors.NewOperationError(errors.OpCreate, err)
	}
	s.logger.Debug("task created", "id", created.ID)

	s.FetchTasks(ctx, "")
	return nil
}

// UpdateTask sends a merge-patch for id. The cache is left alone unless
// the store was built WithRefreshOnMutate.
func (s *Store) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) error {
	if err := s.validator.ValidateTaskID(id); err != nil {
		return validationFailure(err)
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	if err := s.validator.ValidatePatch(patch); err != nil {
		return validationFailure(err)
	}

	if _, err := s.api.UpdateTask(ctx, id, patch); err != nil {
		s.logger.Error("update task failed", "id", id, "err", err)
		return errors.NewOperationError(errors.OpUpdate, err)
	}
	s.logger.Debug("task updated", "id", id)

	if s.refreshOnMutate {
		s.FetchTasks(ctx, "")
	}
	return nil
}

// DeleteTask deletes id. The cache is left alone unless the store was
// built WithRefreshOnMutate.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.validator.ValidateTaskID(id); err != nil {
		return validationFailure(err)
	}

	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.logger.Error("delete task failed", "id", id, "err", err)
		return errors.NewOperationError(errors.OpDelete, err)
	}
	s.logger.Debug("task deleted", "id", id)

	if s.refreshOnMutate {
		s.FetchTasks(ctx, "")
	}
	return nil
}

func validationFailure(err error) error {
	if ve, ok := err.(*validation.ValidationError); ok {
		return ve.ToAppError()
	}
	return errors.NewValidationError(err.Error(), err)
}
