package api

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/repository/sqlite"
	"todo/internal/validation"
)

// API defines the server-side task operations used by the HTTP handlers
type API interface {
	// Task operations
	ListTasks(ctx context.Context, search string) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (domain.Task, error)
	CreateTask(ctx context.Context, task domain.NewTask) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// apiImpl implements the API interface
type apiImpl struct {
	repo          sqlite.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	now           func() time.Time
	newID         func() string
}

// Option configures the API.
type Option func(*apiImpl)

// WithValidator replaces the default task validator.
func WithValidator(v *validation.TaskValidator) Option {
	return func(a *apiImpl) {
		if v != nil {
			a.taskValidator = v
		}
	}
}

// WithClock sets the clock used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(a *apiImpl) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator sets the function that assigns task ids.
func WithIDGenerator(newID func() string) Option {
	return func(a *apiImpl) {
		if newID != nil {
			a.newID = newID
		}
	}
}

// New creates a new API instance
func New(repo sqlite.Repository, opts ...Option) API {
	a := &apiImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(),
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListTasks returns tasks in creation order, filtered by search when it is
// not blank.
func (a *apiImpl) ListTasks(ctx context.Context, search string) ([]domain.Task, error) {
	rows, err := a.repo.SearchTasks(ctx, search)
	if err != nil {
		return nil, err
	}
	return a.mapper.Task.FromDatabaseSlice(rows), nil
}

func (a *apiImpl) GetTask(ctx context.Context, id string) (domain.Task, error) {
	if err := a.taskValidator.ValidateTaskID(id); err != nil {
		return domain.Task{}, toAppError(err)
	}
	row, err := a.repo.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return a.mapper.Task.FromDatabase(*row), nil
}

// CreateTask assigns the id and createdAt and stores a new, uncompleted task.
func (a *apiImpl) CreateTask(ctx context.Context, task domain.NewTask) (domain.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if err := a.taskValidator.ValidateNewTask(task); err != nil {
		return domain.Task{}, toAppError(err)
	}

	created := domain.Task{
		ID:          a.newID(),
		Title:       task.Title,
		Description: task.Description,
		IsImportant: task.IsImportant,
		CreatedAt:   sqlite.FormatTimeForDB(a.now()),
	}
	row := a.mapper.Task.ToDatabase(created)
	if err := a.repo.CreateTask(ctx, &row); err != nil {
		return domain.Task{}, err
	}
	return a.mapper.Task.FromDatabase(row), nil
}

// UpdateTask merges patch into the stored task and returns the result.
func (a *apiImpl) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	if err := a.taskValidator.ValidateTaskID(id); err != nil {
		return domain.Task{}, toAppError(err)
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}
	if err := a.taskValidator.ValidatePatch(patch); err != nil {
		return domain.Task{}, toAppError(err)
	}

	if err := a.repo.UpdateTask(ctx, id, a.mapper.Patch.ToDatabase(patch)); err != nil {
		return domain.Task{}, err
	}
	return a.GetTask(ctx, id)
}

func (a *apiImpl) DeleteTask(ctx context.Context, id string) error {
	if err := a.taskValidator.ValidateTaskID(id); err != nil {
		return toAppError(err)
	}
	return a.repo.DeleteTask(ctx, id)
}

func toAppError(err error) error {
	if ve, ok := err.(*validation.ValidationError); ok {
		return ve.ToAppError()
	}
	return errors.NewValidationError(err.Error(), err)
}
