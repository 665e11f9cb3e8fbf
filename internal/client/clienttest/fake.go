// Package clienttest provides an in-memory task API for tests.
package clienttest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"todo/internal/client"
	"todo/internal/domain"
	"todo/internal/errors"
)

// Call records one request made against the fake.
type Call struct {
	Method string
	ID     string
	Search string
}

// FakeAPI is an in-memory implementation of client.API. It behaves like
// the reference server: creation order, case-insensitive search over
// title and description, merge-patch updates and not-found errors.
type FakeAPI struct {
	mu     sync.Mutex
	tasks  []domain.Task
	nextID int
	calls  []Call

	// Error injection for testing
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// BeforeListReturn, when set, runs after ListTasks has computed its
	// result and before it returns. Tests block in it to reorder responses.
	BeforeListReturn func(search string)

	// Now stamps createdAt; defaults to time.Now.
	Now func() time.Time
}

// New creates an empty FakeAPI.
func New() *FakeAPI {
	return &FakeAPI{Now: time.Now}
}

// Seed adds tasks as if they had been created earlier, keeping their IDs.
func (f *FakeAPI) Seed(tasks ...domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, tasks...)
}

// Snapshot returns the server-side tasks in creation order.
func (f *FakeAPI) Snapshot() []domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Task(nil), f.tasks...)
}

// Calls returns every request seen so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many requests used method.
func (f *FakeAPI) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeAPI) record(c Call) {
	f.calls = append(f.calls, c)
}

func (f *FakeAPI) indexOf(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ListTasks implements client.API.
func (f *FakeAPI) ListTasks(ctx context.Context, search string) ([]domain.Task, error) {
	f.mu.Lock()
	f.record(Call{Method: "ListTasks", Search: search})
	if f.ListErr != nil {
		err := f.ListErr
		f.mu.Unlock()
		return nil, err
	}
	result := []domain.Task{}
	needle := strings.ToLower(search)
	for _, t := range f.tasks {
		if needle == "" ||
			strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			result = append(result, t)
		}
	}
	hook := f.BeforeListReturn
	f.mu.Unlock()

	if hook != nil {
		hook(search)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewNetworkError("list tasks", err)
	}
	return result, nil
}

// GetTask implements client.API.
func (f *FakeAPI) GetTask(ctx context.Context, id string) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "GetTask", ID: id})
	if f.GetErr != nil {
		return domain.Task{}, f.GetErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return domain.Task{}, errors.NewNotFoundError("task", id)
	}
	return f.tasks[i], nil
}

// CreateTask implements client.API.
func (f *FakeAPI) CreateTask(ctx context.Context, task domain.NewTask) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "CreateTask"})
	if f.CreateErr != nil {
		return domain.Task{}, f.CreateErr
	}
	f.nextID++
	created := domain.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		Title:       task.Title,
		Description: task.Description,
		IsImportant: task.IsImportant,
		CreatedAt:   f.Now().UTC().Format(time.RFC3339),
	}
	f.tasks = append(f.tasks, created)
	return created, nil
}

// UpdateTask implements client.API.
func (f *FakeAPI) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "UpdateTask", ID: id})
	if f.UpdateErr != nil {
		return domain.Task{}, f.UpdateErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return domain.Task{}, errors.NewNotFoundError("task", id)
	}
	f.tasks[i] = patch.Apply(f.tasks[i])
	return f.tasks[i], nil
}

// DeleteTask implements client.API.
func (f *FakeAPI) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "DeleteTask", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	i := f.indexOf(id)
	if i < 0 {
		return errors.NewNotFoundError("task", id)
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

var _ client.API = (*FakeAPI)(nil)
