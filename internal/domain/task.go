package domain

import (
	"time"
)

// Task represents a to-do item as exchanged with the task API.
// ID and CreatedAt are assigned by the server and never change.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
	IsImportant bool   `json:"isImportant"`
	CreatedAt   string `json:"createdAt"`
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

// CreatedTime parses CreatedAt as RFC3339. The zero time is returned for
// timestamps the server sent in another format.
func (t Task) CreatedTime() time.Time {
	parsed, err := time.Parse(time.RFC3339, t.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// NewTask is the payload for creating a task.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsImportant bool   `json:"isImportant"`
}

// TaskPatch is a merge-patch: only non-nil fields are sent and changed.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
	IsImportant *bool   `json:"isImportant,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.IsCompleted == nil && p.IsImportant == nil
}

// Apply returns a copy of task with the patch merged in.
func (p TaskPatch) Apply(task Task) Task {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.IsCompleted != nil {
		task.IsCompleted = *p.IsCompleted
	}
	if p.IsImportant != nil {
		task.IsImportant = *p.IsImportant
	}
	return task
}

// StringPtr and BoolPtr build patch fields inline.
func StringPtr(s string) *string { return &s }

func BoolPtr(b bool) *bool { return &b }
