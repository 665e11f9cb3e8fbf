package domain

import (
	"todo/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
// The row sequence is owned by the database and left zero.
func (m *TaskMapper) ToDatabase(domainTask Task) sqlite.Task {
	return sqlite.Task{
		ID:          domainTask.ID,
		Title:       domainTask.Title,
		Description: domainTask.Description,
		IsCompleted: domainTask.IsCompleted,
		IsImportant: domainTask.IsImportant,
		CreatedAt:   domainTask.CreatedAt,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:          dbTask.ID,
		Title:       dbTask.Title,
		Description: dbTask.Description,
		IsCompleted: dbTask.IsCompleted,
		IsImportant: dbTask.IsImportant,
		CreatedAt:   dbTask.CreatedAt,
	}
}

// FromDatabaseSlice converts database Tasks to domain Tasks, keeping order.
// The result is never nil so it encodes as an empty JSON array.
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlite.Task) []Task {
	domainTasks := make([]Task, 0, len(dbTasks))
	for _, task := range dbTasks {
		domainTasks = append(domainTasks, m.FromDatabase(*task))
	}
	return domainTasks
}

// PatchMapper converts a domain patch into the column updates the
// repository understands.
type PatchMapper struct{}

// NewPatchMapper creates a new PatchMapper instance.
func NewPatchMapper() *PatchMapper {
	return &PatchMapper{}
}

// ToDatabase converts a domain TaskPatch to a database TaskUpdate.
func (m *PatchMapper) ToDatabase(patch TaskPatch) sqlite.TaskUpdate {
	return sqlite.TaskUpdate{
		Title:       patch.Title,
		Description: patch.Description,
		IsCompleted: patch.IsCompleted,
		IsImportant: patch.IsImportant,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task  *TaskMapper
	Patch *PatchMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:  NewTaskMapper(),
		Patch: NewPatchMapper(),
	}
}
