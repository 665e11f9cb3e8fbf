package sqlite

// Task is a row of the tasks table.
// Seq is the insertion sequence and defines list order; ID is the public
// identifier handed out by the API.
type Task struct {
	Seq         int64
	ID          string
	Title       string
	Description string
	IsCompleted bool
	IsImportant bool
	CreatedAt   string
}

// TaskUpdate holds the columns to change; nil fields are left as they are.
type TaskUpdate struct {
	Title       *string
	Description *string
	IsCompleted *bool
	IsImportant *bool
}

// IsEmpty reports whether the update changes no column.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.IsCompleted == nil && u.IsImportant == nil
}
