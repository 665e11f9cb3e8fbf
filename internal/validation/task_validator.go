package validation

import (
	"todo/internal/config"
	"todo/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTitle validates a task title for creation or update.
// A title is required and must be a single printable line.
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()
	tv.checkTitle(validationError, title)
	return validationError.ErrOrNil()
}

// ValidateDescription validates an optional task description
func (tv *TaskValidator) ValidateDescription(description string) error {
	validationError := NewValidationError()
	tv.checkDescription(validationError, description)
	return validationError.ErrOrNil()
}

// ValidateNewTask validates a creation payload
func (tv *TaskValidator) ValidateNewTask(task domain.NewTask) error {
	validationError := NewValidationError()
	tv.checkTitle(validationError, task.Title)
	tv.checkDescription(validationError, task.Description)
	return validationError.ErrOrNil()
}

// ValidatePatch validates the fields present in a merge-patch.
// Absent fields are not checked.
func (tv *TaskValidator) ValidatePatch(patch domain.TaskPatch) error {
	validationError := NewValidationError()
	if patch.Title != nil {
		tv.checkTitle(validationError, *patch.Title)
	}
	if patch.Description != nil {
		tv.checkDescription(validationError, *patch.Description)
	}
	return validationError.ErrOrNil()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if !tv.validator.IsNonEmptyString(id) {
		validationError := NewValidationError()
		validationError.AddRequiredError("id")
		return validationError
	}
	if id == "." || id == ".." {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", id, "must not be . or ..")
		return validationError
	}
	return nil
}

func (tv *TaskValidator) checkTitle(ve *ValidationError, title string) {
	trimmed := tv.validator.TrimAndValidateString(title)
	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError("title")
		return
	}
	if max := tv.validator.TitleMaxLength(); !tv.validator.IsWithinLength(trimmed, max) {
		ve.AddInvalidLengthError("title", trimmed, max)
	}
	if !tv.validator.IsSingleLine(trimmed) || !tv.validator.IsPrintableText(trimmed) {
		ve.AddInvalidCharacterError("title", trimmed)
	}
}

func (tv *TaskValidator) checkDescription(ve *ValidationError, description string) {
	if max := tv.validator.DescriptionMaxLength(); !tv.validator.IsWithinLength(description, max) {
		ve.AddInvalidLengthError("description", len(description), max)
	}
	if !tv.validator.IsPrintableText(description) {
		ve.AddInvalidCharacterError("description", description)
	}
}
