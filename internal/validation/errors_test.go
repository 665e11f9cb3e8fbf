package validation

import (
	"fmt"
	"strings"
	"testing"

	apperrors "todo/internal/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
		contains    bool
	}{
		{"No errors", []FieldError{}, "validation error", false},
		{"Single error", []FieldError{{Field: "title", Message: "is required"}}, "validation error for field 'title': is required", false},
		{"Multiple errors", []FieldError{
			{Field: "title", Message: "is required"},
			{Field: "description", Message: "is too long"},
		}, "multiple validation errors", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.Error()

			if tt.contains {
				if !strings.Contains(result, tt.expectError) {
					t.Errorf("ValidationError.Error() = %v, expected to contain %v", result, tt.expectError)
				}
			} else if result != tt.expectError {
				t.Errorf("ValidationError.Error() = %v, expected %v", result, tt.expectError)
			}
		})
	}
}

func TestValidationError_ErrOrNil(t *testing.T) {
	ve := NewValidationError()
	if err := ve.ErrOrNil(); err != nil {
		t.Errorf("ErrOrNil() on empty = %v, expected nil", err)
	}

	ve.AddRequiredError("title")
	if err := ve.ErrOrNil(); err == nil {
		t.Error("ErrOrNil() with errors = nil, expected error")
	}
}

func TestValidationError_AddErrors(t *testing.T) {
	tests := []struct {
		name         string
		add          func(ve *ValidationError)
		expectedType ValidationErrorType
		contains     string
	}{
		{"Required", func(ve *ValidationError) { ve.AddRequiredError("title") }, ErrorTypeRequired, "title is required"},
		{"Length", func(ve *ValidationError) { ve.AddInvalidLengthError("title", "x", 200) }, ErrorTypeInvalidLength, "at most 200"},
		{"Value", func(ve *ValidationError) { ve.AddInvalidValueError("id", "", "must not be blank") }, ErrorTypeInvalidValue, "must not be blank"},
		{"Character", func(ve *ValidationError) { ve.AddInvalidCharacterError("title", "a\x00") }, ErrorTypeInvalidCharacter, "invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			tt.add(ve)

			if len(ve.Errors) != 1 {
				t.Fatalf("Expected 1 error, got %d", len(ve.Errors))
			}
			if ve.Errors[0].Type != tt.expectedType {
				t.Errorf("Expected error type %v, got %v", tt.expectedType, ve.Errors[0].Type)
			}
			if !strings.Contains(ve.Errors[0].Message, tt.contains) {
				t.Errorf("Expected message to contain %q, got %s", tt.contains, ve.Errors[0].Message)
			}
		})
	}
}

func TestValidationError_GetFieldErrors(t *testing.T) {
	ve := NewValidationError()

	ve.AddRequiredError("title")
	ve.AddInvalidCharacterError("title", "\x00")
	ve.AddInvalidLengthError("description", 3000, 2000)

	if got := len(ve.GetFieldErrors("title")); got != 2 {
		t.Errorf("Expected 2 errors for 'title', got %d", got)
	}
	if got := len(ve.GetFieldErrors("description")); got != 1 {
		t.Errorf("Expected 1 error for 'description', got %d", got)
	}
	if got := len(ve.GetFieldErrors("missing")); got != 0 {
		t.Errorf("Expected 0 errors for 'missing', got %d", got)
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		expected string
	}{
		{"No errors", []FieldError{}, "Input validation failed"},
		{"Single error", []FieldError{{Field: "title", Message: "title is required"}}, "title is required"},
		{"Multiple errors", []FieldError{
			{Field: "title", Message: "title is required"},
			{Field: "description", Message: "description is too long"},
		}, "Multiple validation errors occurred:\n- title is required\n- description is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			if result := ve.GetUserFriendlyMessage(); result != tt.expected {
				t.Errorf("GetUserFriendlyMessage() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestValidationError_ToAppError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("title")

	appErr := ve.ToAppError()
	if !appErr.IsType(apperrors.ErrorTypeValidation) {
		t.Errorf("ToAppError() type = %v, expected validation", appErr.Type)
	}
	if got := apperrors.GetUserMessage(appErr); got != "title is required" {
		t.Errorf("GetUserMessage() = %q, expected %q", got, "title is required")
	}
	if field, _ := appErr.GetContext("field"); field != "title" {
		t.Errorf("context field = %v, expected title", field)
	}
	if !IsValidationError(appErr) {
		t.Error("IsValidationError() on wrapped error = false, expected true")
	}
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("title")

	if !IsValidationError(ve) {
		t.Errorf("IsValidationError() = false, expected true for ValidationError")
	}
	if !IsValidationError(fmt.Errorf("create: %w", ve)) {
		t.Errorf("IsValidationError() = false, expected true for wrapped ValidationError")
	}

	regularError := &FieldError{Field: "test", Message: "error"}
	if IsValidationError(regularError) {
		t.Errorf("IsValidationError() = true, expected false for regular error")
	}
}

func TestNewValidationError(t *testing.T) {
	ve := NewValidationError()

	if ve == nil {
		t.Fatal("NewValidationError() returned nil")
	}
	if ve.Errors == nil {
		t.Error("NewValidationError() returned ValidationError with nil Errors slice")
	}
	if len(ve.Errors) != 0 {
		t.Errorf("NewValidationError() returned ValidationError with %d errors, expected 0", len(ve.Errors))
	}
}
