package validation

import (
	"strings"
	"testing"

	"todo/internal/config"
	"todo/internal/domain"
)

func TestTaskValidator_ValidateTitle(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		input       string
		expectError bool
		errorType   ValidationErrorType
	}{
		{"Valid title", "Buy milk", false, ""},
		{"Empty title", "", true, ErrorTypeRequired},
		{"Whitespace only", "   ", true, ErrorTypeRequired},
		{"Tabs and newlines only", "\t\n ", true, ErrorTypeRequired},
		{"Too long title", strings.Repeat("a", 201), true, ErrorTypeInvalidLength},
		{"Valid long title", strings.Repeat("a", 200), false, ""},
		{"Padded title within limit", "  " + strings.Repeat("a", 200) + "  ", false, ""},
		{"Punctuation and symbols", "Pay 100% @ bank #2", false, ""},
		{"Unicode", "Café ☕ mit Freunden", false, ""},
		{"Embedded newline", "first\nsecond", true, ErrorTypeInvalidCharacter},
		{"Control character", "bell\x07", true, ErrorTypeInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTitle(tt.input)

			if !tt.expectError {
				if err != nil {
					t.Errorf("ValidateTitle(%q) expected no error but got %v", tt.input, err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateTitle(%q) expected error but got nil", tt.input)
				return
			}

			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Errorf("ValidateTitle(%q) expected ValidationError but got %T", tt.input, err)
				return
			}

			if len(validationErr.Errors) == 0 {
				t.Errorf("ValidateTitle(%q) expected validation errors but got none", tt.input)
				return
			}

			if validationErr.Errors[0].Type != tt.errorType {
				t.Errorf("ValidateTitle(%q) expected error type %v but got %v", tt.input, tt.errorType, validationErr.Errors[0].Type)
			}
		})
	}
}

func TestTaskValidator_RequiredMessage(t *testing.T) {
	err := NewTaskValidator().ValidateTitle(" ")
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if got := ve.GetUserFriendlyMessage(); got != "title is required" {
		t.Errorf("GetUserFriendlyMessage() = %q, expected %q", got, "title is required")
	}
}

func TestTaskValidator_ValidateNewTask(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		task        domain.NewTask
		expectError bool
		errorCount  int
	}{
		{"Valid task", domain.NewTask{Title: "Buy milk"}, false, 0},
		{"Valid with description", domain.NewTask{Title: "Buy milk", Description: "two litres\nsemi-skimmed"}, false, 0},
		{"Blank title", domain.NewTask{Title: "  ", IsImportant: true}, true, 1},
		{"Description too long", domain.NewTask{Title: "x", Description: strings.Repeat("d", 2001)}, true, 1},
		{"Both invalid", domain.NewTask{Title: "", Description: strings.Repeat("d", 2001)}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateNewTask(tt.task)

			if tt.expectError && err == nil {
				t.Errorf("ValidateNewTask(%+v) expected error but got nil", tt.task)
				return
			}
			if !tt.expectError {
				if err != nil {
					t.Errorf("ValidateNewTask(%+v) expected no error but got %v", tt.task, err)
				}
				return
			}
			if ve := err.(*ValidationError); len(ve.Errors) != tt.errorCount {
				t.Errorf("ValidateNewTask(%+v) expected %d errors, got %d", tt.task, tt.errorCount, len(ve.Errors))
			}
		})
	}
}

func TestTaskValidator_ValidatePatch(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		patch       domain.TaskPatch
		expectError bool
	}{
		{"Empty patch", domain.TaskPatch{}, false},
		{"Completion only", domain.TaskPatch{IsCompleted: domain.BoolPtr(true)}, false},
		{"Valid title", domain.TaskPatch{Title: domain.StringPtr("Renamed")}, false},
		{"Blank title", domain.TaskPatch{Title: domain.StringPtr("   ")}, true},
		{"Empty description", domain.TaskPatch{Description: domain.StringPtr("")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePatch(tt.patch)

			if tt.expectError && err == nil {
				t.Errorf("ValidatePatch() expected error but got nil")
			} else if !tt.expectError && err != nil {
				t.Errorf("ValidatePatch() expected no error but got %v", err)
			}
		})
	}
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	validator := NewTaskValidator()

	if err := validator.ValidateTaskID("8f14e45f"); err != nil {
		t.Errorf("ValidateTaskID() expected no error but got %v", err)
	}
	if err := validator.ValidateTaskID("  "); err == nil {
		t.Error("ValidateTaskID(blank) expected error but got nil")
	}
	for _, id := range []string{".", ".."} {
		if err := validator.ValidateTaskID(id); err == nil {
			t.Errorf("ValidateTaskID(%q) expected error but got nil", id)
		}
	}
	if err := validator.ValidateTaskID("..x"); err != nil {
		t.Errorf("ValidateTaskID(\"..x\") expected no error but got %v", err)
	}
}

func TestTaskValidator_ConfiguredLimits(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TitleMaxLength = 5
	validator := NewTaskValidatorWithConfig(cfg)

	if err := validator.ValidateTitle("12345"); err != nil {
		t.Errorf("ValidateTitle() at limit expected no error but got %v", err)
	}
	if err := validator.ValidateTitle("123456"); err == nil {
		t.Error("ValidateTitle() over limit expected error but got nil")
	}
}
