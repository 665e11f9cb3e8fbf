package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"todo/internal/config"
)

const (
	defaultTitleMaxLength       = 200
	defaultDescriptionMaxLength = 2000
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinLength reports whether s has at most max characters.
// A non-positive max disables the check.
func (v *Validator) IsWithinLength(s string, max int) bool {
	return max <= 0 || utf8.RuneCountInString(s) <= max
}

// IsPrintableText rejects control characters other than newline and tab.
func (v *Validator) IsPrintableText(s string) bool {
	for _, r := range s {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsSingleLine reports whether s contains no line breaks.
func (v *Validator) IsSingleLine(s string) bool {
	return !strings.ContainsAny(s, "\r\n")
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// TitleMaxLength returns the configured maximum title length or default
func (v *Validator) TitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return defaultTitleMaxLength
}

// DescriptionMaxLength returns the configured maximum description length or default
func (v *Validator) DescriptionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.DescriptionMaxLength
	}
	return defaultDescriptionMaxLength
}
