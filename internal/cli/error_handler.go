package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/errors"
	"todo/internal/validation"
)

// Exit codes returned by the todo binary
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ErrorHandler turns command errors into the text shown to the user
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// HandleSimple returns only the user-facing message. Operation failures
// read "Failed to create task." and so on; transport detail never shows.
func (eh *ErrorHandler) HandleSimple(err error) error {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}

	return err
}

// Report writes the user message for err to w and returns the exit code.
// Errors that are not the user's fault also go to logger at debug level,
// with their cause, so -v shows what the server said.
func (eh *ErrorHandler) Report(w io.Writer, logger *log.Logger, err error) int {
	fmt.Fprintf(w, "Error: %v\n", eh.HandleSimple(err))
	if eh.IsNotFoundError(err) {
		fmt.Fprintln(w, "Run 'todo list' to see task ids.")
	}

	if logger != nil && eh.ShouldLog(err) {
		logger.Debug("command failed", "code", eh.GetErrorCode(err), "err", err)
	}

	if eh.IsValidationError(err) {
		return ExitUsage
	}
	return ExitFailure
}

// IsValidationError reports whether err was caused by bad user input
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation) ||
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput)
}

// IsNotFoundError reports whether a not-found error is anywhere in the chain
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsNotFound(err)
}

// ShouldLog reports whether err deserves a log line besides the user message
func (eh *ErrorHandler) ShouldLog(err error) bool {
	return errors.ShouldLogError(err)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
