package errors

import (
	"errors"
	"fmt"
)

// Operation names a task operation that can fail as a whole.
type Operation string

const (
	OpFetch  Operation = "fetch"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Sentinels for use with errors.Is.
var (
	ErrNotFound     = &AppError{Type: ErrorTypeNotFound, Code: "NOT_FOUND"}
	ErrValidation   = &AppError{Type: ErrorTypeValidation, Code: "VALIDATION_FAILED"}
	ErrFetchFailed  = &AppError{Type: ErrorTypeOperation, Code: "FETCH_FAILED"}
	ErrCreateFailed = &AppError{Type: ErrorTypeOperation, Code: "CREATE_FAILED"}
	ErrUpdateFailed = &AppError{Type: ErrorTypeOperation, Code: "UPDATE_FAILED"}
	ErrDeleteFailed = &AppError{Type: ErrorTypeOperation, Code: "DELETE_FAILED"}
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewNetworkError creates an error for a request that never got a response
func NewNetworkError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: fmt.Sprintf("request failed: %s", operation),
		Code:    "NETWORK_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewRemoteError creates an error for a non-2xx response from the task API
func NewRemoteError(operation string, status int, serverMessage string) *AppError {
	return &AppError{
		Type:    ErrorTypeRemote,
		Message: fmt.Sprintf("%s returned status %d", operation, status),
		Code:    "REMOTE_ERROR",
		Context: map[string]interface{}{
			"operation": operation,
			"status":    status,
			"server":    serverMessage,
		},
	}
}

// NewDecodeError creates an error for a malformed response body
func NewDecodeError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: fmt.Sprintf("malformed response: %s", operation),
		Code:    "DECODE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewOperationError wraps any failure of a task operation in the generic
// failure for that operation. The cause stays reachable through Unwrap.
func NewOperationError(op Operation, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeOperation,
		Message: fmt.Sprintf("task %s failed", op),
		Code:    operationCode(op),
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": string(op),
		},
	}
}

func operationCode(op Operation) string {
	switch op {
	case OpFetch:
		return ErrFetchFailed.Code
	case OpCreate:
		return ErrCreateFailed.Code
	case OpUpdate:
		return ErrUpdateFailed.Code
	case OpDelete:
		return ErrDeleteFailed.Code
	default:
		return "OPERATION_FAILED"
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the outermost AppError is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// IsNotFound reports whether a not-found error appears anywhere in the chain
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// GetUserMessage returns a user-friendly error message.
// Failures of the same operation always read the same, whatever the cause.
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			return appErr.Message
		case ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypeOperation:
			switch appErr.Code {
			case ErrFetchFailed.Code:
				return "Failed to load tasks."
			case ErrCreateFailed.Code:
				return "Failed to create task."
			case ErrUpdateFailed.Code:
				return "Failed to update task."
			case ErrDeleteFailed.Code:
				return "Failed to delete task."
			}
			return "The operation failed. Please try again."
		case ErrorTypeNetwork, ErrorTypeRemote, ErrorTypeDecode:
			return "Could not reach the task server. Please try again."
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput:
			return false // user errors
		default:
			return true
		}
	}
	return true
}
