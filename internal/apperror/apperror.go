package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConfiguration   = errors.New("configuration error")
	ErrRemote          = errors.New("remote api error")
)

type AppError struct {
	Err     error  // sentinel identifying the error class
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict marks a write rejected by GitHub's optimistic-concurrency check:
// the file changed between our SHA lookup and our PUT. Callers may re-read
// and resubmit; we never retry it automatically.
func Conflict(path string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("concurrent edit detected for %s", path),
	}
}

// Unauthenticated returns an AppError for requests without a usable session.
// HTTP handlers map this to 401 Unauthorized.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// Configuration returns an AppError for missing or unusable configuration.
func Configuration(message string) *AppError {
	return &AppError{
		Err:     ErrConfiguration,
		Message: message,
	}
}

// Remote wraps a failure from the GitHub API or the transport underneath it.
// The raw cause stays in the log-facing error chain; the Message is what we
// are willing to show a caller.
func Remote(operation string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %v", ErrRemote, operation, cause),
		Message: fmt.Sprintf("%s failed", operation),
	}
}

// RemoteStatus is Remote for the common case of an unexpected HTTP status.
func RemoteStatus(operation string, status int) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: unexpected status %d", ErrRemote, operation, status),
		Message: fmt.Sprintf("%s failed", operation),
	}
}
