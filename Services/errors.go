package Services

import (
	"errors"
)

// ErrTaskNotFound is returned when a task does not exist or belongs to
// another user. Callers cannot tell the two cases apart.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError reports missing or malformed input to a service call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
