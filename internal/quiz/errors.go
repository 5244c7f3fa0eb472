package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("quiz session not found")
	ErrConflict  = errors.New("quiz session already completed")
	ErrForbidden = errors.New("quiz session belongs to another user")
)

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
