package quizgen

import "fmt"

// GenerationError reports that a source could not produce a valid quiz.
type GenerationError struct {
	Source string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("quiz generation via %s failed: %v", e.Source, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError describes why a generated quiz failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string
	Retryable bool // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
