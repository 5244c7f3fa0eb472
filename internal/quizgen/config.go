package quizgen

import "time"

// Config controls the behavior of the LLMSource.
type Config struct {
	// Validators run in order on every generated quiz; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxAttempts bounds regeneration after a retryable validation failure.
	MaxAttempts int

	// Timeout bounds one Generate call, attempts included. Zero means no
	// bound beyond the caller's context.
	Timeout time.Duration

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&AnswerValidator{},
			&CoverageValidator{},
		},
		MaxAttempts: 2,
		Timeout:     45 * time.Second,
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}
