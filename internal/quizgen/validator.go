package quizgen

import (
	"fmt"
	"strings"
)

// Validator checks a generated quiz. Implementations are stateless and
// safe for concurrent use.
type Validator interface {
	// Name is a short identifier used in errors and logs.
	Name() string

	Validate(qs []Candidate, input GenerateInput) *ValidationError
}

const (
	maxTextLen        = 500
	maxOptionLen      = 200
	maxExplanationLen = 1000
)

// StructuralValidator checks counts, required fields, lengths and enums.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []Candidate, _ GenerateInput) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	if len(qs) != QuestionCount {
		return fail("expected %d questions, got %d", QuestionCount, len(qs))
	}

	seen := make(map[string]bool, len(qs))
	for i, q := range qs {
		n := i + 1
		if strings.TrimSpace(q.Text) == "" {
			return fail("question %d: text is empty", n)
		}
		if len(q.Text) > maxTextLen {
			return fail("question %d: text exceeds %d characters", n, maxTextLen)
		}
		if seen[q.Text] {
			return fail("question %d: duplicate question text", n)
		}
		seen[q.Text] = true

		if len(q.Options) != OptionCount {
			return fail("question %d: expected %d options, got %d", n, OptionCount, len(q.Options))
		}
		opts := make(map[string]bool, OptionCount)
		for _, o := range q.Options {
			if strings.TrimSpace(o) == "" {
				return fail("question %d: empty option", n)
			}
			if len(o) > maxOptionLen {
				return fail("question %d: option exceeds %d characters", n, maxOptionLen)
			}
			if opts[o] {
				return fail("question %d: duplicate option %q", n, o)
			}
			opts[o] = true
		}

		if strings.TrimSpace(q.Subtopic) == "" {
			return fail("question %d: subtopic is empty", n)
		}
		if !q.Difficulty.Valid() {
			return fail("question %d: difficulty %q is not EASY, MEDIUM or HARD", n, q.Difficulty)
		}
		if len(q.Explanation) > maxExplanationLen {
			return fail("question %d: explanation exceeds %d characters", n, maxExplanationLen)
		}
	}
	return nil
}

// AnswerValidator checks that each correct answer is exactly one of the
// question's options. Grading is an exact comparison, so near matches
// would make a question unanswerable.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(qs []Candidate, _ GenerateInput) *ValidationError {
	for i, q := range qs {
		matches := 0
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				matches++
			}
		}
		if matches != 1 {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: correct answer %q does not match exactly one option", i+1, q.CorrectAnswer),
				Retryable: true,
			}
		}
	}
	return nil
}

// CoverageValidator checks that enough questions target the weak subtopics.
// A question counts when its subtopic label and a weak subtopic contain one
// another, ignoring case.
type CoverageValidator struct{}

func (v *CoverageValidator) Name() string { return "weak-coverage" }

func (v *CoverageValidator) Validate(qs []Candidate, input GenerateInput) *ValidationError {
	if len(input.WeakSubtopics) == 0 {
		return nil
	}

	covered := 0
	for _, q := range qs {
		if matchesAny(q.Subtopic, input.WeakSubtopics) {
			covered++
		}
	}
	if covered < MinWeakCoverage {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("only %d of %d questions target weak subtopics, need %d", covered, len(qs), MinWeakCoverage),
			Retryable: true,
		}
	}
	return nil
}

// matchesAny reports whether subtopic names one of the weak subtopics,
// ignoring case. A broader label such as "React" does not match the weak
// subtopic "React Hooks".
func matchesAny(subtopic string, weak []string) bool {
	s := strings.ToLower(strings.TrimSpace(subtopic))
	if s == "" {
		return false
	}
	for _, w := range weak {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
