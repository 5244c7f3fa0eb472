package llm

import (
	"context"
	"fmt"
	"slices"
)

// Purpose labels why an LLM call was made. It is recorded on every request
// event and is the key for `quizard llm list --purpose` and `llm stats`.
type Purpose string

const (
	// PurposeQuizGen marks a request for a ten question quiz.
	PurposeQuizGen Purpose = "quiz-gen"
	// PurposeUnknown is reported for calls made without a label.
	PurposeUnknown Purpose = "unknown"
)

// Purposes lists the labels quizard records.
var Purposes = []Purpose{PurposeQuizGen}

// ParsePurpose accepts a known label. The empty string means "any".
func ParsePurpose(s string) (Purpose, error) {
	if s == "" {
		return "", nil
	}
	if p := Purpose(s); p == PurposeUnknown || slices.Contains(Purposes, p) {
		return p, nil
	}
	return "", fmt.Errorf("unknown llm purpose %q (known: %v)", s, Purposes)
}

type callInfo struct {
	purpose Purpose
	attempt int
}

type callKey struct{}

func callFrom(ctx context.Context) callInfo {
	if ci, ok := ctx.Value(callKey{}).(callInfo); ok {
		return ci
	}
	return callInfo{purpose: PurposeUnknown, attempt: 1}
}

// WithPurpose labels the calls made with ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	ci := callFrom(ctx)
	ci.purpose = p
	return context.WithValue(ctx, callKey{}, ci)
}

// WithAttempt records which generation attempt (1-based) ctx belongs to.
// Provider level retries happen below this and share the number.
func WithAttempt(ctx context.Context, n int) context.Context {
	ci := callFrom(ctx)
	ci.attempt = max(n, 1)
	return context.WithValue(ctx, callKey{}, ci)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose { return callFrom(ctx).purpose }

// AttemptFrom returns the generation attempt, 1 when unset.
func AttemptFrom(ctx context.Context) int { return callFrom(ctx).attempt }
