package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

const quizReply = `{"questions":[{"questionText":"Which hook runs after render?","options":["useEffect","useMemo","useRef","useId"],` +
	`"correctAnswer":"useEffect","explanation":"Effects run after commit.","subtopic":"Hooks","difficulty":"EASY"}]}`

func quizRequest() Request {
	return Request{
		System:   "You write multiple choice quizzes.",
		Messages: []Message{{Role: RoleUser, Content: "Topic: React\nWeak subtopics: Hooks"}},
		Schema:   testSchema(),
	}
}

// retrying wraps mock and records the waits instead of sleeping.
func retrying(mock *MockProvider, cfg RetryConfig) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	p := WithRetry(mock, cfg).(*RetryProvider)
	p.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return p, &waits
}

func quizRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}
}

var (
	errDown    = &ErrProviderUnavailable{Err: errors.New("502 bad gateway")}
	errGarbled = &ErrInvalidResponse{Content: json.RawMessage(`{"questions":`), Err: errors.New("unexpected EOF")}
)

func TestRetry_QuizGeneration(t *testing.T) {
	tests := []struct {
		name      string
		script    []MockResponse
		wantCalls int
		wantErr   any
	}{
		{
			name:      "first reply is used",
			script:    []MockResponse{{Content: json.RawMessage(quizReply)}},
			wantCalls: 1,
		},
		{
			name:      "outage then quiz",
			script:    []MockResponse{{Err: errDown}, {Content: json.RawMessage(quizReply)}},
			wantCalls: 2,
		},
		{
			name:      "outage on every attempt",
			script:    []MockResponse{{Err: errDown}, {Err: errDown}, {Err: errDown}, {Content: json.RawMessage(quizReply)}},
			wantCalls: 3,
			wantErr:   new(*ErrProviderUnavailable),
		},
		{
			name:      "garbled quiz gets one more try",
			script:    []MockResponse{{Err: errGarbled}, {Content: json.RawMessage(quizReply)}},
			wantCalls: 2,
		},
		{
			name:      "garbled twice stops",
			script:    []MockResponse{{Err: errGarbled}, {Err: errGarbled}, {Content: json.RawMessage(quizReply)}},
			wantCalls: 2,
			wantErr:   new(*ErrInvalidResponse),
		},
		{
			name:      "garbled after outage still gets its retry",
			script:    []MockResponse{{Err: errDown}, {Err: errGarbled}, {Content: json.RawMessage(quizReply)}},
			wantCalls: 3,
		},
		{
			name:      "truncated quiz is final",
			script:    []MockResponse{{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"questions":[`)}}, {Content: json.RawMessage(quizReply)}},
			wantCalls: 1,
			wantErr:   new(*ErrMaxTokensExceeded),
		},
		{
			name:      "deadline is final",
			script:    []MockResponse{{Err: context.DeadlineExceeded}, {Content: json.RawMessage(quizReply)}},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			p, waits := retrying(mock, quizRetryConfig())

			ctx := WithPurpose(context.Background(), PurposeQuizGen)
			resp, err := p.Generate(ctx, quizRequest())

			if got := mock.CallCount(); got != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, got)
			}
			if len(*waits) != tt.wantCalls-1 {
				t.Fatalf("expected %d waits, got %v", tt.wantCalls-1, *waits)
			}
			for _, purpose := range mock.Purposes() {
				if purpose != PurposeQuizGen {
					t.Fatalf("retry lost the purpose label: %q", purpose)
				}
			}

			wantSuccess := tt.script[tt.wantCalls-1].Err == nil
			if wantSuccess {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != quizReply {
					t.Fatalf("unexpected quiz: %s", resp.Content)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.As(err, tt.wantErr) {
				t.Fatalf("expected %T, got %T (%v)", tt.wantErr, err, err)
			}
		})
	}
}

func TestRetry_BackoffGrowsAndCaps(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}
	mock := NewMockProvider(MockResponse{Err: errDown}, MockResponse{Err: errDown}, MockResponse{Err: errDown}, MockResponse{Err: errDown})
	p, waits := retrying(mock, cfg)

	if _, err := p.Generate(context.Background(), quizRequest()); err == nil {
		t.Fatal("expected error once the script runs out")
	}

	base := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}
	if len(*waits) != len(base) {
		t.Fatalf("expected %d waits, got %v", len(base), *waits)
	}
	for i, w := range *waits {
		lo, hi := base[i]*8/10, base[i]*12/10
		if w < lo || w > hi {
			t.Errorf("wait %d = %s, want within [%s, %s]", i, w, lo, hi)
		}
	}
}

func TestRetry_RateLimitHint(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 250 * time.Millisecond, Err: errors.New("429")}},
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Minute, Err: errors.New("429")}},
		MockResponse{Content: json.RawMessage(quizReply)},
	)
	p, waits := retrying(mock, quizRetryConfig())

	if _, err := p.Generate(context.Background(), quizRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []time.Duration{250 * time.Millisecond, time.Second}
	if len(*waits) != 2 || (*waits)[0] != want[0] || (*waits)[1] != want[1] {
		t.Fatalf("expected waits %v (hint, then hint capped at MaxWait), got %v", want, *waits)
	}
}

func TestRetry_CancelDuringWait(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: errDown}, MockResponse{Content: json.RawMessage(quizReply)})
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, quizRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected the second attempt to be skipped, got %d calls", mock.CallCount())
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(quizReply)})
	p := WithRetry(mock, RetryConfig{})

	if _, err := p.Generate(context.Background(), quizRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "mock" || p.ModelID() != "mock" {
		t.Fatalf("identity not delegated: %q/%q", p.Name(), p.ModelID())
	}
}
