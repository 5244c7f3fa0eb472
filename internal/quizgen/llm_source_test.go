package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/quizard/internal/llm"
)

func quizJSON(t *testing.T, qs []Candidate) json.RawMessage {
	t.Helper()
	type item struct {
		QuestionText  string   `json:"questionText"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
		Explanation   string   `json:"explanation"`
		Subtopic      string   `json:"subtopic"`
		Difficulty    string   `json:"difficulty"`
	}
	out := struct {
		Questions []item `json:"questions"`
	}{}
	for _, q := range qs {
		out.Questions = append(out.Questions, item{q.Text, q.Options, q.CorrectAnswer, q.Explanation, q.Subtopic, string(q.Difficulty)})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestLLMSource_Generate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, validQuiz())})
	src := NewLLMSource(mock, DefaultConfig())

	qs, err := src.Generate(context.Background(), GenerateInput{Topic: "General Knowledge"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != QuestionCount {
		t.Fatalf("expected %d questions, got %d", QuestionCount, len(qs))
	}
	if qs[0].CorrectAnswer != "B" || qs[0].Difficulty != DifficultyMedium {
		t.Fatalf("unexpected first question: %+v", qs[0])
	}

	call := mock.Calls[0]
	if call.Schema != QuizSchema {
		t.Fatal("expected quiz schema on request")
	}
	if !strings.Contains(call.Messages[0].Content, "Topic: General Knowledge") {
		t.Fatalf("prompt missing topic: %q", call.Messages[0].Content)
	}
	if got := mock.Purposes(); len(got) != 1 || got[0] != llm.PurposeQuizGen {
		t.Fatalf("expected the request to be labelled %q, got %v", llm.PurposeQuizGen, got)
	}
}

func TestLLMSource_WeakSubtopicsInPrompt(t *testing.T) {
	qs := validQuiz("React Hooks", "React Hooks", "React Hooks", "React Hooks", "React Hooks")
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, qs)})
	src := NewLLMSource(mock, DefaultConfig())

	_, err := src.Generate(context.Background(), GenerateInput{Topic: "React", WeakSubtopics: []string{"React Hooks"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "React Hooks") || !strings.Contains(prompt, "at least 5 of the 10") {
		t.Fatalf("prompt does not demand weak coverage: %q", prompt)
	}
}

func TestLLMSource_RetriesValidationFailure(t *testing.T) {
	short := validQuiz()[:9]
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: quizJSON(t, short)},
		llm.MockResponse{Content: quizJSON(t, validQuiz())},
	)
	src := NewLLMSource(mock, DefaultConfig())

	if _, err := src.Generate(context.Background(), GenerateInput{Topic: "Go"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestLLMSource_GenerationErrors(t *testing.T) {
	insufficient := validQuiz("React Hooks", "React Hooks")
	tests := []struct {
		name      string
		responses []llm.MockResponse
		input     GenerateInput
		wantCalls int
	}{
		{
			name:      "provider unavailable",
			responses: []llm.MockResponse{{Err: &llm.ErrProviderUnavailable{}}},
			input:     GenerateInput{Topic: "Go"},
			wantCalls: 1,
		},
		{
			name:      "malformed json",
			responses: []llm.MockResponse{{Content: json.RawMessage(`{not json`)}},
			input:     GenerateInput{Topic: "Go"},
			wantCalls: 1,
		},
		{
			name: "insufficient weak coverage twice",
			responses: []llm.MockResponse{
				{Content: quizJSON(t, insufficient)},
				{Content: quizJSON(t, insufficient)},
			},
			input:     GenerateInput{Topic: "React", WeakSubtopics: []string{"React Hooks"}},
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(tt.responses...)
			src := NewLLMSource(mock, DefaultConfig())

			_, err := src.Generate(context.Background(), tt.input)
			var gerr *GenerationError
			if !errors.As(err, &gerr) {
				t.Fatalf("expected GenerationError, got: %T (%v)", err, err)
			}
			if gerr.Source != "mock" {
				t.Fatalf("expected source mock, got %q", gerr.Source)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, mock.CallCount())
			}
		})
	}
}
