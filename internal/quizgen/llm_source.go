package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/quizard/internal/llm"
)

// LLMSource implements Source using an LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   Config
}

// NewLLMSource creates an LLMSource with the given provider and config.
func NewLLMSource(provider llm.Provider, cfg Config) *LLMSource {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMSource{provider: provider, config: cfg}
}

// quizOutput is the raw LLM response before validation.
type quizOutput struct {
	Questions []struct {
		QuestionText  string   `json:"questionText"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
		Explanation   string   `json:"explanation"`
		Subtopic      string   `json:"subtopic"`
		Difficulty    string   `json:"difficulty"`
	} `json:"questions"`
}

// Generate asks the provider for a quiz and runs the validator chain. Any
// failure is reported as a *GenerationError.
func (s *LLMSource) Generate(ctx context.Context, input GenerateInput) ([]Candidate, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := range s.config.MaxAttempts {
		qs, err := s.generateOnce(llm.WithAttempt(ctx, attempt+1), input)
		if err == nil {
			return qs, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			break
		}
	}
	return nil, &GenerationError{Source: s.provider.Name(), Err: lastErr}
}

func (s *LLMSource) generateOnce(ctx context.Context, input GenerateInput) ([]Candidate, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		Schema:      QuizSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	qs := make([]Candidate, 0, len(raw.Questions))
	for _, r := range raw.Questions {
		qs = append(qs, Candidate{
			Text:          r.QuestionText,
			Options:       r.Options,
			CorrectAnswer: r.CorrectAnswer,
			Explanation:   r.Explanation,
			Subtopic:      r.Subtopic,
			Difficulty:    Difficulty(r.Difficulty),
		})
	}

	for _, v := range s.config.Validators {
		if verr := v.Validate(qs, input); verr != nil {
			return nil, verr
		}
	}
	return qs, nil
}
