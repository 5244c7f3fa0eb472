package quizgen

import (
	"fmt"
	"strings"
	"testing"
)

func validQuiz(subtopics ...string) []Candidate {
	qs := make([]Candidate, QuestionCount)
	for i := range qs {
		sub := "Basics"
		if i < len(subtopics) {
			sub = subtopics[i]
		}
		qs[i] = Candidate{
			Text:          fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "B",
			Explanation:   "Because B.",
			Subtopic:      sub,
			Difficulty:    DifficultyMedium,
		}
	}
	return qs
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestStructuralValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Candidate) []Candidate
		wantErr string
	}{
		{"valid", func(qs []Candidate) []Candidate { return qs }, ""},
		{"nine questions", func(qs []Candidate) []Candidate { return qs[:9] }, "expected 10 questions"},
		{"eleven questions", func(qs []Candidate) []Candidate { return append(qs, qs[0]) }, "expected 10 questions"},
		{"empty text", func(qs []Candidate) []Candidate { qs[2].Text = "  "; return qs }, "text is empty"},
		{"long text", func(qs []Candidate) []Candidate { qs[0].Text = strings.Repeat("x", 501); return qs }, "exceeds 500"},
		{"duplicate text", func(qs []Candidate) []Candidate { qs[1].Text = qs[0].Text; return qs }, "duplicate question"},
		{"three options", func(qs []Candidate) []Candidate { qs[0].Options = []string{"A", "B", "C"}; return qs }, "expected 4 options"},
		{"duplicate option", func(qs []Candidate) []Candidate { qs[0].Options = []string{"A", "A", "C", "D"}; return qs }, "duplicate option"},
		{"blank option", func(qs []Candidate) []Candidate { qs[0].Options = []string{"A", "", "C", "D"}; return qs }, "empty option"},
		{"no subtopic", func(qs []Candidate) []Candidate { qs[4].Subtopic = ""; return qs }, "subtopic is empty"},
		{"bad difficulty", func(qs []Candidate) []Candidate { qs[0].Difficulty = "easy"; return qs }, "difficulty"},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := v.Validate(tt.mutate(validQuiz()), GenerateInput{})
			if tt.wantErr == "" {
				if verr != nil {
					t.Fatalf("expected no error, got: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(verr.Message, tt.wantErr) {
				t.Fatalf("expected %q in %q", tt.wantErr, verr.Message)
			}
			if !verr.Retryable {
				t.Fatal("structural failures should be retryable")
			}
		})
	}
}

func TestAnswerValidator(t *testing.T) {
	v := &AnswerValidator{}

	if verr := v.Validate(validQuiz(), GenerateInput{}); verr != nil {
		t.Fatalf("expected no error, got: %v", verr)
	}

	qs := validQuiz()
	qs[3].CorrectAnswer = "b"
	if verr := v.Validate(qs, GenerateInput{}); verr == nil {
		t.Fatal("expected case mismatch to fail")
	}

	qs = validQuiz()
	qs[3].CorrectAnswer = "B "
	if verr := v.Validate(qs, GenerateInput{}); verr == nil {
		t.Fatal("expected whitespace mismatch to fail")
	}
}

func TestCoverageValidator(t *testing.T) {
	v := &CoverageValidator{}
	weak := GenerateInput{Topic: "React", WeakSubtopics: []string{"React Hooks"}}

	tests := []struct {
		name      string
		subtopics []string
		input     GenerateInput
		wantErr   bool
	}{
		{"no weak subtopics", nil, GenerateInput{Topic: "React"}, false},
		{"five exact", []string{"React Hooks", "React Hooks", "React Hooks", "React Hooks", "React Hooks"}, weak, false},
		{"four exact", []string{"React Hooks", "React Hooks", "React Hooks", "React Hooks"}, weak, true},
		{"case and containment", []string{"react hooks", "React Hooks (useState)", "REACT HOOKS: useEffect", "React Hooks", "custom react hooks"}, weak, false},
		{"partial label", []string{"Hooks", "hooks", "Hooks", "hooks", "Hooks"}, weak, true},
		{"parent label", repeat("React", QuestionCount), weak, true},
		{"parent label go", repeat("Go", QuestionCount), GenerateInput{Topic: "Go", WeakSubtopics: []string{"Goroutines"}}, true},
		{"unrelated", []string{"JSX", "Props", "State", "Context", "Refs"}, weak, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := v.Validate(validQuiz(tt.subtopics...), tt.input)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", verr, tt.wantErr)
			}
		})
	}
}
