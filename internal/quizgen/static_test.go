package quizgen

import (
	"context"
	"testing"
)

func TestStaticSource_EverySetIsValid(t *testing.T) {
	s := NewStaticSource()
	validators := []Validator{&StructuralValidator{}, &AnswerValidator{}}

	for _, topic := range s.Topics() {
		t.Run(topic, func(t *testing.T) {
			qs, err := s.Generate(context.Background(), GenerateInput{Topic: topic})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, v := range validators {
				if verr := v.Validate(qs, GenerateInput{Topic: topic}); verr != nil {
					t.Fatalf("static set failed %s: %v", v.Name(), verr)
				}
			}
		})
	}
}

func TestStaticSource_TopicResolution(t *testing.T) {
	s := NewStaticSource()
	tests := []struct {
		topic     string
		wantFirst string
	}{
		{"General Knowledge", generalKnowledge[0].Text},
		{"  react ", react[0].Text},
		{"golang", golang[0].Text},
		{"Web Dev", webDevelopment[0].Text},
		{"Medieval Basket Weaving", generalKnowledge[0].Text},
		{"", generalKnowledge[0].Text},
	}
	for _, tt := range tests {
		qs, _ := s.Generate(context.Background(), GenerateInput{Topic: tt.topic})
		if qs[0].Text != tt.wantFirst {
			t.Errorf("topic %q: first question %q, want %q", tt.topic, qs[0].Text, tt.wantFirst)
		}
	}
}

func TestStaticSource_ReturnsCopies(t *testing.T) {
	s := NewStaticSource()
	first, _ := s.Generate(context.Background(), GenerateInput{Topic: "Go"})
	first[0].Options[0] = "mutated"
	first[0].Text = "mutated"

	second, _ := s.Generate(context.Background(), GenerateInput{Topic: "Go"})
	if second[0].Options[0] == "mutated" || second[0].Text == "mutated" {
		t.Fatal("static bank was mutated through a returned slice")
	}
}
