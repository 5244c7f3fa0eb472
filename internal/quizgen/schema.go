package quizgen

import "github.com/abhisek/quizard/internal/llm"

// QuizSchema is the structured output contract for quiz generation. The
// root is an object because several providers reject top-level arrays.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "Exactly ten multiple choice questions on one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": QuestionCount,
				"maxItems": QuestionCount,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"questionText": map[string]any{
							"type":        "string",
							"minLength":   1,
							"description": "The question shown to the player",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    OptionCount,
							"maxItems":    OptionCount,
							"description": "Exactly four answer options",
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "Exact copy of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Brief explanation of why the answer is correct",
						},
						"subtopic": map[string]any{
							"type":        "string",
							"minLength":   1,
							"description": "Specific sub-field within the topic",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"EASY", "MEDIUM", "HARD"},
						},
					},
					"required": []any{"questionText", "options", "correctAnswer", "explanation", "subtopic", "difficulty"},
				},
			},
		},
		"required": []any{"questions"},
	},
}
