package quizgen

import "context"

const (
	// QuestionCount is the number of questions in every quiz.
	QuestionCount = 10

	// OptionCount is the number of options per question.
	OptionCount = 4

	// MinWeakCoverage is how many questions must target weak subtopics when
	// any are given.
	MinWeakCoverage = 5
)

// Difficulty is the self-assessed difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Candidate is a generated question before it is snapshotted into a session.
type Candidate struct {
	Text          string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Subtopic      string
	Difficulty    Difficulty
}

// GenerateInput holds what a Source needs to build a quiz.
type GenerateInput struct {
	Topic string

	// WeakSubtopics, when non-empty, must be targeted by at least
	// MinWeakCoverage of the generated questions.
	WeakSubtopics []string
}

// Source produces a full quiz worth of candidates for a topic.
type Source interface {
	Generate(ctx context.Context, input GenerateInput) ([]Candidate, error)
}
