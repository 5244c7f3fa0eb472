package quiz

import (
	"context"
	"time"

	"github.com/abhisek/quizard/internal/stats"
)

// PointsPerQuestion is the score of every correct answer.
const PointsPerQuestion = 10

// MaxTopicLength bounds the topic a caller may request.
const MaxTopicLength = 100

// PublicQuestion is a question as the player sees it before submitting.
// It never carries the correct answer or the explanation.
type PublicQuestion struct {
	ID         string   `json:"id"`
	Text       string   `json:"questionText"`
	Options    []string `json:"options"`
	Subtopic   string   `json:"subtopic"`
	Difficulty string   `json:"difficulty"`
}

// StartResult is returned by Engine.Start.
type StartResult struct {
	SessionID     string
	Topic         string
	Questions     []PublicQuestion
	WeakSubtopics []string
}

// Answer is one submitted answer.
type Answer struct {
	QuestionID     string
	SelectedAnswer string
}

// SubmitResult is returned by Engine.Submit.
type SubmitResult struct {
	SessionID      string
	Score          int
	CorrectCount   int
	TotalQuestions int
}

// ReviewedQuestion is a question of a session viewed by its owner. The
// answer fields are filled only once the session is completed.
type ReviewedQuestion struct {
	PublicQuestion
	CorrectAnswer  string `json:"correctAnswer,omitempty"`
	Explanation    string `json:"explanation,omitempty"`
	SelectedAnswer string `json:"selectedAnswer,omitempty"`
	Answered       bool   `json:"answered"`
	IsCorrect      bool   `json:"isCorrect"`
}

// SessionView is a session as returned to its owner.
type SessionView struct {
	ID          string             `json:"id"`
	Topic       string             `json:"topic"`
	Status      string             `json:"status"`
	Score       *int               `json:"score"`
	StartedAt   time.Time          `json:"startedAt"`
	CompletedAt *time.Time         `json:"completedAt"`
	Questions   []ReviewedQuestion `json:"questions,omitempty"`
}

// Completion describes a session that has just been committed as
// completed.
type Completion struct {
	SessionID      string
	UserID         string
	Topic          string
	Score          int
	CorrectCount   int
	TotalQuestions int
	Subtopics      []stats.SubtopicDelta
	CompletedAt    time.Time
}

// Observer is notified after a completion commits. Failures are logged by
// the engine and never undo the completion.
type Observer interface {
	SessionCompleted(ctx context.Context, c Completion) error
}
