// Package events publishes domain events about completed quiz sessions.
package events

import (
	"time"

	"github.com/abhisek/quizard/internal/quiz"
)

const (
	DefaultExchange = "quizard.events"

	RoutingKeySessionCompleted = "quiz.session.completed"
)

// SubtopicResult is the per-subtopic outcome inside a completion event.
type SubtopicResult struct {
	Subtopic string `json:"subtopic"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
}

// SessionCompleted is the payload published when a quiz session completes.
type SessionCompleted struct {
	SessionID      string           `json:"sessionId"`
	UserID         string           `json:"userId"`
	Topic          string           `json:"topic"`
	Score          int              `json:"score"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
	Subtopics      []SubtopicResult `json:"subtopics"`
	CompletedAt    time.Time        `json:"completedAt"`
}

// NewSessionCompleted builds the event payload for c.
func NewSessionCompleted(c quiz.Completion) SessionCompleted {
	subs := make([]SubtopicResult, len(c.Subtopics))
	for i, d := range c.Subtopics {
		subs[i] = SubtopicResult{Subtopic: d.Subtopic, Total: d.Total, Correct: d.Correct}
	}
	return SessionCompleted{
		SessionID:      c.SessionID,
		UserID:         c.UserID,
		Topic:          c.Topic,
		Score:          c.Score,
		CorrectCount:   c.CorrectCount,
		TotalQuestions: c.TotalQuestions,
		Subtopics:      subs,
		CompletedAt:    c.CompletedAt.UTC(),
	}
}
