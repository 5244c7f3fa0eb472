// Package quiz runs the quiz session lifecycle: starting a session from
// generated questions, grading a submission and completing the session
// together with its stats in one transaction.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/quizard/internal/quizgen"
	"github.com/abhisek/quizard/internal/stats"
	"github.com/abhisek/quizard/internal/store"
)

// Engine owns the STARTED → COMPLETED session state machine.
type Engine struct {
	store      *store.Store
	source     quizgen.Source
	analyzer   *stats.Analyzer
	aggregator stats.Aggregator
	observers  []Observer
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithObservers registers observers notified after each completion.
func WithObservers(obs ...Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, obs...) }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine.
func NewEngine(st *store.Store, source quizgen.Source, analyzer *stats.Analyzer, opts ...Option) *Engine {
	e := &Engine{
		store:    st,
		source:   source,
		analyzer: analyzer,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Start creates a STARTED session for userID with a freshly generated set
// of questions, weighted toward the user's weak subtopics.
func (e *Engine) Start(ctx context.Context, userID, topic string) (*StartResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &ValidationError{Field: "topic", Message: "must not be empty"}
	}
	if len(topic) > MaxTopicLength {
		return nil, &ValidationError{Field: "topic", Message: fmt.Sprintf("must be at most %d characters", MaxTopicLength)}
	}

	weak, err := e.analyzer.WeakSubtopics(ctx, userID)
	if err != nil {
		e.logger.Warn("weak subtopic analysis failed, generating unweighted quiz",
			"user_id", userID, "error", err)
		weak = nil
	}

	cands, err := e.source.Generate(ctx, quizgen.GenerateInput{Topic: topic, WeakSubtopics: weak})
	if err != nil {
		return nil, fmt.Errorf("generating questions: %w", err)
	}
	if len(cands) != quizgen.QuestionCount {
		return nil, fmt.Errorf("question source returned %d questions, want %d", len(cands), quizgen.QuestionCount)
	}

	snaps := make([]store.QuestionSnapshot, len(cands))
	for i, c := range cands {
		snaps[i] = store.QuestionSnapshot{
			Position:      i,
			QuestionText:  c.Text,
			Options:       c.Options,
			CorrectAnswer: c.CorrectAnswer,
			Subtopic:      c.Subtopic,
			Difficulty:    string(c.Difficulty),
			Explanation:   c.Explanation,
		}
	}

	sess := &store.QuizSession{UserID: userID, Topic: topic, StartedAt: e.now().UTC()}
	err = e.store.InTx(ctx, func(tx *store.Tx) error {
		return tx.Sessions().Create(ctx, sess, snaps)
	})
	if err != nil {
		return nil, fmt.Errorf("creating quiz session: %w", err)
	}

	e.logger.Info("quiz started",
		"session_id", sess.ID,
		"user_id", userID,
		"topic", topic,
		"weak_subtopics", weak)

	return &StartResult{
		SessionID:     sess.ID,
		Topic:         topic,
		Questions:     publicQuestions(snaps),
		WeakSubtopics: weak,
	}, nil
}

// Submit grades answers for a STARTED session owned by userID and
// completes it. Answers naming questions outside the session are dropped;
// when a question is answered more than once the first answer counts.
func (e *Engine) Submit(ctx context.Context, userID, sessionID string, answers []Answer) (*SubmitResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, &ValidationError{Field: "quizSessionId", Message: "is required"}
	}

	sess, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == store.SessionCompleted {
		return nil, ErrConflict
	}
	if sess.UserID != userID {
		return nil, ErrForbidden
	}

	snaps, err := e.store.Sessions().Snapshots(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}

	rows, graded, correct := grade(userID, sessionID, snaps, answers)
	score := correct * PointsPerQuestion
	completedAt := e.now().UTC()

	err = e.store.InTx(ctx, func(tx *store.Tx) error {
		ok, err := tx.Sessions().Complete(ctx, sessionID, score, completedAt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConflict
		}
		if err := tx.Sessions().InsertAnswers(ctx, rows); err != nil {
			return err
		}
		return e.aggregator.Apply(ctx, tx.Stats(), userID, graded, score)
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("completing quiz session: %w", err)
	}

	res := &SubmitResult{
		SessionID:      sessionID,
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: len(snaps),
	}

	e.logger.Info("quiz completed",
		"session_id", sessionID,
		"user_id", userID,
		"score", score,
		"correct", correct,
		"answered", len(rows))

	e.notify(ctx, Completion{
		SessionID:      sessionID,
		UserID:         userID,
		Topic:          sess.Topic,
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: len(snaps),
		Subtopics:      stats.Aggregate(graded),
		CompletedAt:    completedAt,
	})
	return res, nil
}

// Get returns a session for its owner. Correct answers, explanations and
// the owner's answers are included only once the session is completed.
func (e *Engine) Get(ctx context.Context, userID, sessionID string) (*SessionView, error) {
	sess, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrForbidden
	}

	snaps, err := e.store.Sessions().Snapshots(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}

	view := sessionView(sess)
	completed := sess.Status == store.SessionCompleted

	var bySnap map[string]store.UserAnswer
	if completed {
		ans, err := e.store.Sessions().Answers(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("loading answers: %w", err)
		}
		bySnap = make(map[string]store.UserAnswer, len(ans))
		for _, a := range ans {
			bySnap[a.QuestionSnapshotID] = a
		}
	}

	pub := publicQuestions(snaps)
	view.Questions = make([]ReviewedQuestion, len(snaps))
	for i, s := range snaps {
		rq := ReviewedQuestion{PublicQuestion: pub[i]}
		if completed {
			rq.CorrectAnswer = s.CorrectAnswer
			rq.Explanation = s.Explanation
			if a, ok := bySnap[s.ID]; ok {
				rq.Answered = true
				rq.SelectedAnswer = a.SelectedAnswer
				rq.IsCorrect = a.IsCorrect
			}
		}
		view.Questions[i] = rq
	}
	return &view, nil
}

// History lists the caller's sessions, newest first, without questions.
func (e *Engine) History(ctx context.Context, userID string, limit int) ([]SessionView, error) {
	sessions, err := e.store.Sessions().ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	out := make([]SessionView, len(sessions))
	for i := range sessions {
		out[i] = sessionView(&sessions[i])
	}
	return out, nil
}

func (e *Engine) loadSession(ctx context.Context, id string) (*store.QuizSession, error) {
	sess, err := e.store.Sessions().Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

func (e *Engine) notify(ctx context.Context, c Completion) {
	ctx = context.WithoutCancel(ctx)
	for _, o := range e.observers {
		if err := o.SessionCompleted(ctx, c); err != nil {
			e.logger.Warn("completion observer failed",
				"session_id", c.SessionID,
				"observer", fmt.Sprintf("%T", o),
				"error", err)
		}
	}
}

// grade resolves answers against the session's snapshots. Correctness is
// exact string equality with no normalization.
func grade(userID, sessionID string, snaps []store.QuestionSnapshot, answers []Answer) ([]store.UserAnswer, []stats.Graded, int) {
	byID := make(map[string]*store.QuestionSnapshot, len(snaps))
	for i := range snaps {
		byID[snaps[i].ID] = &snaps[i]
	}

	var (
		rows    []store.UserAnswer
		graded  []stats.Graded
		correct int
		seen    = make(map[string]bool, len(answers))
	)
	for _, a := range answers {
		snap, ok := byID[a.QuestionID]
		if !ok || seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true

		isCorrect := a.SelectedAnswer == snap.CorrectAnswer
		if isCorrect {
			correct++
		}
		rows = append(rows, store.UserAnswer{
			UserID:             userID,
			SessionID:          sessionID,
			QuestionSnapshotID: snap.ID,
			SelectedAnswer:     a.SelectedAnswer,
			IsCorrect:          isCorrect,
		})
		graded = append(graded, stats.Graded{Subtopic: snap.Subtopic, Correct: isCorrect})
	}
	return rows, graded, correct
}

func publicQuestions(snaps []store.QuestionSnapshot) []PublicQuestion {
	out := make([]PublicQuestion, len(snaps))
	for i, s := range snaps {
		out[i] = PublicQuestion{
			ID:         s.ID,
			Text:       s.QuestionText,
			Options:    append([]string(nil), s.Options...),
			Subtopic:   s.Subtopic,
			Difficulty: s.Difficulty,
		}
	}
	return out
}

func sessionView(s *store.QuizSession) SessionView {
	return SessionView{
		ID:          s.ID,
		Topic:       s.Topic,
		Status:      s.Status,
		Score:       s.Score,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
}
