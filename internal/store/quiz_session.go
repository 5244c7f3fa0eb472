package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var quizSessionColumns = []string{"id", "user_id", "topic", "status", "score", "started_at", "completed_at"}

// SessionRepo manages quiz sessions, their question snapshots and answers.
type SessionRepo struct {
	db execQuerier
	b  *entsql.DialectBuilder
}

// Create inserts a STARTED session together with its question snapshots.
// Call it inside a transaction so a session never exists without its questions.
func (r *SessionRepo) Create(ctx context.Context, sess *QuizSession, questions []QuestionSnapshot) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now().UTC()
	}
	sess.Status = SessionStarted

	query, args := r.b.Insert(QuizSessionsTable.Name).
		Columns("id", "user_id", "topic", "status", "started_at").
		Values(sess.ID, sess.UserID, sess.Topic, sess.Status, sess.StartedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert quiz session: %w", err)
	}

	for i := range questions {
		questions[i].SessionID = sess.ID
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}
	return r.insertSnapshots(ctx, questions)
}

// Get returns the session with the given id or ErrNotFound.
func (r *SessionRepo) Get(ctx context.Context, id string) (*QuizSession, error) {
	query, args := r.b.Select(quizSessionColumns...).
		From(r.b.Table(QuizSessionsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	sess, err := scanQuizSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sess, err
}

// ListByUser returns a user's sessions, newest first.
func (r *SessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]QuizSession, error) {
	t := r.b.Table(QuizSessionsTable.Name)
	sel := r.b.Select(quizSessionColumns...).
		From(t).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc(t.C("started_at")))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz sessions: %w", err)
	}
	defer rows.Close()

	var out []QuizSession
	for rows.Next() {
		sess, err := scanQuizSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, rows.Err()
}

// Complete moves a STARTED session to COMPLETED with the given score. The
// status check is part of the UPDATE, so it reports false when another
// writer completed the session first.
func (r *SessionRepo) Complete(ctx context.Context, id string, score int, at time.Time) (bool, error) {
	query, args := r.b.Update(QuizSessionsTable.Name).
		Set("status", SessionCompleted).
		Set("score", score).
		Set("completed_at", at.UTC()).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("status", SessionStarted),
		)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("complete quiz session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// InsertAnswers stores graded answers. A second answer for the same
// (user, question) pair violates a unique index and fails the insert.
func (r *SessionRepo) InsertAnswers(ctx context.Context, answers []UserAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	ins := r.b.Insert(UserAnswersTable.Name).
		Columns("id", "selected_answer", "is_correct", "created_at", "user_id", "session_id", "question_snapshot_id")
	now := time.Now().UTC()
	for i := range answers {
		a := &answers[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		ins.Values(a.ID, a.SelectedAnswer, a.IsCorrect, a.CreatedAt, a.UserID, a.SessionID, a.QuestionSnapshotID)
	}

	query, args := ins.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert answers: %w", err)
	}
	return nil
}

// Answers returns the answers recorded for a session.
func (r *SessionRepo) Answers(ctx context.Context, sessionID string) ([]UserAnswer, error) {
	query, args := r.b.Select("id", "user_id", "session_id", "question_snapshot_id", "selected_answer", "is_correct", "created_at").
		From(r.b.Table(UserAnswersTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []UserAnswer
	for rows.Next() {
		var a UserAnswer
		if err := rows.Scan(&a.ID, &a.UserID, &a.SessionID, &a.QuestionSnapshotID, &a.SelectedAnswer, &a.IsCorrect, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PurgeStarted deletes sessions still STARTED that began before cutoff.
// Their snapshots go with them through the cascading foreign key.
func (r *SessionRepo) PurgeStarted(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args := r.b.Delete(QuizSessionsTable.Name).
		Where(entsql.And(
			entsql.EQ("status", SessionStarted),
			entsql.LT("started_at", cutoff.UTC()),
		)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge started sessions: %w", err)
	}
	return res.RowsAffected()
}

func scanQuizSession(row rowScanner) (*QuizSession, error) {
	var (
		sess        QuizSession
		score       sql.NullInt64
		completedAt sql.NullTime
	)
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Topic, &sess.Status, &score, &sess.StartedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan quiz session: %w", err)
	}
	if score.Valid {
		s := int(score.Int64)
		sess.Score = &s
	}
	if completedAt.Valid {
		t := completedAt.Time
		sess.CompletedAt = &t
	}
	return &sess, nil
}
