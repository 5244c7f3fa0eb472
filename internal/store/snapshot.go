package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *SessionRepo) insertSnapshots(ctx context.Context, questions []QuestionSnapshot) error {
	if len(questions) == 0 {
		return nil
	}

	ins := r.b.Insert(QuestionSnapshotsTable.Name).
		Columns("id", "position", "question_text", "options", "correct_answer", "subtopic", "difficulty", "explanation", "session_id")
	for _, q := range questions {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		ins.Values(q.ID, q.Position, q.QuestionText, string(opts), q.CorrectAnswer, q.Subtopic, q.Difficulty, q.Explanation, q.SessionID)
	}

	query, args := ins.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert question snapshots: %w", err)
	}
	return nil
}

// Snapshots returns a session's questions in the order they were served.
func (r *SessionRepo) Snapshots(ctx context.Context, sessionID string) ([]QuestionSnapshot, error) {
	query, args := r.b.Select("id", "session_id", "position", "question_text", "options", "correct_answer", "subtopic", "difficulty", "explanation").
		From(r.b.Table(QuestionSnapshotsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("position").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query question snapshots: %w", err)
	}
	defer rows.Close()

	var out []QuestionSnapshot
	for rows.Next() {
		var (
			q    QuestionSnapshot
			opts []byte
		)
		if err := rows.Scan(&q.ID, &q.SessionID, &q.Position, &q.QuestionText, &opts, &q.CorrectAnswer, &q.Subtopic, &q.Difficulty, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan question snapshot: %w", err)
		}
		if err := json.Unmarshal(opts, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
