package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// StatsRepo manages per-subtopic counters and the leaderboard.
type StatsRepo struct {
	db execQuerier
	b  *entsql.DialectBuilder
}

// IncrementSubtopic adds total and correct to the user's counters for a
// subtopic, creating the row on first use. The increment happens in the
// database so concurrent writers never lose an update.
func (r *StatsRepo) IncrementSubtopic(ctx context.Context, userID, subtopic string, total, correct int) error {
	query, args := r.b.Insert(UserSubtopicStatsTable.Name).
		Columns("user_id", "subtopic", "total", "correct", "updated_at").
		Values(userID, subtopic, total, correct, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id", "subtopic"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Add("total", total)
				u.Add("correct", correct)
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert subtopic stat: %w", err)
	}
	return nil
}

// AddLeaderboardScore adds score to the user's leaderboard total and counts
// one more completed quiz.
func (r *StatsRepo) AddLeaderboardScore(ctx context.Context, userID string, score int) error {
	query, args := r.b.Insert(LeaderboardEntriesTable.Name).
		Columns("user_id", "total_score", "quizzes_completed", "updated_at").
		Values(userID, score, 1, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Add("total_score", score)
				u.Add("quizzes_completed", 1)
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert leaderboard entry: %w", err)
	}
	return nil
}

// SubtopicStats returns all of a user's subtopic counters ordered by subtopic.
func (r *StatsRepo) SubtopicStats(ctx context.Context, userID string) ([]SubtopicStat, error) {
	query, args := r.b.Select("user_id", "subtopic", "total", "correct", "updated_at").
		From(r.b.Table(UserSubtopicStatsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("subtopic").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subtopic stats: %w", err)
	}
	defer rows.Close()

	var out []SubtopicStat
	for rows.Next() {
		var st SubtopicStat
		if err := rows.Scan(&st.UserID, &st.Subtopic, &st.Total, &st.Correct, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subtopic stat: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// TopScores returns the highest leaderboard totals, ties broken by user id.
func (r *StatsRepo) TopScores(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	sel, l := r.leaderboardSelector()
	sel.OrderBy(entsql.Desc(l.C("total_score")), l.C("user_id"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		e, err := scanLeaderboardEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// LeaderboardEntry returns one user's entry or ErrNotFound.
func (r *StatsRepo) LeaderboardEntry(ctx context.Context, userID string) (*LeaderboardEntry, error) {
	sel, l := r.leaderboardSelector()
	sel.Where(entsql.EQ(l.C("user_id"), userID))

	query, args := sel.Query()
	e, err := scanLeaderboardEntry(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// LeaderboardEntries returns the entries for the given users, in no
// particular order. Unknown ids are skipped.
func (r *StatsRepo) LeaderboardEntries(ctx context.Context, userIDs []string) ([]LeaderboardEntry, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	ids := make([]any, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id
	}

	sel, l := r.leaderboardSelector()
	sel.Where(entsql.In(l.C("user_id"), ids...))

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard entries: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		e, err := scanLeaderboardEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *StatsRepo) leaderboardSelector() (*entsql.Selector, *entsql.SelectTable) {
	l := r.b.Table(LeaderboardEntriesTable.Name)
	u := r.b.Table(UsersTable.Name)
	// Join aliases u, so its columns must be resolved afterwards.
	sel := r.b.Select().From(l).Join(u).On(l.C("user_id"), u.C("id"))
	sel.Select(l.C("user_id"), u.C("name"), l.C("total_score"), l.C("quizzes_completed"), l.C("updated_at"))
	return sel, l
}

func scanLeaderboardEntry(row rowScanner) (*LeaderboardEntry, error) {
	var e LeaderboardEntry
	if err := row.Scan(&e.UserID, &e.Name, &e.TotalScore, &e.QuizzesCompleted, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan leaderboard entry: %w", err)
	}
	return &e, nil
}
