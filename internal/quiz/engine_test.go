package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizard/internal/quizgen"
	"github.com/abhisek/quizard/internal/stats"
	"github.com/abhisek/quizard/internal/store"
)

type recordingSource struct {
	inner  quizgen.Source
	inputs []quizgen.GenerateInput
}

func (r *recordingSource) Generate(ctx context.Context, in quizgen.GenerateInput) ([]quizgen.Candidate, error) {
	r.inputs = append(r.inputs, in)
	return r.inner.Generate(ctx, in)
}

type recordingObserver struct {
	mu  sync.Mutex
	got []Completion
	err error
}

func (o *recordingObserver) SessionCompleted(_ context.Context, c Completion) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, c)
	return o.err
}

type fixture struct {
	store  *store.Store
	engine *Engine
	source *recordingSource
	obs    *recordingObserver
	alice  string
	bob    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open("sqlite", filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	alice := &store.User{Email: "alice@example.com", Name: "Alice"}
	bob := &store.User{Email: "bob@example.com", Name: "Bob"}
	require.NoError(t, st.Users().CreateUser(ctx, alice))
	require.NoError(t, st.Users().CreateUser(ctx, bob))

	src := &recordingSource{inner: quizgen.NewStaticSource()}
	obs := &recordingObserver{}
	eng := NewEngine(st, src, stats.NewAnalyzer(st.Stats(), 60, 3), WithObservers(obs))

	return &fixture{store: st, engine: eng, source: src, obs: obs, alice: alice.ID, bob: bob.ID}
}

// correctAnswers reads the hidden answers straight from the store.
func (f *fixture) correctAnswers(t *testing.T, sessionID string) []Answer {
	t.Helper()
	snaps, err := f.store.Sessions().Snapshots(context.Background(), sessionID)
	require.NoError(t, err)
	out := make([]Answer, len(snaps))
	for i, s := range snaps {
		out[i] = Answer{QuestionID: s.ID, SelectedAnswer: s.CorrectAnswer}
	}
	return out
}

func TestStart_GeneralKnowledge(t *testing.T) {
	f := newFixture(t)

	res, err := f.engine.Start(context.Background(), f.alice, "General Knowledge")
	require.NoError(t, err)
	require.Len(t, res.Questions, 10)
	assert.NotEmpty(t, res.SessionID)
	assert.Empty(t, res.WeakSubtopics)

	for _, q := range res.Questions {
		assert.Len(t, q.Options, 4)
		assert.NotEmpty(t, q.ID)
	}

	raw, err := json.Marshal(res.Questions)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctAnswer")
	assert.NotContains(t, string(raw), "explanation")

	sess, err := f.store.Sessions().Get(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, store.SessionStarted, sess.Status)
	assert.Nil(t, sess.Score)
}

func TestStart_InvalidTopic(t *testing.T) {
	f := newFixture(t)

	for _, topic := range []string{"", "   ", string(make([]byte, MaxTopicLength+1))} {
		_, err := f.engine.Start(context.Background(), f.alice, topic)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "topic", verr.Field)
	}
	assert.Empty(t, f.source.inputs)
}

func TestStart_PassesWeakSubtopics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Stats().IncrementSubtopic(ctx, f.alice, "React Hooks", 4, 1))
	require.NoError(t, f.store.Stats().IncrementSubtopic(ctx, f.alice, "JSX", 4, 4))

	res, err := f.engine.Start(ctx, f.alice, "React")
	require.NoError(t, err)
	assert.Equal(t, []string{"React Hooks"}, res.WeakSubtopics)
	require.Len(t, f.source.inputs, 1)
	assert.Equal(t, []string{"React Hooks"}, f.source.inputs[0].WeakSubtopics)
}

func TestSubmit_AllCorrect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "General Knowledge")
	require.NoError(t, err)

	res, err := f.engine.Submit(ctx, f.alice, started.SessionID, f.correctAnswers(t, started.SessionID))
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 10, res.CorrectCount)
	assert.Equal(t, 10, res.TotalQuestions)

	sess, err := f.store.Sessions().Get(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, store.SessionCompleted, sess.Status)
	require.NotNil(t, sess.Score)
	assert.Equal(t, 100, *sess.Score)
	assert.NotNil(t, sess.CompletedAt)

	entry, err := f.store.Stats().LeaderboardEntry(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 100, entry.TotalScore)

	rows, err := f.store.Stats().SubtopicStats(ctx, f.alice)
	require.NoError(t, err)
	total := 0
	for _, r := range rows {
		total += r.Total
		assert.Equal(t, r.Total, r.Correct)
	}
	assert.Equal(t, 10, total)

	require.Len(t, f.obs.got, 1)
	assert.Equal(t, 100, f.obs.got[0].Score)
	assert.Equal(t, "General Knowledge", f.obs.got[0].Topic)
}

func TestSubmit_PartialAndWrongAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "Go")
	require.NoError(t, err)

	answers := f.correctAnswers(t, started.SessionID)[:4]
	answers[0].SelectedAnswer = "definitely wrong"
	answers[1].SelectedAnswer += " " // no trimming

	res, err := f.engine.Submit(ctx, f.alice, started.SessionID, answers)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Score)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 10, res.TotalQuestions)

	stored, err := f.store.Sessions().Answers(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestSubmit_CaseSensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "General Knowledge")
	require.NoError(t, err)

	answers := f.correctAnswers(t, started.SessionID)[:1]
	answers[0].SelectedAnswer = "paris"
	res, err := f.engine.Submit(ctx, f.alice, started.SessionID, answers)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
}

func TestSubmit_UnknownAndDuplicateQuestionIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "General Knowledge")
	require.NoError(t, err)
	correct := f.correctAnswers(t, started.SessionID)

	answers := []Answer{
		correct[0],
		{QuestionID: "not-a-question", SelectedAnswer: "Paris"},
		{QuestionID: correct[1].QuestionID, SelectedAnswer: "wrong"},
		{QuestionID: correct[1].QuestionID, SelectedAnswer: correct[1].SelectedAnswer},
		correct[2],
	}

	res, err := f.engine.Submit(ctx, f.alice, started.SessionID, answers)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 20, res.Score)

	stored, err := f.store.Sessions().Answers(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestSubmit_EmptyAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "React")
	require.NoError(t, err)

	res, err := f.engine.Submit(ctx, f.alice, started.SessionID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 10, res.TotalQuestions)

	entry, err := f.store.Stats().LeaderboardEntry(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.TotalScore)
	assert.Equal(t, 1, entry.QuizzesCompleted)
}

func TestSubmit_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Submit(ctx, f.alice, "", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.engine.Submit(ctx, f.alice, "missing", nil)
	require.ErrorIs(t, err, ErrNotFound)

	started, err := f.engine.Start(ctx, f.alice, "General Knowledge")
	require.NoError(t, err)

	_, err = f.engine.Submit(ctx, f.bob, started.SessionID, nil)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.engine.Submit(ctx, f.alice, started.SessionID, f.correctAnswers(t, started.SessionID))
	require.NoError(t, err)

	// Completed sessions report Conflict before ownership is checked.
	_, err = f.engine.Submit(ctx, f.bob, started.SessionID, nil)
	require.ErrorIs(t, err, ErrConflict)
}

func TestSubmit_SecondSubmitConflictsWithoutMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "General Knowledge")
	require.NoError(t, err)
	answers := f.correctAnswers(t, started.SessionID)

	_, err = f.engine.Submit(ctx, f.alice, started.SessionID, answers[:5])
	require.NoError(t, err)

	_, err = f.engine.Submit(ctx, f.alice, started.SessionID, answers)
	require.ErrorIs(t, err, ErrConflict)

	sess, err := f.store.Sessions().Get(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 50, *sess.Score)

	entry, err := f.store.Stats().LeaderboardEntry(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 50, entry.TotalScore)
	assert.Equal(t, 1, entry.QuizzesCompleted)

	stored, err := f.store.Sessions().Answers(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
	assert.Len(t, f.obs.got, 1)
}

func TestSubmit_IdenticalAnswersIdenticalScores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var scores []int
	for range 2 {
		started, err := f.engine.Start(ctx, f.alice, "Web Development")
		require.NoError(t, err)
		answers := f.correctAnswers(t, started.SessionID)
		for i := range answers {
			if i%3 == 0 {
				answers[i].SelectedAnswer = "nope"
			}
		}
		res, err := f.engine.Submit(ctx, f.alice, started.SessionID, answers)
		require.NoError(t, err)
		scores = append(scores, res.Score)
	}
	assert.Equal(t, scores[0], scores[1])

	entry, err := f.store.Stats().LeaderboardEntry(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, scores[0]+scores[1], entry.TotalScore)
	assert.Equal(t, 2, entry.QuizzesCompleted)
}

func TestSubmit_ConcurrentSameSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "General Knowledge")
	require.NoError(t, err)
	answers := f.correctAnswers(t, started.SessionID)

	const n = 2
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.engine.Submit(ctx, f.alice, started.SessionID, answers)
		}()
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)

	entry, err := f.store.Stats().LeaderboardEntry(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, 100, entry.TotalScore)
	assert.Equal(t, 1, entry.QuizzesCompleted)
}

func TestSubmit_ObserverFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.obs.err = errors.New("redis down")
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "Go")
	require.NoError(t, err)
	_, err = f.engine.Submit(ctx, f.alice, started.SessionID, f.correctAnswers(t, started.SessionID))
	require.NoError(t, err)
	assert.Len(t, f.obs.got, 1)
}

func TestSubmit_LeaderboardFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "Go")
	require.NoError(t, err)
	answers := f.correctAnswers(t, started.SessionID)

	// The subtopic counters are written first; the leaderboard upsert is
	// the last statement in the transaction and now fails.
	_, err = f.store.DB().ExecContext(ctx, "DROP TABLE "+store.LeaderboardEntriesTable.Name)
	require.NoError(t, err)

	_, err = f.engine.Submit(ctx, f.alice, started.SessionID, answers)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)

	view, err := f.engine.Get(ctx, f.alice, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, store.SessionStarted, view.Status)
	assert.Nil(t, view.Score)

	stored, err := f.store.Sessions().Answers(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	subtopics, err := f.store.Stats().SubtopicStats(ctx, f.alice)
	require.NoError(t, err)
	assert.Empty(t, subtopics)
	assert.Empty(t, f.obs.got)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.engine.Start(ctx, f.alice, "React")
	require.NoError(t, err)

	view, err := f.engine.Get(ctx, f.alice, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, store.SessionStarted, view.Status)
	require.Len(t, view.Questions, 10)
	for _, q := range view.Questions {
		assert.Empty(t, q.CorrectAnswer)
		assert.Empty(t, q.Explanation)
	}

	_, err = f.engine.Get(ctx, f.bob, started.SessionID)
	require.ErrorIs(t, err, ErrForbidden)

	answers := f.correctAnswers(t, started.SessionID)[:3]
	_, err = f.engine.Submit(ctx, f.alice, started.SessionID, answers)
	require.NoError(t, err)

	view, err = f.engine.Get(ctx, f.alice, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, store.SessionCompleted, view.Status)
	assert.Equal(t, 30, *view.Score)
	assert.NotEmpty(t, view.Questions[0].CorrectAnswer)
	assert.True(t, view.Questions[0].Answered)
	assert.True(t, view.Questions[0].IsCorrect)
	assert.False(t, view.Questions[9].Answered)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, topic := range []string{"Go", "React"} {
		_, err := f.engine.Start(ctx, f.alice, topic)
		require.NoError(t, err)
	}
	_, err := f.engine.Start(ctx, f.bob, "Go")
	require.NoError(t, err)

	hist, err := f.engine.History(ctx, f.alice, 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	for _, h := range hist {
		assert.Empty(t, h.Questions)
	}

	hist, err = f.engine.History(ctx, f.alice, 1)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}
