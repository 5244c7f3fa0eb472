package store

import (
	"context"
	"time"
)

// Quiz session status values as persisted.
const (
	SessionStarted   = "STARTED"
	SessionCompleted = "COMPLETED"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match when set
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// User is a registered account.
type User struct {
	ID            string
	Email         string
	Name          string
	EmailVerified bool
	CreatedAt     time.Time
}

// AuthSession is an opaque bearer token issued to a user.
type AuthSession struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// QuizSession is one attempt at a ten-question quiz.
// Score and CompletedAt are set only once Status is COMPLETED.
type QuizSession struct {
	ID          string
	UserID      string
	Topic       string
	Status      string
	Score       *int
	StartedAt   time.Time
	CompletedAt *time.Time
}

// QuestionSnapshot is an immutable copy of a question as served in a session.
type QuestionSnapshot struct {
	ID            string
	SessionID     string
	Position      int
	QuestionText  string
	Options       []string
	CorrectAnswer string
	Subtopic      string
	Difficulty    string
	Explanation   string
}

// UserAnswer is a graded answer to one question snapshot.
type UserAnswer struct {
	ID                 string
	UserID             string
	SessionID          string
	QuestionSnapshotID string
	SelectedAnswer     string
	IsCorrect          bool
	CreatedAt          time.Time
}

// SubtopicStat holds a user's running counters for one subtopic.
type SubtopicStat struct {
	UserID    string
	Subtopic  string
	Total     int
	Correct   int
	UpdatedAt time.Time
}

// LeaderboardEntry is a user's accumulated score.
type LeaderboardEntry struct {
	UserID           string
	Name             string
	TotalScore       int
	QuizzesCompleted int
	UpdatedAt        time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a persisted LLM request event.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for a group of LLM requests.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
