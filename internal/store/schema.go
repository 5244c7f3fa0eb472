package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const textSize = 2147483647

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "email_verified", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// AuthSessionsColumns holds the columns for the "auth_sessions" table.
	AuthSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "token", Type: field.TypeString, Unique: true},
		{Name: "expires_at", Type: field.TypeTime},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString, Size: 36},
	}
	// AuthSessionsTable holds the schema information for the "auth_sessions" table.
	AuthSessionsTable = &schema.Table{
		Name:       "auth_sessions",
		Columns:    AuthSessionsColumns,
		PrimaryKey: []*schema.Column{AuthSessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "auth_sessions_users_auth_sessions",
				Columns:    []*schema.Column{AuthSessionsColumns[4]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// QuizSessionsColumns holds the columns for the "quiz_sessions" table.
	QuizSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "topic", Type: field.TypeString},
		{Name: "status", Type: field.TypeEnum, Enums: []string{SessionStarted, SessionCompleted}, Default: SessionStarted},
		{Name: "score", Type: field.TypeInt, Nullable: true},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "user_id", Type: field.TypeString, Size: 36},
	}
	// QuizSessionsTable holds the schema information for the "quiz_sessions" table.
	QuizSessionsTable = &schema.Table{
		Name:       "quiz_sessions",
		Columns:    QuizSessionsColumns,
		PrimaryKey: []*schema.Column{QuizSessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_sessions_users_quiz_sessions",
				Columns:    []*schema.Column{QuizSessionsColumns[6]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "quizsession_user_id_started_at",
				Columns: []*schema.Column{QuizSessionsColumns[6], QuizSessionsColumns[4]},
			},
			{
				Name:    "quizsession_status_started_at",
				Columns: []*schema.Column{QuizSessionsColumns[2], QuizSessionsColumns[4]},
			},
		},
	}

	// QuestionSnapshotsColumns holds the columns for the "question_snapshots" table.
	QuestionSnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "position", Type: field.TypeInt},
		{Name: "question_text", Type: field.TypeString, Size: textSize},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_answer", Type: field.TypeString, Size: textSize},
		{Name: "subtopic", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeEnum, Enums: []string{"EASY", "MEDIUM", "HARD"}},
		{Name: "explanation", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "session_id", Type: field.TypeString, Size: 36},
	}
	// QuestionSnapshotsTable holds the schema information for the "question_snapshots" table.
	QuestionSnapshotsTable = &schema.Table{
		Name:       "question_snapshots",
		Columns:    QuestionSnapshotsColumns,
		PrimaryKey: []*schema.Column{QuestionSnapshotsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "question_snapshots_quiz_sessions_questions",
				Columns:    []*schema.Column{QuestionSnapshotsColumns[8]},
				RefColumns: []*schema.Column{QuizSessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "questionsnapshot_session_id_position",
				Unique:  true,
				Columns: []*schema.Column{QuestionSnapshotsColumns[8], QuestionSnapshotsColumns[1]},
			},
		},
	}

	// UserAnswersColumns holds the columns for the "user_answers" table.
	UserAnswersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "selected_answer", Type: field.TypeString, Size: textSize},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString, Size: 36},
		{Name: "session_id", Type: field.TypeString, Size: 36},
		{Name: "question_snapshot_id", Type: field.TypeString, Size: 36},
	}
	// UserAnswersTable holds the schema information for the "user_answers" table.
	UserAnswersTable = &schema.Table{
		Name:       "user_answers",
		Columns:    UserAnswersColumns,
		PrimaryKey: []*schema.Column{UserAnswersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_answers_users_answers",
				Columns:    []*schema.Column{UserAnswersColumns[4]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "user_answers_quiz_sessions_answers",
				Columns:    []*schema.Column{UserAnswersColumns[5]},
				RefColumns: []*schema.Column{QuizSessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "user_answers_question_snapshots_answers",
				Columns:    []*schema.Column{UserAnswersColumns[6]},
				RefColumns: []*schema.Column{QuestionSnapshotsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "useranswer_user_id_question_snapshot_id",
				Unique:  true,
				Columns: []*schema.Column{UserAnswersColumns[4], UserAnswersColumns[6]},
			},
		},
	}

	// UserSubtopicStatsColumns holds the columns for the "user_subtopic_stats" table.
	UserSubtopicStatsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "subtopic", Type: field.TypeString},
		{Name: "total", Type: field.TypeInt, Default: 0},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString, Size: 36},
	}
	// UserSubtopicStatsTable holds the schema information for the "user_subtopic_stats" table.
	UserSubtopicStatsTable = &schema.Table{
		Name:       "user_subtopic_stats",
		Columns:    UserSubtopicStatsColumns,
		PrimaryKey: []*schema.Column{UserSubtopicStatsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_subtopic_stats_users_stats",
				Columns:    []*schema.Column{UserSubtopicStatsColumns[5]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "usersubtopicstat_user_id_subtopic",
				Unique:  true,
				Columns: []*schema.Column{UserSubtopicStatsColumns[5], UserSubtopicStatsColumns[1]},
			},
		},
	}

	// LeaderboardEntriesColumns holds the columns for the "leaderboard_entries" table.
	LeaderboardEntriesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString, Size: 36},
		{Name: "total_score", Type: field.TypeInt, Default: 0},
		{Name: "quizzes_completed", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// LeaderboardEntriesTable holds the schema information for the "leaderboard_entries" table.
	LeaderboardEntriesTable = &schema.Table{
		Name:       "leaderboard_entries",
		Columns:    LeaderboardEntriesColumns,
		PrimaryKey: []*schema.Column{LeaderboardEntriesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "leaderboard_entries_users_leaderboard",
				Columns:    []*schema.Column{LeaderboardEntriesColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "leaderboardentry_total_score",
				Columns: []*schema.Column{LeaderboardEntriesColumns[1]},
			},
		},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[1]}},
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[4]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{LLMRequestEventsColumns[8]}},
		},
	}

	// Tables holds all the tables in the schema, parents first.
	Tables = []*schema.Table{
		UsersTable,
		AuthSessionsTable,
		QuizSessionsTable,
		QuestionSnapshotsTable,
		UserAnswersTable,
		UserSubtopicStatsTable,
		LeaderboardEntriesTable,
		LLMRequestEventsTable,
	}
)

func init() {
	AuthSessionsTable.ForeignKeys[0].RefTable = UsersTable
	QuizSessionsTable.ForeignKeys[0].RefTable = UsersTable
	QuestionSnapshotsTable.ForeignKeys[0].RefTable = QuizSessionsTable
	UserAnswersTable.ForeignKeys[0].RefTable = UsersTable
	UserAnswersTable.ForeignKeys[1].RefTable = QuizSessionsTable
	UserAnswersTable.ForeignKeys[2].RefTable = QuestionSnapshotsTable
	UserSubtopicStatsTable.ForeignKeys[0].RefTable = UsersTable
	LeaderboardEntriesTable.ForeignKeys[0].RefTable = UsersTable
}
