package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Database drivers. SQLite is the default and needs no CGO.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store owns the database handle and hands out repositories bound to it.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
}

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to the database and runs the schema migration.
// driver is one of "sqlite", "postgres" or "mysql". For sqlite, dsn may be a
// plain file path; the required pragmas are added to every connection.
func Open(driver, dsn string) (*Store, error) {
	var name string
	switch driver {
	case "", "sqlite", "sqlite3":
		driver, name = "sqlite", dialect.SQLite
		dsn = sqliteDSN(dsn)
	case "postgres", "postgresql":
		driver, name = "postgres", dialect.Postgres
	case "mysql":
		name = dialect.MySQL
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	drv := entsql.OpenDB(name, db)
	s := &Store{db: db, drv: drv, dialect: name}

	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv, schema.WithForeignKeys(true))
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the connected database.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, b: s.builder()}
}

// Users returns the user and auth session repository.
func (s *Store) Users() *UserRepo {
	return &UserRepo{db: s.db, b: s.builder()}
}

// Sessions returns the quiz session repository.
func (s *Store) Sessions() *SessionRepo {
	return &SessionRepo{db: s.db, b: s.builder()}
}

// Stats returns the subtopic statistics and leaderboard repository.
func (s *Store) Stats() *StatsRepo {
	return &StatsRepo{db: s.db, b: s.builder()}
}

// Tx is a unit of work bound to a single database transaction.
type Tx struct {
	tx *sql.Tx
	b  *entsql.DialectBuilder
}

// Sessions returns the quiz session repository bound to the transaction.
func (t *Tx) Sessions() *SessionRepo {
	return &SessionRepo{db: t.tx, b: t.b}
}

// Stats returns the statistics repository bound to the transaction.
func (t *Tx) Stats() *StatsRepo {
	return &StatsRepo{db: t.tx, b: t.b}
}

// InTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, including on panic.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Tx{tx: sqlTx, b: s.builder()}); err != nil {
		if rerr := sqlTx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// sqliteDSN turns a file path or DSN into one that enables WAL, a busy
// timeout and foreign keys on every pooled connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	pragmas := url.Values{}
	pragmas.Add("_pragma", "foreign_keys(1)")
	pragmas.Add("_pragma", "busy_timeout(5000)")
	pragmas.Add("_pragma", "journal_mode(WAL)")
	pragmas.Add("_pragma", "synchronous(NORMAL)")

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + pragmas.Encode()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZARD_DB environment variable
// 2. $XDG_DATA_HOME/quizard/quizard.db
// 3. ~/.local/share/quizard/quizard.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZARD_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizard", "quizard.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
