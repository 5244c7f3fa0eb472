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

// UserRepo manages users and their auth sessions.
type UserRepo struct {
	db execQuerier
	b  *entsql.DialectBuilder
}

// CreateUser inserts a new user. ID and CreatedAt are filled in when empty.
func (r *UserRepo) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query, args := r.b.Insert(UsersTable.Name).
		Columns("id", "email", "name", "email_verified", "created_at").
		Values(u.ID, u.Email, u.Name, u.EmailVerified, u.CreatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser returns the user with the given id or ErrNotFound.
func (r *UserRepo) GetUser(ctx context.Context, id string) (*User, error) {
	return r.getUserBy(ctx, "id", id)
}

// GetUserByEmail returns the user with the given email or ErrNotFound.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUserBy(ctx, "email", email)
}

func (r *UserRepo) getUserBy(ctx context.Context, column, value string) (*User, error) {
	query, args := r.b.Select("id", "email", "name", "email_verified", "created_at").
		From(r.b.Table(UsersTable.Name)).
		Where(entsql.EQ(column, value)).
		Query()

	var u User
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.Name, &u.EmailVerified, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// CreateAuthSession stores a bearer token for userID valid for ttl.
func (r *UserRepo) CreateAuthSession(ctx context.Context, userID, token string, ttl time.Duration) (*AuthSession, error) {
	now := time.Now().UTC()
	as := &AuthSession{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	query, args := r.b.Insert(AuthSessionsTable.Name).
		Columns("id", "token", "expires_at", "created_at", "user_id").
		Values(as.ID, as.Token, as.ExpiresAt, as.CreatedAt, as.UserID).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert auth session: %w", err)
	}
	return as, nil
}

// GetAuthSession looks up a token. Expiry is left to the caller.
func (r *UserRepo) GetAuthSession(ctx context.Context, token string) (*AuthSession, error) {
	query, args := r.b.Select("id", "token", "expires_at", "created_at", "user_id").
		From(r.b.Table(AuthSessionsTable.Name)).
		Where(entsql.EQ("token", token)).
		Query()

	var as AuthSession
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&as.ID, &as.Token, &as.ExpiresAt, &as.CreatedAt, &as.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query auth session: %w", err)
	}
	return &as, nil
}

// DeleteExpiredAuthSessions removes tokens that expired before now.
func (r *UserRepo) DeleteExpiredAuthSessions(ctx context.Context, now time.Time) (int64, error) {
	query, args := r.b.Delete(AuthSessionsTable.Name).
		Where(entsql.LT("expires_at", now.UTC())).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired auth sessions: %w", err)
	}
	return res.RowsAffected()
}
