package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quizard/internal/store"
)

// SessionAuthenticator validates opaque tokens stored in auth_sessions.
type SessionAuthenticator struct {
	users UserStore
	now   func() time.Time
}

func NewSessionAuthenticator(users UserStore) *SessionAuthenticator {
	return &SessionAuthenticator{users: users, now: time.Now}
}

// Authenticate accepts a raw token or a signed cookie value of the form
// "<token>.<signature>".
func (a *SessionAuthenticator) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	as, err := a.users.GetAuthSession(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		if i := strings.IndexByte(token, '.'); i > 0 {
			as, err = a.users.GetAuthSession(ctx, token[:i])
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}

	if !a.now().Before(as.ExpiresAt) {
		return nil, fmt.Errorf("%w: session expired", ErrUnauthenticated)
	}

	u, err := a.users.GetUser(ctx, as.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return principalFor(u, "session"), nil
}
