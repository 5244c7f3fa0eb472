// Package auth resolves request credentials to a Principal.
package auth

import (
	"context"
	"errors"

	"github.com/abhisek/quizard/internal/store"
)

// ErrUnauthenticated is returned for missing, unknown or expired
// credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Method string // "session" or "jwt"
}

// Authenticator turns a raw token into a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// UserStore is the user lookup the authenticators need. *store.UserRepo
// satisfies it.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetAuthSession(ctx context.Context, token string) (*store.AuthSession, error)
}

type principalKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the Principal stored by WithPrincipal.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

func principalFor(u *store.User, method string) *Principal {
	return &Principal{UserID: u.ID, Email: u.Email, Name: u.Name, Method: method}
}
