package auth

import (
	"context"
	"strings"
)

// Chain routes three-segment tokens to the JWT authenticator and
// everything else to the session authenticator. A nil JWT authenticator
// disables JWTs.
type Chain struct {
	JWT     *JWTAuthenticator
	Session *SessionAuthenticator
}

func (c Chain) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	if c.JWT != nil && strings.Count(token, ".") == 2 {
		return c.JWT.Authenticate(ctx, token)
	}
	return c.Session.Authenticate(ctx, token)
}
