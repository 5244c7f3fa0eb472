package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizard/internal/store"
)

func setup(t *testing.T) (*store.Store, *store.User) {
	t.Helper()
	st, err := store.Open("sqlite", filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	u := &store.User{Email: "ada@example.com", Name: "Ada"}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return st, u
}

func TestSessionAuthenticator(t *testing.T) {
	st, u := setup(t)
	ctx := context.Background()
	a := NewSessionAuthenticator(st.Users())

	_, err := st.Users().CreateAuthSession(ctx, u.ID, "tok-valid", time.Hour)
	require.NoError(t, err)
	_, err = st.Users().CreateAuthSession(ctx, u.ID, "tok-expired", -time.Minute)
	require.NoError(t, err)

	p, err := a.Authenticate(ctx, "tok-valid")
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, "session", p.Method)

	p, err = a.Authenticate(ctx, "tok-valid.c2lnbmF0dXJl")
	require.NoError(t, err, "signed cookie values resolve to their token")
	assert.Equal(t, u.ID, p.UserID)

	_, err = a.Authenticate(ctx, "tok-expired")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = a.Authenticate(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = a.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJWTAuthenticator(t *testing.T) {
	st, u := setup(t)
	ctx := context.Background()
	a := NewJWTAuthenticator("s3cret", st.Users())

	token, err := a.Issue(u.ID, time.Hour)
	require.NoError(t, err)

	p, err := a.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, "jwt", p.Method)

	other := NewJWTAuthenticator("different", st.Users())
	_, err = other.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	expired, err := a.Issue(u.ID, -time.Minute)
	require.NoError(t, err)
	_, err = a.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ghost, err := a.Issue("no-such-user", time.Hour)
	require.NoError(t, err)
	_, err = a.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: u.ID, Issuer: jwtIssuer})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.Authenticate(ctx, unsigned)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = NewJWTAuthenticator("", st.Users()).Issue(u.ID, time.Hour)
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	st, u := setup(t)
	ctx := context.Background()
	jwtAuth := NewJWTAuthenticator("s3cret", st.Users())
	chain := Chain{JWT: jwtAuth, Session: NewSessionAuthenticator(st.Users())}

	_, err := st.Users().CreateAuthSession(ctx, u.ID, "opaque", time.Hour)
	require.NoError(t, err)
	token, err := jwtAuth.Issue(u.ID, time.Hour)
	require.NoError(t, err)

	p, err := chain.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "jwt", p.Method)

	p, err = chain.Authenticate(ctx, "opaque")
	require.NoError(t, err)
	assert.Equal(t, "session", p.Method)

	_, err = Chain{Session: NewSessionAuthenticator(st.Users())}.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", TokenFromRequest(r, "sid"))

	r.AddCookie(&http.Cookie{Name: "sid", Value: "abc%2Edef"})
	assert.Equal(t, "abc.def", TokenFromRequest(r, "sid"))

	r.Header.Set("Authorization", "Bearer xyz")
	assert.Equal(t, "xyz", TokenFromRequest(r, "sid"))

	r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	assert.Equal(t, "abc.def", TokenFromRequest(r, "sid"))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st, u := setup(t)
	_, err := st.Users().CreateAuthSession(context.Background(), u.ID, "good", time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.Use(Middleware(NewSessionAuthenticator(st.Users()), "better-auth.session_token", nil))
	router.GET("/me", func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		fromCtx, ok := FromContext(c.Request.Context())
		require.True(t, ok)
		assert.Same(t, p, fromCtx)
		c.JSON(http.StatusOK, gin.H{"id": p.UserID})
	})

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no credentials", "", "", http.StatusUnauthorized},
		{"bad bearer", "Bearer bad", "", http.StatusUnauthorized},
		{"good bearer", "Bearer good", "", http.StatusOK},
		{"good cookie", "", "good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "better-auth.session_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}
