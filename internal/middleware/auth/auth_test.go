package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

func newAuth() *Auth {
	return NewAuth(tokens.NewCodec(testSecret, time.Hour))
}

func mint(t *testing.T, secret []byte, id, role string) string {
	t.Helper()
	tok, err := tokens.NewCodec(secret, time.Hour).Mint(id, role)
	require.NoError(t, err)
	return tok
}

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func requireHTTPError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %T", err)
	assert.Equal(t, code, he.Code)
	assert.Equal(t, msg, he.Message)
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, UserID(c)+"|"+Role(c))
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		code   int
		msg    string
	}{
		{name: "no header", header: "", code: http.StatusUnauthorized, msg: MsgMissingToken},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", code: http.StatusUnauthorized, msg: MsgMissingToken},
		{name: "empty bearer", header: "Bearer ", code: http.StatusUnauthorized, msg: MsgMissingToken},
		{name: "lowercase scheme", header: "bearer " + mint(t, testSecret, "u1", "user"), code: http.StatusUnauthorized, msg: MsgMissingToken},
		{name: "uppercase scheme", header: "BEARER " + mint(t, testSecret, "u1", "user"), code: http.StatusUnauthorized, msg: MsgMissingToken},
		{name: "garbage token", header: "Bearer not-a-jwt", code: http.StatusUnauthorized, msg: MsgInvalidToken},
		{name: "other secret", header: "Bearer " + mint(t, []byte("other"), "u1", "user"), code: http.StatusUnauthorized, msg: MsgInvalidToken},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newContext(tt.header)
			err := newAuth().RequireAuth(okHandler)(c)
			requireHTTPError(t, err, tt.code, tt.msg)
			assert.Empty(t, UserID(c))
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := tokens.NewCodec(testSecret, time.Hour, tokens.WithClock(past)).Mint("u1", "user")
	require.NoError(t, err)

	c, _ := newContext("Bearer " + expired)
	err = newAuth().RequireAuth(okHandler)(c)
	requireHTTPError(t, err, http.StatusUnauthorized, MsgInvalidToken)
}

func TestRequireAuth_SetsClaims(t *testing.T) {
	t.Parallel()

	c, rec := newContext("Bearer " + mint(t, testSecret, "u1", "user"))
	require.NoError(t, newAuth().RequireAuth(okHandler)(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1|user", rec.Body.String())

	claims, ok := ClaimsFrom(c)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.ID)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	a := newAuth()
	chain := a.RequireAuth(a.RequireAdmin(okHandler))

	t.Run("non admin is forbidden", func(t *testing.T) {
		t.Parallel()
		c, _ := newContext("Bearer " + mint(t, testSecret, "u1", "user"))
		requireHTTPError(t, chain(c), http.StatusForbidden, MsgAdminOnly)
	})

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()
		c, rec := newContext("Bearer " + mint(t, testSecret, "a1", "admin"))
		require.NoError(t, chain(c))
		assert.Equal(t, "a1|admin", rec.Body.String())
	})

	t.Run("missing token is unauthorized not forbidden", func(t *testing.T) {
		t.Parallel()
		c, _ := newContext("")
		requireHTTPError(t, chain(c), http.StatusUnauthorized, MsgMissingToken)
	})

	t.Run("without require auth", func(t *testing.T) {
		t.Parallel()
		c, _ := newContext("")
		requireHTTPError(t, a.RequireAdmin(okHandler)(c), http.StatusUnauthorized, MsgMissingToken)
	})
}
