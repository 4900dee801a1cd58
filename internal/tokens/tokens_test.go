package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func TestCodec_MintVerify(t *testing.T) {
	t.Parallel()

	clk := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	codec := NewCodec(testSecret, 7*24*time.Hour, WithClock(clk.Now))

	tok, err := codec.Mint("user-1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, clk.t.Add(7*24*time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestCodec_Expiry(t *testing.T) {
	t.Parallel()

	clk := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	codec := NewCodec(testSecret, time.Hour, WithClock(clk.Now))

	tok, err := codec.Mint("user-1", "user")
	require.NoError(t, err)

	clk.t = clk.t.Add(59 * time.Minute)
	_, err = codec.Verify(tok)
	require.NoError(t, err)

	clk.t = clk.t.Add(2 * time.Minute)
	_, err = codec.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Rejects(t *testing.T) {
	t.Parallel()

	codec := NewCodec(testSecret, time.Hour)
	good, err := codec.Mint("user-1", "user")
	require.NoError(t, err)

	otherSecret, err := NewCodec([]byte("other"), time.Hour).Mint("user-1", "user")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: "user-1", Role: "user"}).SignedString(testSecret)
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "user",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(testSecret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		ID:               "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "other secret", token: otherSecret},
		{name: "malformed", token: "not-a-valid-jwt"},
		{name: "empty", token: ""},
		{name: "tampered", token: good + "x"},
		{name: "missing exp", token: noExp},
		{name: "missing id", token: noID},
		{name: "wrong algorithm", token: hs512},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := codec.Verify(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
