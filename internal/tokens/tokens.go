package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now for minting and verification.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(secret []byte, ttl time.Duration, opts ...Option) *Codec {
	c := &Codec{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) Mint(id, role string) (string, error) {
	now := c.now()
	claims := Claims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	tkn, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
