package domain

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid access token")

// Claims is the payload of an access token.
type Claims struct {
	UserID      int64    `json:"user_id"`
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec issues and validates HS256 signed access tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenCodecOption func(*TokenCodec)

func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

func NewTokenCodec(secret []byte, ttl time.Duration, opts ...TokenCodecOption) *TokenCodec {
	c := &TokenCodec{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *TokenCodec) IssueToken(user User) (string, error) {
	now := c.now().UTC()

	claims := Claims{
		UserID:      user.ID,
		Authorities: user.Authorities(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// ParseToken returns the decoded claims, or nil claims and ErrInvalidToken
// when the token is malformed, expired or signed with another key.
func (c *TokenCodec) ParseToken(accessToken string) (*Claims, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		accessToken,
		claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
