package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the fixed validity window of an issued token.
const TokenTTL = 24 * time.Hour

var (
	// ErrTokenInvalid covers malformed, forged and expired tokens alike.
	ErrTokenInvalid = errors.New("token invalid")
	ErrNoSecret     = errors.New("token signing secret is not configured")
)

// Identity is the set of claims carried by a token.
type Identity struct {
	ID       int64
	Username string
	Email    string
}

type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	now    func() time.Time
}

type Option func(*TokenService)

// WithClock overrides the time source, used by tests to issue expired tokens.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret string, opts ...Option) (*TokenService, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	s := &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for an already authenticated identity.
func (s *TokenService) Issue(identity Identity) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		ID:       identity.ID,
		Username: identity.Username,
		Email:    identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Every failure is reported as ErrTokenInvalid; the cause is wrapped for logs.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if token == nil || !token.Valid || claims.ID <= 0 {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{
		ID:       claims.ID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}
