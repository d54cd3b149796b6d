package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokensDisabled = errors.New("api tokens are not configured")
	ErrInvalidToken   = errors.New("invalid or expired token")
)

// TokenIssuer creates and verifies signed bearer tokens for API clients.
// A zero-value secret disables issuance entirely.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenIssuer creates a token issuer signing with the given secret
func NewTokenIssuer(secret string, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), lifetime: lifetime}
}

// Enabled reports whether a signing secret is configured
func (t *TokenIssuer) Enabled() bool {
	return len(t.secret) > 0
}

// Claims carried in API bearer tokens
type Claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given user
func (t *TokenIssuer) Issue(userID int64, role string) (string, error) {
	if !t.Enabled() {
		return "", ErrTokensDisabled
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token string and returns its claims
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	if !t.Enabled() {
		return nil, ErrTokensDisabled
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
