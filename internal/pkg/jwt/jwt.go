// Package jwt verifies the bearer tokens issued by the hosted auth provider.
//
// The service never issues end-user tokens itself; it validates the
// provider's HS256 tokens with the shared signing secret and exposes the
// claims to handlers through the request context.
package jwt

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidSigningMethod is returned when the token is not HMAC signed.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS256 secret is under 32 bytes.
	ErrSigningKeyTooShort = errors.New("HS256 signing key must be at least 32 bytes (256 bits)")

	// ErrTokenExpired is returned when the token has expired.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when the token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT verifies tokens and, for tests and tooling, can mint them.
type JWT interface {
	// Generate creates a signed token for the given subject.
	Generate(userID, email, role string) (string, error)
	// Verify parses and validates tokenStr and returns its claims.
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type jwtContextKey struct{}

// GetAuth returns the claims stored in ctx, or nil when unauthenticated.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

// SetAuth stores claims in ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
