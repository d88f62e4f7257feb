package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims wraps the registered claims with the provider's custom payload.
type Claims struct {
	jwt.RegisteredClaims
	// Email is the authenticated user's email address.
	Email string `json:"email,omitempty"`
	// Role is the application role ("user" or "admin").
	Role string `json:"role,omitempty"`
}

// UserID returns the token subject, which the auth provider sets to the
// user's UUID.
func (c Claims) UserID() string {
	return c.Subject
}

// Config defines the inputs for building the HS256 implementation.
type Config struct {
	// Secret is the provider's shared HMAC signing key.
	Secret []byte
	// Issuer is the expected token issuer; empty disables the check.
	Issuer string
	// Audiences are the accepted audiences; empty disables the check.
	Audiences []string
	// TTL is the lifetime applied to tokens minted by Generate.
	TTL time.Duration
	// Clock provides the current time source.
	Clock clocker
}

// HS256 is a JWT implementation using symmetric HMAC-SHA256 signatures.
type HS256 struct {
	cfg    Config
	parser *jwt.Parser
}

// NewHS256 validates the config and returns an HS256 verifier.
func NewHS256(cfg Config) (*HS256, error) {
	if len(cfg.Secret) < 32 {
		return nil, ErrSigningKeyTooShort
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	for _, aud := range cfg.Audiences {
		opts = append(opts, jwt.WithAudience(aud))
	}

	return &HS256{cfg: cfg, parser: jwt.NewParser(opts...)}, nil
}

// Generate mints a signed token; used by tests and operational tooling.
func (h *HS256) Generate(userID, email, role string) (string, error) {
	now := h.cfg.Clock.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    h.cfg.Issuer,
			Audience:  h.cfg.Audiences,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.cfg.TTL)),
		},
		Email: email,
		Role:  role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.cfg.Secret)
}

// Verify parses and validates tokenStr and returns its claims.
func (h *HS256) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := h.parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return h.cfg.Secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, ErrTokenExpired
	}
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
