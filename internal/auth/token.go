package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTTL is how long a freshly signed token stays valid.
	DefaultTTL = time.Hour

	// TokenType marks the token as a public API token.
	TokenType = "public"

	signTypeHeader = "sign_type"
	signTypeValue  = "SIGN"
)

// Claims is the payload of a GLM API token.
// Timestamps are unix seconds.
type Claims struct {
	APIKey    string `json:"api_key"   yaml:"api_key"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	ExpiresAt int64  `json:"exp"       yaml:"exp"`
	Type      string `json:"type"      yaml:"type"`
}

var _ jwt.Claims = Claims{}

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Timestamp, 0)), nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

func (c Claims) GetIssuer() (string, error) { return "", nil }

func (c Claims) GetSubject() (string, error) { return c.APIKey, nil }

func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// IssuedAt returns the issuance time.
func (c Claims) IssuedAt() time.Time { return time.Unix(c.Timestamp, 0) }

// Expiry returns the expiration time.
func (c Claims) Expiry() time.Time { return time.Unix(c.ExpiresAt, 0) }

// BuildToken signs a token for the raw id.secret credential, valid for ttl
// from now. A non-positive ttl means DefaultTTL.
func BuildToken(raw string, now time.Time, ttl time.Duration) (string, error) {
	cred, err := ParseCredential(raw)
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	issued := now.Unix()
	claims := Claims{
		APIKey:    cred.ID,
		Timestamp: issued,
		ExpiresAt: issued + int64(ttl/time.Second),
		Type:      TokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header[signTypeHeader] = signTypeValue

	signed, err := token.SignedString([]byte(cred.Secret))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenSigning, err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token against secret and returns its claims.
// Expiry is checked against now.
func ParseToken(tokenString, secret string, now time.Time) (*Claims, map[string]any, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, nil, fmt.Errorf("invalid token claims")
	}
	return claims, token.Header, nil
}

// Option configures a Builder.
type Option func(*Builder)

// WithTTL overrides the token validity window.
func WithTTL(ttl time.Duration) Option {
	return func(b *Builder) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// Builder signs a fresh token on every call. Tokens are never cached.
type Builder struct {
	credential string
	ttl        time.Duration
	now        func() time.Time
}

// NewBuilder creates a Builder for the raw id.secret credential.
// The credential is validated on each Token call.
func NewBuilder(credential string, opts ...Option) *Builder {
	b := &Builder{
		credential: credential,
		ttl:        DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Token signs a new token.
func (b *Builder) Token() (string, error) {
	return BuildToken(b.credential, b.now(), b.ttl)
}

// TTL returns the configured validity window.
func (b *Builder) TTL() time.Duration {
	return b.ttl
}
