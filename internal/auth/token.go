package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Metadata mirrors the identity attributes the provider embeds in its
// access tokens.
type Metadata struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Claims is the payload of a provider-issued access token. The subject is
// the identity id; the role lives in the user_metadata claim.
type Claims struct {
	jwt.RegisteredClaims
	Email        string   `json:"email"`
	UserMetadata Metadata `json:"user_metadata"`
}

// Role returns the metadata role, defaulting to "user" when absent.
func (c *Claims) Role() string {
	if c.UserMetadata.Role == "" {
		return "user"
	}
	return c.UserMetadata.Role
}

// TokenParser verifies HMAC-signed access tokens issued by the identity
// provider. The secret is the provider project's JWT secret; this service
// never issues tokens of its own.
type TokenParser struct {
	secret []byte
}

// NewTokenParser constructs a parser for the given shared secret.
func NewTokenParser(secret string) *TokenParser {
	return &TokenParser{secret: []byte(secret)}
}

// Parse verifies the token signature and payload integrity.
func (p *TokenParser) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// Sign mints a token the way the provider would. Real issuance belongs to
// the provider; this exists for tests and local tooling.
func (p *TokenParser) Sign(subject, email string, metadata Metadata, ttl time.Duration) (string, error) {
	if len(p.secret) == 0 {
		return "", errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email:        email,
		UserMetadata: metadata,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}
