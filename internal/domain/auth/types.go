package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config drives token validation.
type Config struct {
	Secret   string
	TokenTTL time.Duration
	// Leeway tolerates clock skew between the issuing backend and this service.
	Leeway time.Duration
}

// Claims is what the rest of the service learns about a caller.
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims mirrors the payload the backend signs: {"userId": "..."}.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}
