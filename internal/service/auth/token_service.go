package auth

import (
	"context"
	"time"
)

// TokenService defines operations for managing JWT access tokens.
type TokenService interface {
	// GenerateToken creates a signed access token for username.
	// Returns the token string and its expiry time.
	GenerateToken(ctx context.Context, username string) (string, time.Time, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated contents of an access token.
type Claims struct {
	// Username identifies the user the token was issued for.
	Username string `json:"username"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
