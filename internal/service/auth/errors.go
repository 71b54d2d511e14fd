package auth

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is the parent of every authentication failure. The API
// layer maps anything wrapping it to 401.
var ErrUnauthorized = errors.New("unauthorized")

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid, the signature doesn't
	// match, or the user it names no longer exists
	ErrInvalidToken = fmt.Errorf("%w: invalid authentication token", ErrUnauthorized)

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = fmt.Errorf("%w: authentication token has expired", ErrUnauthorized)

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf or iat in the future)
	ErrTokenNotYetValid = fmt.Errorf("%w: authentication token not yet valid", ErrUnauthorized)

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = fmt.Errorf("%w: authentication token is missing", ErrUnauthorized)

	// ErrInvalidCredentials is returned by Login for an unknown username and for
	// a wrong password alike, so callers cannot tell which check failed
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
)

// ErrUsernameTaken indicates signup with a username that is already registered.
var ErrUsernameTaken = errors.New("username already taken")
