package auth

import "time"

// NewTestTokenService builds a token service with an explicit clock and no
// leeway, for deterministic expiry tests. It is compiled only into this
// package's tests, including the external auth_test package.
func NewTestTokenService(secret string, lifetime time.Duration, timeFunc func() time.Time) TokenService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacTokenService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
	}
}
