package mocks

import (
	"errors"
	"strings"

	"github.com/phrazzld/taskman-api/internal/service/auth"
)

const fakeHashPrefix = "fakehash:"

// ErrPasswordMismatch is returned by the default MockPasswordHasher.Compare.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher for testing. By default it
// produces "fakehash:<password>" so tests avoid bcrypt's cost.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCalls counts Compare invocations.
	CompareCalls int
}

// Ensure MockPasswordHasher implements auth.PasswordHasher interface
var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return fakeHashPrefix + password, nil
}

// Compare implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCalls++
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if !strings.HasPrefix(hashedPassword, fakeHashPrefix) ||
		strings.TrimPrefix(hashedPassword, fakeHashPrefix) != password {
		return ErrPasswordMismatch
	}
	return nil
}
