package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Validation errors specific to User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{4,20}$`)
	// Printable ASCII without space; 32 bytes stays well under bcrypt's 72-byte input limit.
	passwordPattern = regexp.MustCompile(`^[\x21-\x7E]{8,32}$`)
)

// User represents a registered user of the task API.
// It contains identity and authentication details only; tasks reference
// users by ID.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a new User with the given username and plaintext password.
// It generates a new UUID for the user ID and sets the creation/update timestamps.
// Returns an error if validation fails.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  username,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// A user must carry either a plaintext password (before hashing) or a hash.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if !IsValidUsername(u.Username) {
		return ErrInvalidUsername
	}

	if u.Password != "" {
		if !IsValidPassword(u.Password) {
			return ErrInvalidPassword
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// IsValidUsername reports whether username satisfies the username format rules.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsValidPassword reports whether password satisfies the password format rules.
func IsValidPassword(password string) bool {
	return passwordPattern.MatchString(password)
}
