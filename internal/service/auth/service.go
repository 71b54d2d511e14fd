package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/redact"
	"github.com/phrazzld/taskman-api/internal/store"
)

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// Service registers users, logs them in and resolves bearer tokens back to
// users.
type Service struct {
	users  store.UserStore
	hasher PasswordHasher
	tokens TokenService
	logger *slog.Logger

	// dummyHash is compared against when the username is unknown so both
	// login failure paths cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash string
}

// NewService creates an authentication Service.
func NewService(
	users store.UserStore,
	hasher PasswordHasher,
	tokens TokenService,
	logger *slog.Logger,
) (*Service, error) {
	if users == nil {
		return nil, errors.New("users cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("hasher cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("tokens cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("component", "auth_service"),
	}, nil
}

// Register creates a user with a hashed password.
// Returns a domain validation error for a malformed username or password and
// ErrUsernameTaken when the username is already registered.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		log.Debug("rejected signup input", "error", err)
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", redact.Error(err))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	// Uniqueness is enforced by the store's constraint, not a lookup.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("attempted signup with existing username", "username", username)
			return nil, ErrUsernameTaken
		}
		log.Error("failed to save user",
			"error", redact.Error(err),
			"username", username)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and issues an access token.
// Every credential failure returns ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*AccessToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.placeholderHash(), password)
			log.Debug("login failed: unknown username")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", "error", redact.Error(err))
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login failed: password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(ctx, user.Username)
	if err != nil {
		log.Error("failed to generate token", "error", redact.Error(err), "user_id", user.ID)
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	log.Info("user logged in", "user_id", user.ID)
	return &AccessToken{Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken validates tokenString and resolves the user it was issued to.
// Returns an error wrapping ErrUnauthorized when the token is missing,
// malformed, expired or badly signed, or names a user that no longer exists.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.tokens.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("token names unknown user", "username", claims.Username)
			return nil, ErrInvalidToken
		}
		log.Error("failed to resolve token user", "error", redact.Error(err))
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	return user, nil
}

func (s *Service) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("placeholder-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
