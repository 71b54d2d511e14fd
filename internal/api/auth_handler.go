package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/service/auth"
)

// Authenticator registers users and exchanges credentials for access tokens.
// *auth.Service satisfies it.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*auth.AccessToken, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authenticator Authenticator
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authenticator Authenticator, logger *slog.Logger) *AuthHandler {
	if authenticator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("authenticator cannot be nil for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authenticator: authenticator,
		logger:        logger.With(slog.String("component", "auth_handler")),
	}
}

// Signup handles the POST /auth/signup endpoint.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SignupRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	log.Debug("user signed up", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, SignupResponse{
		ID:       user.ID.String(),
		Username: user.Username,
	})
}

// Login handles the POST /auth/signin and POST /auth/login endpoints.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	token, err := h.authenticator.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
