package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/service"
	"github.com/phrazzld/taskman-api/internal/service/auth"
)

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
//
// Unexpected service failures are always 500, whatever store error they
// wrap; raw store errors are never mapped to client codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil, service.IsUnexpected(err):
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, service.ErrMissingCaller):
		return http.StatusUnauthorized

	// Not found errors; tasks owned by other users land here too
	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil || service.IsUnexpected(err) {
		return genericErrorMessage
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"

	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrMissingCaller):
		return "Authentication required"

	case errors.Is(err, auth.ErrUnauthorized):
		return "Invalid token"

	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, auth.ErrUsernameTaken):
		return "Username already exists"

	case errors.Is(err, domain.ErrValidation):
		return SanitizeValidationError(err)

	default:
		return genericErrorMessage
	}
}

// validationSentinels lists domain validation errors whose wording is safe
// to show as-is, most specific first.
var validationSentinels = []struct {
	err     error
	message string
}{
	{domain.ErrInvalidUsername, "Invalid username: " + tagMessageUsername},
	{domain.ErrInvalidPassword, "Invalid password: " + tagMessagePassword},
	{domain.ErrEmptyTitle, "Invalid title: required field"},
	{domain.ErrTitleTooLong, fmt.Sprintf("Invalid title: at most %d characters", domain.MaxTitleLength)},
	{domain.ErrDescriptionTooLong, fmt.Sprintf("Invalid description: at most %d characters", domain.MaxDescriptionLength)},
	{domain.ErrInvalidTaskStatus, "Invalid status: " + tagMessageTaskStatus},
}

const (
	tagMessageUsername = "must be 4-20 characters of letters, digits, '.', '_' or '-'"
	tagMessagePassword = "must be 8-32 printable characters without spaces"
)

var tagMessageTaskStatus = "must be one of " + joinStatuses(domain.TaskStatuses())

func joinStatuses(statuses []domain.TaskStatus) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	if err == nil {
		return "Validation error"
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}

	for _, s := range validationSentinels {
		if errors.Is(err, s.err) {
			return s.message
		}
	}

	// Validator output that was flattened to a string along the way.
	// Example format: "Key: 'SignupRequest.username' Error:Field validation for 'username' failed on the 'required' tag"
	errMsg := err.Error()
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				if len(fieldParts) >= 5 {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fieldParts[3]))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "username":
		return tagMessageUsername
	case "password":
		return tagMessagePassword
	case "taskstatus":
		return tagMessageTaskStatus
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// underlying cause. defaultMsg replaces the generic message for 500s.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// HandleValidationError writes a 400 with a sanitized description of err.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}
