package api

import (
	"time"

	"github.com/phrazzld/taskman-api/internal/domain"
)

// Common request/response structures

// SignupRequest defines the payload for the user registration endpoint.
type SignupRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,password"`
}

// SignupResponse defines the successful response for the registration endpoint.
// The password hash is never part of it.
type SignupResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginRequest defines the payload for the login endpoint.
// Only presence is checked; a malformed username fails as bad credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"accessToken"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expiresAt"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
}

// UpdateTaskStatusRequest defines the payload for changing a task's status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,taskstatus"`
}

// TaskResponse represents the response data for a task.
// The owner is deliberately absent.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// tasksToResponse converts tasks to responses. The result is never nil so an
// empty listing encodes as [] rather than null.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
