package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
)

// TaskFilter narrows a task listing. Zero-valued fields are ignored; set
// fields are combined with AND.
type TaskFilter struct {
	// Status restricts results to an exact status when non-nil.
	Status *domain.TaskStatus

	// Search is matched case-insensitively as a substring of the title or
	// the description.
	Search string
}

// TaskStore defines the interface for task data persistence.
// Every read, update and delete is scoped by the owning user's ID: a task
// owned by another user is indistinguishable from one that does not exist.
type TaskStore interface {
	// Create saves a new task.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the task with id owned by userID.
	// Returns ErrTaskNotFound if no such task exists for that user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)

	// List returns userID's tasks matching filter, oldest first.
	// Returns an empty slice (never nil) when nothing matches.
	List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// UpdateStatus sets the status of the task with id owned by userID.
	// Returns ErrTaskNotFound if no row was affected.
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status domain.TaskStatus) error

	// Delete removes the task with id owned by userID.
	// Returns ErrTaskNotFound if no row was affected.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
