package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/redact"
	"github.com/phrazzld/taskman-api/internal/store"
)

// TaskService manages a user's tasks.
type TaskService interface {
	// List returns the caller's tasks matching filter, oldest first.
	// The result is never nil.
	List(ctx context.Context, caller *domain.User, filter store.TaskFilter) ([]*domain.Task, error)

	// GetByID returns one of the caller's tasks, or ErrTaskNotFound.
	GetByID(ctx context.Context, caller *domain.User, id uuid.UUID) (*domain.Task, error)

	// Create adds an OPEN task owned by the caller.
	Create(ctx context.Context, caller *domain.User, title, description string) (*domain.Task, error)

	// DeleteByID removes one of the caller's tasks, or returns ErrTaskNotFound.
	// Deleting the same task twice fails the second time.
	DeleteByID(ctx context.Context, caller *domain.User, id uuid.UUID) error

	// UpdateStatus changes the status of one of the caller's tasks and returns
	// the updated task.
	UpdateStatus(
		ctx context.Context,
		caller *domain.User,
		id uuid.UUID,
		status domain.TaskStatus,
	) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	db     store.TxBeginner
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(tasks store.TaskStore, db store.TxBeginner, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "tasks cannot be nil"}
	}
	if db == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		db:     db,
		logger: logger.With("component", "task_service"),
	}, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(
	ctx context.Context,
	caller *domain.User,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	if caller == nil {
		return nil, ErrMissingCaller
	}

	tasks, err := s.tasks.List(ctx, caller.ID, filter)
	if err != nil {
		attrs := []any{"user_id", caller.ID, "search", filter.Search}
		if filter.Status != nil {
			attrs = append(attrs, "status", string(*filter.Status))
		}
		s.logFailure(ctx, "list_tasks", err, attrs...)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// GetByID implements TaskService.GetByID
func (s *taskServiceImpl) GetByID(
	ctx context.Context,
	caller *domain.User,
	id uuid.UUID,
) (*domain.Task, error) {
	if caller == nil {
		return nil, ErrMissingCaller
	}

	task, err := s.tasks.GetByID(ctx, caller.ID, id)
	if err != nil {
		s.logFailure(ctx, "get_task", err, "user_id", caller.ID, "task_id", id)
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(
	ctx context.Context,
	caller *domain.User,
	title, description string,
) (*domain.Task, error) {
	if caller == nil {
		return nil, ErrMissingCaller
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(caller.ID, title, description)
	if err != nil {
		log.Debug("rejected task input", "error", err, "user_id", caller.ID)
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.logFailure(ctx, "create_task", err,
			"user_id", caller.ID,
			"title_length", len(task.Title),
			"description_length", len(task.Description))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created", "task_id", task.ID, "user_id", caller.ID)
	return task, nil
}

// DeleteByID implements TaskService.DeleteByID
func (s *taskServiceImpl) DeleteByID(ctx context.Context, caller *domain.User, id uuid.UUID) error {
	if caller == nil {
		return ErrMissingCaller
	}

	if err := s.tasks.Delete(ctx, caller.ID, id); err != nil {
		s.logFailure(ctx, "delete_task", err, "user_id", caller.ID, "task_id", id)
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		"task_id", id, "user_id", caller.ID)
	return nil
}

// UpdateStatus implements TaskService.UpdateStatus
// The ownership check, the update and the re-read run in one transaction.
func (s *taskServiceImpl) UpdateStatus(
	ctx context.Context,
	caller *domain.User,
	id uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if caller == nil {
		return nil, ErrMissingCaller
	}
	if _, err := domain.ParseTaskStatus(string(status)); err != nil {
		return nil, err
	}

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.tasks.WithTx(tx)

		task, err := txStore.GetByID(ctx, caller.ID, id)
		if err != nil {
			return err
		}

		if err := txStore.UpdateStatus(ctx, caller.ID, id, status); err != nil {
			return err
		}
		if err := task.UpdateStatus(status); err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "update_task_status", err,
			"user_id", caller.ID, "task_id", id, "status", string(status))
		return nil, NewTaskServiceError("update_task_status", "failed to update task status", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task status updated",
		"task_id", id, "user_id", caller.ID, "status", string(status))
	return updated, nil
}

// logFailure logs err at debug level for expected outcomes and at error level
// for everything else.
func (s *taskServiceImpl) logFailure(ctx context.Context, op string, err error, attrs ...any) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("operation", op)

	if errors.Is(err, store.ErrTaskNotFound) || errors.Is(err, domain.ErrValidation) {
		log.Debug("task operation rejected", append(attrs, "error", err.Error())...)
		return
	}

	log.Error("task operation failed", append(attrs, "error", redact.Error(err))...)
}
