package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/redact"
	"github.com/phrazzld/taskman-api/internal/store"
)

const taskColumns = `id, user_id, title, description, status, created_at, updated_at`

// likeEscaper escapes LIKE metacharacters so search text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TaskStore implements the store.TaskStore interface on database/sql.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a TaskStore backed by db.
// If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.String("task_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTaskNotFound
		}

		log.Error("failed to fetch task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "get_by_id", "failed to query task", MapError(err))
	}

	return task, nil
}

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []any{userID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}

	if filter.Search != "" {
		// Both sides fold in SQL so column and term share one case mapping.
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		n := len(args)
		fmt.Fprintf(&sb,
			` AND (LOWER(title) LIKE LOWER($%d) ESCAPE '\' OR LOWER(description) LIKE LOWER($%d) ESCAPE '\')`,
			n, n)
	}

	sb.WriteString(` ORDER BY created_at ASC, id ASC`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", err)
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *TaskStore) UpdateStatus(
	ctx context.Context,
	userID, id uuid.UUID,
	status domain.TaskStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := domain.ParseTaskStatus(string(status)); err != nil {
		return err
	}

	query := `UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
	result, err := s.db.ExecContext(ctx, query, string(status), time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "update_status", "failed to update task", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for status update",
				slog.String("task_id", id.String()),
				slog.String("user_id", userID.String()))
		}
		return err
	}

	log.Debug("task status updated",
		slog.String("task_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task deleted",
		slog.String("task_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// WithTx implements store.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{
		db:     tx,
		logger: s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	return &task, nil
}
