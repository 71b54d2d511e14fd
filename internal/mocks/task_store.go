package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. Its default behavior
// mirrors the SQL store: every lookup is scoped to the owning user.
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error)
	ListFn         func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateStatusFn func(ctx context.Context, userID, id uuid.UUID, status domain.TaskStatus) error
	DeleteFn       func(ctx context.Context, userID, id uuid.UUID) error

	// WithTxCalls counts WithTx invocations.
	WithTxCalls int

	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

// Ensure MockTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a mock store with an empty task table.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

// Len returns the number of tasks in the default in-memory table.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	found := *task
	return &found, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(filter.Search)
	result := make([]*domain.Task, 0)
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			continue
		}
		found := *task
		result = append(result, &found)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateStatus implements the TaskStore interface
func (m *MockTaskStore) UpdateStatus(
	ctx context.Context,
	userID, id uuid.UUID,
	status domain.TaskStatus,
) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, userID, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// WithTx implements the TaskStore interface and returns the same mock.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}
