package sqlstore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/store"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustCreateUser(t *testing.T, users store.UserStore, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv1234567890abcdefghijklmnopqrstu",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

// mustCreateTask inserts a task whose creation time is offset from base so
// ordering is deterministic.
func mustCreateTask(
	t *testing.T,
	tasks store.TaskStore,
	userID uuid.UUID,
	title, description string,
	offset time.Duration,
) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, title, description)
	require.NoError(t, err)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	task.CreatedAt = base.Add(offset)
	task.UpdatedAt = task.CreatedAt
	require.NoError(t, tasks.Create(context.Background(), task))
	return task
}
