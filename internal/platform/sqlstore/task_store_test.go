package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/store"
	"github.com/phrazzld/taskman-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskFixture struct {
	users *UserStore
	tasks *TaskStore
	alice *domain.User
	bob   *domain.User
}

func newTaskFixture(t *testing.T) taskFixture {
	t.Helper()
	db := testdb.GetTestDB(t)
	f := taskFixture{
		users: NewUserStore(db, testLogger()),
		tasks: NewTaskStore(db, testLogger()),
	}
	f.alice = mustCreateUser(t, f.users, "alice")
	f.bob = mustCreateUser(t, f.users, "bob_b")
	return f
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }

func TestTaskStore_CreateAndGet(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	created := mustCreateTask(t, f.tasks, f.alice.ID, "Buy milk", "2 liters", 0)

	got, err := f.tasks.GetByID(ctx, f.alice.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, f.alice.ID, got.UserID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2 liters", got.Description)
	assert.Equal(t, domain.TaskStatusOpen, got.Status)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestTaskStore_OwnershipIsolation(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task := mustCreateTask(t, f.tasks, f.alice.ID, "Alice only", "", 0)

	_, err := f.tasks.GetByID(ctx, f.bob.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	err = f.tasks.UpdateStatus(ctx, f.bob.ID, task.ID, domain.TaskStatusDone)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	err = f.tasks.Delete(ctx, f.bob.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	bobs, err := f.tasks.List(ctx, f.bob.ID, store.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, bobs)

	// Alice's task is untouched by Bob's attempts
	got, err := f.tasks.GetByID(ctx, f.alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusOpen, got.Status)
}

func TestTaskStore_CreateUnknownOwner(t *testing.T) {
	f := newTaskFixture(t)

	task, err := domain.NewTask(uuid.New(), "Orphan", "")
	require.NoError(t, err)

	err = f.tasks.Create(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestTaskStore_CreateInvalidTask(t *testing.T) {
	f := newTaskFixture(t)

	task := &domain.Task{
		ID:     uuid.New(),
		UserID: f.alice.ID,
		Title:  "   ",
		Status: domain.TaskStatusOpen,
	}
	err := f.tasks.Create(context.Background(), task)
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestTaskStore_List(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	mustCreateTask(t, f.tasks, f.alice.ID, "Write report", "quarterly numbers", 0)
	groceries := mustCreateTask(t, f.tasks, f.alice.ID, "Groceries", "buy MILK and eggs", time.Minute)
	mustCreateTask(t, f.tasks, f.alice.ID, "Call mom", "", 2*time.Minute)
	mustCreateTask(t, f.tasks, f.bob.ID, "Bob milk", "milk", 3*time.Minute)
	require.NoError(t, f.tasks.UpdateStatus(ctx, f.alice.ID, groceries.ID, domain.TaskStatusDone))

	tests := []struct {
		name   string
		filter store.TaskFilter
		want   []string
	}{
		{
			name:   "no filter returns all owned tasks oldest first",
			filter: store.TaskFilter{},
			want:   []string{"Write report", "Groceries", "Call mom"},
		},
		{
			name:   "status filter",
			filter: store.TaskFilter{Status: statusPtr(domain.TaskStatusOpen)},
			want:   []string{"Write report", "Call mom"},
		},
		{
			name:   "search matches description case-insensitively",
			filter: store.TaskFilter{Search: "milk"},
			want:   []string{"Groceries"},
		},
		{
			name:   "search matches title case-insensitively",
			filter: store.TaskFilter{Search: "REPORT"},
			want:   []string{"Write report"},
		},
		{
			name:   "status and search combine with AND",
			filter: store.TaskFilter{Status: statusPtr(domain.TaskStatusOpen), Search: "milk"},
			want:   []string{},
		},
		{
			name:   "search with no match",
			filter: store.TaskFilter{Search: "zebra"},
			want:   []string{},
		},
		{
			name:   "LIKE wildcards are matched literally",
			filter: store.TaskFilter{Search: "%"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.tasks.List(ctx, f.alice.ID, tt.filter)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestTaskStore_SearchEscapesUnderscore(t *testing.T) {
	f := newTaskFixture(t)

	mustCreateTask(t, f.tasks, f.alice.ID, "snake_case rename", "", 0)
	mustCreateTask(t, f.tasks, f.alice.ID, "snakeXcase", "", time.Minute)

	got, err := f.tasks.List(context.Background(), f.alice.ID, store.TaskFilter{Search: "e_c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"snake_case rename"}, titles(got))
}

func TestTaskStore_SearchFoldsNonASCII(t *testing.T) {
	f := newTaskFixture(t)

	mustCreateTask(t, f.tasks, f.alice.ID, "Ärger mit Bank", "", 0)
	mustCreateTask(t, f.tasks, f.alice.ID, "Post", "ÉTÉ abholen", time.Minute)
	mustCreateTask(t, f.tasks, f.alice.ID, "Arger", "", 2*time.Minute)

	tests := []struct {
		search string
		want   []string
	}{
		{search: "Ärger", want: []string{"Ärger mit Bank"}},
		{search: "ärger", want: []string{"Ärger mit Bank"}},
		{search: "ÄRGER", want: []string{"Ärger mit Bank"}},
		{search: "été", want: []string{"Post"}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got, err := f.tasks.List(context.Background(), f.alice.ID, store.TaskFilter{Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestTaskStore_UpdateStatus(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task := mustCreateTask(t, f.tasks, f.alice.ID, "Ship it", "", 0)

	require.NoError(t, f.tasks.UpdateStatus(ctx, f.alice.ID, task.ID, domain.TaskStatusInProgress))

	got, err := f.tasks.GetByID(ctx, f.alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, got.Status)
	assert.True(t, got.UpdatedAt.After(task.UpdatedAt))

	err = f.tasks.UpdateStatus(ctx, f.alice.ID, task.ID, domain.TaskStatus("FINISHED"))
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

	err = f.tasks.UpdateStatus(ctx, f.alice.ID, uuid.New(), domain.TaskStatusDone)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_Delete(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task := mustCreateTask(t, f.tasks, f.alice.ID, "Temporary", "", 0)

	require.NoError(t, f.tasks.Delete(ctx, f.alice.ID, task.ID))

	_, err := f.tasks.GetByID(ctx, f.alice.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	err = f.tasks.Delete(ctx, f.alice.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_WithTxRollsBack(t *testing.T) {
	db := testdb.GetTestDB(t)
	users := NewUserStore(db, testLogger())
	tasks := NewTaskStore(db, testLogger())
	alice := mustCreateUser(t, users, "alice")

	var taskID uuid.UUID
	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		taskID = mustCreateTask(t, tasks.WithTx(tx), alice.ID, "In tx", "", 0).ID
	})

	_, err := tasks.GetByID(context.Background(), alice.ID, taskID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_DatabaseErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	tasks := NewTaskStore(db, testLogger())
	ctx := context.Background()
	dbErr := errors.New("connection refused")

	mock.ExpectQuery("SELECT id, user_id").WillReturnError(dbErr)
	_, err = tasks.List(ctx, uuid.New(), store.TaskFilter{})
	assert.ErrorIs(t, err, dbErr)

	mock.ExpectQuery("SELECT id, user_id").WillReturnError(dbErr)
	_, err = tasks.GetByID(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, store.IsNotFoundError(err))

	mock.ExpectExec("UPDATE tasks").WillReturnError(dbErr)
	err = tasks.UpdateStatus(ctx, uuid.New(), uuid.New(), domain.TaskStatusDone)
	assert.ErrorIs(t, err, dbErr)

	mock.ExpectExec("DELETE FROM tasks").WillReturnError(dbErr)
	err = tasks.Delete(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, dbErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStore_ListQueryShape(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	tasks := NewTaskStore(db, testLogger())
	userID := uuid.New()

	mock.ExpectQuery(`SELECT id, user_id, title, description, status, created_at, updated_at FROM tasks` +
		` WHERE user_id = $1 AND status = $2` +
		` AND (LOWER(title) LIKE LOWER($3) ESCAPE '\' OR LOWER(description) LIKE LOWER($3) ESCAPE '\')` +
		` ORDER BY created_at ASC, id ASC`).
		WithArgs(userID, "DONE", `%50\% OFF%`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "description", "status", "created_at", "updated_at",
		}))

	got, err := tasks.List(context.Background(), userID, store.TaskFilter{
		Status: statusPtr(domain.TaskStatusDone),
		Search: "50% OFF",
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
