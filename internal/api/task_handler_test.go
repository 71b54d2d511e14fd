package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/mocks"
	"github.com/phrazzld/taskman-api/internal/service"
	"github.com/phrazzld/taskman-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskTestEnv struct {
	router http.Handler
	tasks  *mocks.MockTaskStore
	dbMock sqlmock.Sqlmock
}

// newTaskTestEnv mounts the task routes behind a middleware that injects
// caller, standing in for the authentication middleware. A nil caller
// simulates a route mounted without authentication.
func newTaskTestEnv(t *testing.T, caller *domain.User) *taskTestEnv {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tasks := mocks.NewMockTaskStore()
	svc, err := service.NewTaskService(tasks, db, discardLogger())
	require.NoError(t, err)
	handler := NewTaskHandler(svc, discardLogger())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if caller != nil {
				r = r.WithContext(shared.WithUser(r.Context(), caller))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/tasks", handler.ListTasks)
	r.Post("/tasks", handler.CreateTask)
	r.Get("/tasks/{id}", handler.GetTask)
	r.Patch("/tasks/{id}/status", handler.UpdateTaskStatus)
	r.Delete("/tasks/{id}", handler.DeleteTask)

	return &taskTestEnv{router: r, tasks: tasks, dbMock: dbMock}
}

func (e *taskTestEnv) seed(t *testing.T, owner *domain.User, title, description string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(owner.ID, title, description)
	require.NoError(t, err)
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func (e *taskTestEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func newCaller(username string) *domain.User {
	return &domain.User{ID: uuid.New(), Username: username}
}

func decodeTasks(t *testing.T, rr *httptest.ResponseRecorder) []TaskResponse {
	t.Helper()

	var got []TaskResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	return got
}

func TestTaskHandler_ListTasks(t *testing.T) {
	t.Parallel()

	alice := newCaller("alice")
	bob := newCaller("bob")
	env := newTaskTestEnv(t, alice)

	buy := env.seed(t, alice, "Buy milk", "")
	report := env.seed(t, alice, "Write report", "quarterly MILK numbers")
	env.seed(t, bob, "Bob's milk", "")

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []uuid.UUID
	}{
		{name: "all own tasks", query: "", wantStatus: http.StatusOK, wantIDs: []uuid.UUID{buy.ID, report.ID}},
		{name: "search title or description", query: "?search=milk", wantStatus: http.StatusOK, wantIDs: []uuid.UUID{buy.ID, report.ID}},
		{name: "search is case-insensitive", query: "?search=REPORT", wantStatus: http.StatusOK, wantIDs: []uuid.UUID{report.ID}},
		{name: "status filter", query: "?status=DONE", wantStatus: http.StatusOK, wantIDs: []uuid.UUID{}},
		{name: "status and search", query: "?status=OPEN&search=buy", wantStatus: http.StatusOK, wantIDs: []uuid.UUID{buy.ID}},
		{name: "invalid status", query: "?status=FINISHED", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(http.MethodGet, "/tasks"+tt.query, "")
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			got := decodeTasks(t, rr)
			gotIDs := make([]uuid.UUID, 0, len(got))
			for _, task := range got {
				id, err := uuid.Parse(task.ID)
				require.NoError(t, err)
				gotIDs = append(gotIDs, id)
			}
			assert.ElementsMatch(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestTaskHandler_ListTasks_EmptyIsArray(t *testing.T) {
	t.Parallel()

	env := newTaskTestEnv(t, newCaller("alice"))

	rr := env.do(http.MethodGet, "/tasks", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestTaskHandler_ListTasks_StoreFailure(t *testing.T) {
	t.Parallel()

	env := newTaskTestEnv(t, newCaller("alice"))
	env.tasks.ListFn = func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
		return nil, errors.New("connection reset by peer")
	}

	rr := env.do(http.MethodGet, "/tasks", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to list tasks")
	assert.NotContains(t, rr.Body.String(), "connection reset")
}

func TestTaskHandler_MissingCaller(t *testing.T) {
	t.Parallel()

	env := newTaskTestEnv(t, nil)

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodGet, "/tasks", ""},
		{http.MethodPost, "/tasks", `{"title":"x"}`},
		{http.MethodGet, "/tasks/" + uuid.NewString(), ""},
		{http.MethodPatch, "/tasks/" + uuid.NewString() + "/status", `{"status":"DONE"}`},
		{http.MethodDelete, "/tasks/" + uuid.NewString(), ""},
	} {
		rr := env.do(tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.target)
	}
}

func TestTaskHandler_CreateTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "title and description", body: `{"title":"Buy milk","description":"2 litres"}`, wantStatus: http.StatusCreated},
		{name: "title only", body: `{"title":"Buy milk"}`, wantStatus: http.StatusCreated},
		{name: "missing title", body: `{"description":"2 litres"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid title: required field"},
		{name: "blank title", body: `{"title":"   "}`, wantStatus: http.StatusBadRequest, wantError: "Invalid title: required field"},
		{
			name:       "title too long",
			body:       `{"title":"` + strings.Repeat("a", domain.MaxTitleLength+1) + `"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid title: at most 200 characters",
		},
		{name: "malformed json", body: `{"title":`, wantStatus: http.StatusBadRequest, wantError: "Invalid request format"},
		{name: "trailing data", body: `{"title":"a"}{"title":"b"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid request format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newCaller("alice")
			env := newTaskTestEnv(t, caller)

			rr := env.do(http.MethodPost, "/tasks", tt.body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			if tt.wantError != "" {
				var resp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.wantError, resp.Error)
				assert.Zero(t, env.tasks.Len())
				return
			}

			var got map[string]interface{}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.Equal(t, "Buy milk", got["title"])
			assert.Equal(t, "OPEN", got["status"])
			assert.NotContains(t, got, "user")
			assert.NotContains(t, got, "userId")
			assert.NotContains(t, got, "user_id")
			assert.Equal(t, 1, env.tasks.Len())
		})
	}
}

func TestTaskHandler_GetTask(t *testing.T) {
	t.Parallel()

	alice := newCaller("alice")
	bob := newCaller("bob")
	env := newTaskTestEnv(t, alice)

	own := env.seed(t, alice, "Mine", "")
	foreign := env.seed(t, bob, "Not mine", "")

	t.Run("own task", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/tasks/"+own.ID.String(), "")
		require.Equal(t, http.StatusOK, rr.Code)

		var got TaskResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, own.ID.String(), got.ID)
		assert.Equal(t, "Mine", got.Title)
	})

	notFound := map[string]string{
		"other user's task": foreign.ID.String(),
		"unknown id":        uuid.NewString(),
		"malformed id":      "not-a-uuid",
	}
	for name, id := range notFound {
		t.Run(name, func(t *testing.T) {
			rr := env.do(http.MethodGet, "/tasks/"+id, "")
			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.Contains(t, rr.Body.String(), "Task not found")
			assert.NotContains(t, rr.Body.String(), "Not mine")
		})
	}
}

func TestTaskHandler_UpdateTaskStatus(t *testing.T) {
	t.Parallel()

	alice := newCaller("alice")
	bob := newCaller("bob")

	t.Run("own task", func(t *testing.T) {
		env := newTaskTestEnv(t, alice)
		task := env.seed(t, alice, "Mine", "")
		env.dbMock.ExpectBegin()
		env.dbMock.ExpectCommit()

		rr := env.do(http.MethodPatch, "/tasks/"+task.ID.String()+"/status", `{"status":"IN_PROGRESS"}`)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var got TaskResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "IN_PROGRESS", got.Status)
		assert.NoError(t, env.dbMock.ExpectationsWereMet())

		stored, err := env.tasks.GetByID(context.Background(), alice.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusInProgress, stored.Status)
	})

	t.Run("other user's task", func(t *testing.T) {
		env := newTaskTestEnv(t, alice)
		task := env.seed(t, bob, "Not mine", "")
		env.dbMock.ExpectBegin()
		env.dbMock.ExpectRollback()

		rr := env.do(http.MethodPatch, "/tasks/"+task.ID.String()+"/status", `{"status":"DONE"}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.NoError(t, env.dbMock.ExpectationsWereMet())

		stored, err := env.tasks.GetByID(context.Background(), bob.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusOpen, stored.Status)
	})

	t.Run("malformed id", func(t *testing.T) {
		env := newTaskTestEnv(t, alice)

		rr := env.do(http.MethodPatch, "/tasks/123/status", `{"status":"DONE"}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	invalid := map[string]string{
		"lowercase status": `{"status":"done"}`,
		"unknown status":   `{"status":"ARCHIVED"}`,
		"missing status":   `{}`,
	}
	for name, body := range invalid {
		t.Run(name, func(t *testing.T) {
			env := newTaskTestEnv(t, alice)
			task := env.seed(t, alice, "Mine", "")

			rr := env.do(http.MethodPatch, "/tasks/"+task.ID.String()+"/status", body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NoError(t, env.dbMock.ExpectationsWereMet(), "no transaction for invalid input")
		})
	}
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	t.Parallel()

	alice := newCaller("alice")
	bob := newCaller("bob")
	env := newTaskTestEnv(t, alice)

	own := env.seed(t, alice, "Mine", "")
	foreign := env.seed(t, bob, "Not mine", "")

	rr := env.do(http.MethodDelete, "/tasks/"+foreign.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 2, env.tasks.Len(), "another user's task must survive")

	rr = env.do(http.MethodDelete, "/tasks/"+own.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = env.do(http.MethodDelete, "/tasks/"+own.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "second delete of the same task")
}

func TestNewTaskHandler_NilDependenciesPanic(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewTaskHandler(nil, discardLogger()) })
}
