package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/database"
	"github.com/phrazzld/taskman-api/internal/testdb"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-that-is-at-least-32-characters-long"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "error",
			ReadTimeoutSeconds:     5,
			WriteTimeoutSeconds:    5,
			IdleTimeoutSeconds:     5,
			ShutdownTimeoutSeconds: 5,
		},
		Database: config.DatabaseConfig{
			Driver: database.DriverSQLite,
			URL:    ":memory:",
		},
		Auth: config.AuthConfig{
			JWTSecret:            testJWTSecret,
			TokenLifetimeMinutes: 60,
			BCryptCost:           4,
		},
	}
}

// newTestApp builds the full application on a private, migrated in-memory
// database. mutate may adjust the configuration first.
func newTestApp(t *testing.T, mutate func(*config.Config)) *application {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	app, err := newApplication(cfg, discardLogger(), testdb.GetSQLiteDB(t))
	require.NoError(t, err)
	return app
}

// newTestServer serves the application's router over a real HTTP listener.
func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(newTestApp(t, mutate).setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

// apiClient issues JSON requests against a test server, optionally as an
// authenticated user.
type apiClient struct {
	t       *testing.T
	baseURL string
	token   string
}

func newClient(t *testing.T, srv *httptest.Server) *apiClient {
	return &apiClient{t: t, baseURL: srv.URL}
}

// as returns a copy of the client that sends token as a bearer credential.
func (c *apiClient) as(token string) *apiClient {
	clone := *c
	clone.token = token
	return &clone
}

func (c *apiClient) do(method, path string, body interface{}) (*http.Response, []byte) {
	c.t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

// decode unmarshals a response body into v.
func decode(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v), "body: %s", data)
}

// signUpAndLogin registers username and returns an access token for it.
func (c *apiClient) signUpAndLogin(username string) string {
	c.t.Helper()

	creds := map[string]string{"username": username, "password": "password123"}

	resp, body := c.do(http.MethodPost, "/auth/signup", creds)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, "signup: %s", body)

	resp, body = c.do(http.MethodPost, "/auth/signin", creds)
	require.Equal(c.t, http.StatusOK, resp.StatusCode, "signin: %s", body)

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	decode(c.t, body, &login)
	require.NotEmpty(c.t, login.AccessToken)
	return login.AccessToken
}

// createTask creates a task as the client's user and returns its JSON form.
func (c *apiClient) createTask(title, description string) map[string]interface{} {
	c.t.Helper()

	resp, body := c.do(http.MethodPost, "/tasks", map[string]string{
		"title":       title,
		"description": description,
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, "create task: %s", body)

	var task map[string]interface{}
	decode(c.t, body, &task)
	return task
}
