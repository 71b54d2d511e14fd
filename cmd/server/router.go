package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/taskman-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskman-api/internal/api/middleware"
)

const (
	defaultRequestTimeout = 15 * time.Second
	corsMaxAgeSeconds     = 300
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(app.requestTimeout()))

	// go-chi/cors treats an empty origin list as "*", so only mount it when
	// origins are configured.
	if origins := app.config.Server.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{apiMiddleware.TraceIDHeader},
			MaxAge:         corsMaxAgeSeconds,
		}))
	}

	authHandler := api.NewAuthHandler(app.authService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.authService)

	// Authentication endpoints (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Login)
		r.Post("/login", authHandler.Login)
	})

	// Protected routes
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/{"+api.TaskIDParam+"}", taskHandler.GetTask)
		r.Patch("/{"+api.TaskIDParam+"}/status", taskHandler.UpdateTaskStatus)
		r.Delete("/{"+api.TaskIDParam+"}", taskHandler.DeleteTask)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// requestTimeout bounds handler execution; it follows the server's write
// timeout when one is configured.
func (app *application) requestTimeout() time.Duration {
	if s := app.config.Server.WriteTimeoutSeconds; s > 0 {
		return time.Duration(s) * time.Second
	}
	return defaultRequestTimeout
}
