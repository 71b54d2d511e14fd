// Package service holds the application services that sit between the HTTP
// handlers and the stores.
//
// TaskService implements per-user task management. Every method takes the
// authenticated caller explicitly; the caller's ID scopes every store call,
// so a task owned by someone else is reported exactly like a missing one.
//
// Expected conditions surface as sentinel errors (ErrTaskNotFound,
// ErrMissingCaller, and the domain validation errors). Anything else is
// logged and returned as a *TaskServiceError, which the API layer maps to a
// generic 500 response.
package service
