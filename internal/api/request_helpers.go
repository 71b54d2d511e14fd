package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/service"
	"github.com/phrazzld/taskman-api/internal/store"
)

// Query parameters accepted by the task listing.
const (
	queryStatus = "status"
	querySearch = "search"
)

// getCaller returns the authenticated user placed in the request context by
// the authentication middleware. It writes a 401 and returns false when the
// route was mounted without that middleware.
func getCaller(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		log.Warn("authenticated user not found in request context")
		HandleAPIError(w, r, service.ErrMissingCaller, "")
		return nil, false
	}
	return user, true
}

// getPathUUID extracts a UUID from the URL path parameters.
// A missing or malformed value returns notFound, so a syntactically invalid id
// looks exactly like an id that does not exist.
func getPathUUID(r *http.Request, paramName string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// handleCallerAndPathUUID is a composite helper that extracts both the caller
// from context and a UUID from the path parameters. It writes an error
// response if either extraction fails.
func handleCallerAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	notFound error,
	log *slog.Logger,
) (*domain.User, uuid.UUID, bool) {
	caller, ok := getCaller(w, r, log)
	if !ok {
		return nil, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName, notFound)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}

	return caller, id, true
}

// parseTaskFilter builds a store.TaskFilter from the status and search query
// parameters. An unknown status is a validation error.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	query := r.URL.Query()
	filter := store.TaskFilter{Search: query.Get(querySearch)}

	if raw := query.Get(queryStatus); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return store.TaskFilter{}, err
		}
		filter.Status = &status
	}

	return filter, nil
}
