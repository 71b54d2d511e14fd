// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between external clients and
// the auth and task services, translating HTTP concerns to business
// operations and service errors back to status codes and safe messages.
//
// Routing lives in cmd/server; handlers here only assume that chi supplies
// URL parameters and that authenticated routes run behind
// middleware.AuthMiddleware.
package api
