// Package store defines the persistence contracts for users and tasks and
// the sentinel errors implementations must return. Concrete SQL
// implementations live in internal/platform/sqlstore; in-memory fakes for
// tests live in internal/mocks.
//
// Task operations are always scoped by the owning user's ID, so callers
// cannot reach another user's rows through this interface.
package store
