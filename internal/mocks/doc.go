// Package mocks provides centralized mock implementations for testing.
//
// Each mock has a function field per interface method. When a field is set
// it decides the behavior; otherwise the mock falls back to a small working
// default (an in-memory map for the stores, a reversible fake for the
// password hasher) so most tests only override the call they care about.
//
//	users := mocks.NewMockUserStore()
//	users.GetByUsernameFn = func(ctx context.Context, username string) (*domain.User, error) {
//	    return nil, errors.New("connection refused")
//	}
package mocks
