package repository

import "context"

// RoleLookup resolves a caller's permission role from the persistence
// store. The store is opaque to this service: a key-value lookup that
// returns a role string, or domain.ErrNotFound.
type RoleLookup interface {
	RoleByUserID(ctx context.Context, userID string) (string, error)
}
