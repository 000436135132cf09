// Package sessions implements the ephemeral token-to-user mapping that backs
// bearer authentication. Entries expire on their own; a key that is absent is
// indistinguishable from one that was explicitly deleted, and both mean the
// token no longer authenticates anyone.
package sessions

import (
	"context"
	"time"
)

// Store is the session cache contract.
type Store interface {
	// Set maps token to userID for the given TTL.
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	// Get resolves a token to a user id, or common.ErrorNotFound when the
	// token is unknown or expired.
	Get(ctx context.Context, token string) (string, error)
	// Delete removes the session immediately (logout).
	Delete(ctx context.Context, token string) error
	// Ping reports whether the backing cache is reachable.
	Ping(ctx context.Context) error
}
