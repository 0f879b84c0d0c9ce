package storage

import (
	"context"
)

// RegistryStore defines the interface for persisting did -> endpoint
// registrations across process restarts.
type RegistryStore interface {
	// Upsert inserts or replaces the row for rec.DID.
	Upsert(ctx context.Context, rec *RegistryRecord) error

	// Get retrieves the row for did, including expired rows — callers
	// apply the same missing/expired/found classification the
	// in-memory registry uses.
	Get(ctx context.Context, did string) (*RegistryRecord, error)

	// Delete removes did's row, reporting whether one existed.
	Delete(ctx context.Context, did string) (bool, error)

	// DeleteExpired deletes all rows whose TTL has elapsed.
	DeleteExpired(ctx context.Context) (int64, error)

	// Count returns the total number of rows stored.
	Count(ctx context.Context) (int64, error)
}

// SessionStore defines the interface for persisting handshake sessions.
type SessionStore interface {
	// Create inserts a new session row.
	Create(ctx context.Context, rec *SessionRecord) error

	// Get retrieves a session by its internal id, including expired
	// rows — callers apply the TTL check themselves.
	Get(ctx context.Context, id string) (*SessionRecord, error)

	// Delete removes a session by id, reporting whether one existed.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteExpired deletes all expired sessions.
	DeleteExpired(ctx context.Context) (int64, error)

	// Count returns the total number of stored sessions.
	Count(ctx context.Context) (int64, error)
}

// Store combines the registry and session persistence backends.
type Store interface {
	RegistryStore() RegistryStore
	SessionStore() SessionStore

	// Close closes the storage connection
	Close() error

	// Ping checks the storage connection
	Ping(ctx context.Context) error
}
