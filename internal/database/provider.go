package database

import (
	"context"

	"github.com/langexch/langexch/internal/language"
)

// Provider is a storage backend for language records.
// Every write commits before returning success and never leaves an open transaction behind.
type Provider interface {
	language.Store

	// Name returns the registered provider name (e.g. "postgres")
	Name() string
	// Connect establishes the connection pool; failures are reported as *ConnectionError
	Connect(ctx context.Context) error
	// EnsureSchema creates the languages table when it does not exist
	EnsureSchema(ctx context.Context) error
	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error
	// Close releases all connections
	Close() error
}
