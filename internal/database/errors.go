package database

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProvider is returned when no provider is registered under a name
	ErrUnknownProvider = errors.New("unknown database provider")
	// ErrProviderMismatch is returned when a factory that already opened one provider is asked for another
	ErrProviderMismatch = errors.New("a different database provider is already open")
	// ErrNotConnected is returned by operations invoked before Connect
	ErrNotConnected = errors.New("database provider is not connected")
)

// ConnectionError reports a network or authentication failure while connecting
type ConnectionError struct {
	Provider string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: failed to connect: %v", e.Provider, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StorageError wraps a driver failure raised while executing a statement
type StorageError struct {
	Provider string
	Op       string
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
