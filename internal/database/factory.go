package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/langexch/langexch/internal/config"
)

// Constructor builds an unconnected provider from its configuration
type Constructor func(cfg config.DatabaseConfig) Provider

// Factory resolves provider names to implementations. The first provider it
// opens is kept and returned by later calls for the same name; asking for a
// different name afterwards fails with ErrProviderMismatch.
type Factory struct {
	mu           sync.Mutex
	constructors map[string]Constructor
	opened       Provider
}

// NewFactory creates a factory with the built-in postgres and sqlite providers registered
func NewFactory() *Factory {
	f := &Factory{constructors: make(map[string]Constructor)}
	f.Register(ProviderPostgres, NewPostgres)
	f.Register(ProviderSQLite, NewSQLite)
	return f
}

// Register adds or replaces the constructor for name
func (f *Factory) Register(name string, c Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[name] = c
}

// Providers returns the registered provider names in sorted order
func (f *Factory) Providers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.constructors))
	for name := range f.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs and connects the provider named by cfg.Provider
func (f *Factory) Open(ctx context.Context, cfg config.DatabaseConfig) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.opened != nil {
		if f.opened.Name() != cfg.Provider {
			return nil, fmt.Errorf("%w: %s is open, %s requested", ErrProviderMismatch, f.opened.Name(), cfg.Provider)
		}
		return f.opened, nil
	}

	constructor, ok := f.constructors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	provider := constructor(cfg)
	if err := provider.Connect(ctx); err != nil {
		return nil, err
	}

	log.Info().Str("provider", provider.Name()).Msg("Database provider connected")

	f.opened = provider
	return provider, nil
}
