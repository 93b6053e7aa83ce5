package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langexch/langexch/internal/config"
)

// stubProvider records connects and serves fixed data
type stubProvider struct {
	name       string
	connects   int
	connectErr error
}

func (s *stubProvider) Name() string { return s.name }
func (s *stubProvider) EnsureSchema(context.Context) error { return nil }
func (s *stubProvider) Ping(context.Context) error { return nil }
func (s *stubProvider) Close() error { return nil }
func (s *stubProvider) DeleteLanguage(context.Context, int64) error { return nil }

func (s *stubProvider) Connect(context.Context) error {
	s.connects++
	return s.connectErr
}

func (s *stubProvider) AddLanguage(context.Context, string) (int64, error) {
	return 7, nil
}

func (s *stubProvider) UpdateLanguage(context.Context, int64, string) error {
	return errors.New("read only")
}

func (s *stubProvider) GetLanguage(context.Context, int64) (string, error) {
	return "Hindi", nil
}

func (s *stubProvider) GetLanguages(context.Context) (map[int64]string, error) {
	return map[int64]string{7: "Hindi"}, nil
}

func TestFactory_BuiltinProviders(t *testing.T) {
	f := NewFactory()
	assert.Equal(t, []string{ProviderPostgres, ProviderSQLite}, f.Providers())
}

func TestFactory_UnknownProvider(t *testing.T) {
	f := NewFactory()

	_, err := f.Open(context.Background(), config.DatabaseConfig{Provider: "oracle"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestFactory_ReusesFirstProvider(t *testing.T) {
	stub := &stubProvider{name: "stub"}
	f := NewFactory()
	f.Register("stub", func(config.DatabaseConfig) Provider { return stub })

	ctx := context.Background()
	first, err := f.Open(ctx, config.DatabaseConfig{Provider: "stub"})
	require.NoError(t, err)
	second, err := f.Open(ctx, config.DatabaseConfig{Provider: "stub"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, stub.connects)

	_, err = f.Open(ctx, config.DatabaseConfig{Provider: ProviderSQLite, Path: "unused.db"})
	assert.ErrorIs(t, err, ErrProviderMismatch)
}

func TestFactory_ConnectFailureIsNotCached(t *testing.T) {
	stub := &stubProvider{name: "stub", connectErr: &ConnectionError{Provider: "stub", Err: errors.New("refused")}}
	f := NewFactory()
	f.Register("stub", func(config.DatabaseConfig) Provider { return stub })

	ctx := context.Background()
	_, err := f.Open(ctx, config.DatabaseConfig{Provider: "stub"})
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)

	stub.connectErr = nil
	p, err := f.Open(ctx, config.DatabaseConfig{Provider: "stub"})
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())
	assert.Equal(t, 2, stub.connects)
}

func TestFactory_OpensSQLite(t *testing.T) {
	f := NewFactory()
	p, err := f.Open(context.Background(), config.DatabaseConfig{
		Provider: ProviderSQLite,
		Path:     filepath.Join(t.TempDir(), "factory.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	assert.NoError(t, p.Ping(context.Background()))
}

type recordingObserver struct {
	ops     []string
	results []error
}

func (r *recordingObserver) ObserveStorage(provider, operation string, _ time.Duration, err error) {
	r.ops = append(r.ops, provider+"."+operation)
	r.results = append(r.results, err)
}

func TestInstrument(t *testing.T) {
	obs := &recordingObserver{}
	p := Instrument(&stubProvider{name: "stub"}, obs)
	ctx := context.Background()

	id, err := p.AddLanguage(ctx, "Hindi")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	assert.Error(t, p.UpdateLanguage(ctx, id, "Tamil"))

	assert.Equal(t, []string{"stub.add_language", "stub.update_language"}, obs.ops)
	assert.NoError(t, obs.results[0])
	assert.Error(t, obs.results[1])
	assert.Equal(t, "stub", p.Name())
}
