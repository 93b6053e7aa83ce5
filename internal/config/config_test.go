package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
database:
  provider: postgres
  host: db.internal
  port: 6543
  username: lang
  password: secret
  database: lang_exch
logging:
  file: /var/log/langexch/langexch.log
  level: debug
server:
  ip: 127.0.0.1
  port: 9090
  request_timeout: 5s
index:
  resync_schedule: "@every 1m"
`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "langexch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Provider)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "lang", cfg.Database.Username)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "@every 1m", cfg.Index.ResyncSchedule)

	// Values absent from the file keep their defaults
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 50, cfg.Logging.MaxSizeMB)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleConfig)

	t.Setenv("LANGEXCH_DB_HOST", "override.internal")
	t.Setenv("LANGEXCH_DB_PASSWORD", "from-env")
	t.Setenv("LANGEXCH_LOG_LEVEL", "warn")
	t.Setenv("LANGEXCH_SERVER_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "sqlite with path", mutate: func(c *Config) { c.Database.Provider = "sqlite" }, ok: true},
		{name: "sqlite without path", mutate: func(c *Config) {
			c.Database.Provider = "sqlite"
			c.Database.Path = ""
		}},
		{name: "missing provider", mutate: func(c *Config) { c.Database.Provider = "" }},
		{name: "postgres without host", mutate: func(c *Config) { c.Database.Host = "" }},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }},
		{name: "bad server port", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "bad bind ip", mutate: func(c *Config) { c.Server.IP = "localhost" }},
		{name: "bad subnet", mutate: func(c *Config) { c.Server.AllowSubnet = "10.0.0.0/99" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestServerConfig_AllowedNet(t *testing.T) {
	s := ServerConfig{}
	assert.Nil(t, s.AllowedNet())

	s.AllowSubnet = "192.168.1.0/24"
	require.NotNil(t, s.AllowedNet())
	assert.Equal(t, "192.168.1.0/24", s.AllowedNet().String())
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleConfig)

	var mu sync.Mutex
	var latest *Config

	w, err := NewWatcher(path, func(cfg *Config) {
		mu.Lock()
		latest = cfg
		mu.Unlock()
	})
	require.NoError(t, err)
	w.Start()
	t.Cleanup(w.Stop)

	updated := strings.Replace(sampleConfig, "level: debug", "level: error", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.Logging.Level == "error"
	}, 5*time.Second, 20*time.Millisecond)
}
