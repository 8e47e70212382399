package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := New("/tmp/todo-test")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/todo-test", cfg.Dir)
	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Zero(t, cfg.API.Timeout)
	assert.Equal(t, filepath.Join("/tmp/todo-test", LocalDBFile), cfg.LocalPath())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`backend: local
api:
  base_url: https://tasks.example.com/tasks/v1
  timeout: 3s
local:
  path: /var/lib/todo/tasks.db
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), content, 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "https://tasks.example.com/tasks/v1", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/var/lib/todo/tasks.db", cfg.LocalPath())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("backend: local\n"), 0600))

	t.Setenv("TODO_BACKEND", "http")
	t.Setenv("TODO_API_BASE_URL", "http://127.0.0.1:9000/tasks/v1")
	t.Setenv("TODO_API_TIMEOUT", "750ms")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, "http://127.0.0.1:9000/tasks/v1", cfg.API.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.API.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("backend: [unclosed\n"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "backend", envKey("TODO_BACKEND"))
	assert.Equal(t, "api.base_url", envKey("TODO_API_BASE_URL"))
	assert.Equal(t, "local.path", envKey("TODO_LOCAL_PATH"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"local ignores url", func(c *Config) { c.Backend = BackendLocal; c.API.BaseURL = "" }, false},
		{"unknown backend", func(c *Config) { c.Backend = "ftp" }, true},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host/tasks" }, true},
		{"missing host", func(c *Config) { c.API.BaseURL = "http:///tasks" }, true},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := New(t.TempDir())
			require.NoError(t, err)
			tt.mutate(cfg)

			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestLogger_NilIsNop(t *testing.T) {
	cfg := &Config{}
	assert.NotNil(t, cfg.Logger())
}
