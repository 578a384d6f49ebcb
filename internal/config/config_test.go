package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywise-dev/pennywise/internal/storage"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = "data/home.db"
	cfg.Files.Delimiter = ";"
	cfg.Log.ActivityFile = "activity.csv"

	path := filepath.Join(t.TempDir(), "pennywise.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "budget.db", cfg.Database.Path)
	assert.Equal(t, ",", cfg.Files.Delimiter)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.ActivityFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolvePaths(t *testing.T) {
	cfg := Default()
	cfg.Log.ActivityFile = "logs/activity.csv"
	cfg.ResolvePaths("/srv/budget")

	assert.Equal(t, filepath.Join("/srv/budget", "budget.db"), cfg.Database.Path)
	assert.Equal(t, filepath.Join("/srv/budget", "logs", "activity.csv"), cfg.Log.ActivityFile)

	cfg = Default()
	cfg.Database.Path = "/var/lib/pennywise.db"
	cfg.ResolvePaths("/srv/budget")
	assert.Equal(t, "/var/lib/pennywise.db", cfg.Database.Path)
	assert.Empty(t, cfg.Log.ActivityFile, "disabled activity log stays disabled")

	cfg = Default()
	cfg.ResolvePaths(".")
	assert.Equal(t, "budget.db", cfg.Database.Path)

	cfg = Default()
	cfg.Database.Path = storage.MemoryPath
	cfg.ResolvePaths("/srv/budget")
	assert.Equal(t, storage.MemoryPath, cfg.Database.Path)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pennywise.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: other.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.db", cfg.Database.Path)
	assert.Equal(t, ",", cfg.Files.Delimiter)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pennywise.yaml")
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "path: budget.db")
	assert.Contains(t, contents, "delimiter:")
	assert.Contains(t, contents, "level: info")
	assert.NotContains(t, contents, "activity_file")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDBPath, "/tmp/env.db")
	t.Setenv(EnvDelimiter, ";")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvActivityLog, "")

	cfg := Default()
	cfg.Log.ActivityFile = "from-file.csv"
	cfg.ApplyEnv()

	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
	assert.Equal(t, ";", cfg.Files.Delimiter)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "from-file.csv", cfg.Log.ActivityFile, "empty env var keeps file value")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"tab delimiter", func(c *Config) { c.Files.Delimiter = "\t" }, ""},
		{"upper level", func(c *Config) { c.Log.Level = "WARN" }, ""},
		{"empty path", func(c *Config) { c.Database.Path = " " }, "database path cannot be empty"},
		{"long delimiter", func(c *Config) { c.Files.Delimiter = ",," }, "must be a single character"},
		{"empty delimiter", func(c *Config) { c.Files.Delimiter = "" }, "must be a single character"},
		{"quote delimiter", func(c *Config) { c.Files.Delimiter = `"` }, "invalid delimiter"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level 'loud'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
	assert.Contains(t, err.Error(), "delimiter")
	assert.Contains(t, err.Error(), "log level")
}

func TestDelimiter(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ',', cfg.Delimiter())

	cfg.Files.Delimiter = ";"
	assert.Equal(t, ';', cfg.Delimiter())

	cfg.Files.Delimiter = ""
	assert.Equal(t, ',', cfg.Delimiter())
}
