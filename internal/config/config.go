package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/pennywise-dev/pennywise/internal/storage"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "pennywise.yaml"

// Environment variables that override file settings.
const (
	EnvDBPath      = "PENNYWISE_DB_PATH"
	EnvDelimiter   = "PENNYWISE_DELIMITER"
	EnvLogLevel    = "LOG_LEVEL"
	EnvActivityLog = "PENNYWISE_ACTIVITY_LOG"
)

// Config represents the top-level pennywise.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Files    FilesConfig    `yaml:"files"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// FilesConfig controls how import and report files are read and written.
type FilesConfig struct {
	Delimiter string `yaml:"delimiter"` // single character, e.g. "," or ";"
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level        string `yaml:"level"`
	ActivityFile string `yaml:"activity_file,omitempty"` // empty disables the activity log
}

// Load reads a pennywise.yaml file from disk. Fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "budget.db",
		},
		Files: FilesConfig{
			Delimiter: ",",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ResolvePaths makes relative file paths relative to base, normally the
// directory holding the config file.
func (c *Config) ResolvePaths(base string) {
	c.Database.Path = resolve(base, c.Database.Path)
	c.Log.ActivityFile = resolve(base, c.Log.ActivityFile)
}

func resolve(base, path string) string {
	if path == "" || path == storage.MemoryPath || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// ApplyEnv overrides fields from the environment. Unset or empty variables
// leave the current value alone.
func (c *Config) ApplyEnv() {
	c.Database.Path = getEnv(EnvDBPath, c.Database.Path)
	c.Files.Delimiter = getEnv(EnvDelimiter, c.Files.Delimiter)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.ActivityFile = getEnv(EnvActivityLog, c.Log.ActivityFile)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if utf8.RuneCountInString(c.Files.Delimiter) != 1 {
		problems = append(problems, fmt.Sprintf("invalid delimiter %q: must be a single character", c.Files.Delimiter))
	} else if r := c.Delimiter(); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		problems = append(problems, fmt.Sprintf("invalid delimiter %q", c.Files.Delimiter))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Delimiter returns the field separator as a rune, or ',' when unset.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Files.Delimiter)
	if r == utf8.RuneError && c.Files.Delimiter == "" {
		return ','
	}
	return r
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
