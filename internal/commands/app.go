package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/activitylog"
	"github.com/pennywise-dev/pennywise/internal/budget"
	"github.com/pennywise-dev/pennywise/internal/config"
	"github.com/pennywise-dev/pennywise/internal/logging"
	"github.com/pennywise-dev/pennywise/internal/storage"
	"github.com/pennywise-dev/pennywise/internal/tabular"
)

// app holds the settings resolved once per invocation and shared by every
// command.
type app struct {
	configPath string
	dbPath     string
	logLevel   string

	cfg *config.Config
}

// load resolves configuration with precedence defaults < file < env < flags
// and installs the logger. An explicitly named config file must exist.
// Relative paths from the file are taken relative to the file itself.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	switch {
	case err == nil:
		cfg.ResolvePaths(filepath.Dir(a.configPath))
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	default:
		return err
	}

	cfg.ApplyEnv()
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logging.Setup(cmd.ErrOrStderr(), level)

	a.cfg = cfg
	slog.Debug("Configuration loaded", "config", a.configPath, "db", cfg.Database.Path)
	return nil
}

// session opens the database once, runs fn with an engine bound to it and
// writes whatever fn recorded to the activity log.
func (a *app) session(cmd *cobra.Command, fn func(*budget.Engine, *activitylog.Recorder) error) error {
	ctx := cmd.Context()

	store, err := storage.Open(ctx, a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	eng := budget.NewWithStore(store, tabular.Codec{Comma: a.cfg.Delimiter()})
	rec := activitylog.NewRecorder(a.cfg.Log.ActivityFile)
	slog.DebugContext(ctx, "Session started", "run_id", rec.RunID(), "db", a.cfg.Database.Path)

	runErr := fn(eng, rec)
	if err := rec.Flush(); err != nil {
		slog.WarnContext(ctx, "Failed to write activity log", "path", a.cfg.Log.ActivityFile, "error", err)
	}
	return runErr
}
