package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/budget"
	"github.com/pennywise-dev/pennywise/internal/config"
	"github.com/pennywise-dev/pennywise/internal/storage"
	"github.com/pennywise-dev/pennywise/internal/tabular"
)

func newInitCommand() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new pennywise project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, delimiter)
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "field separator for import and report files")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, delimiter string) error {
	cfgPath := filepath.Join(dir, config.DefaultFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Paths in the config are relative to the project directory.
	cfg := config.Default()
	cfg.Files.Delimiter = delimiter
	cfg.Log.ActivityFile = filepath.Join("logs", "activity.csv")
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, d := range []string{"logs", "templates", "reports"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Create the database and its schema.
	store, err := storage.Open(ctx, filepath.Join(dir, cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	// Write header-only import templates.
	codec := tabular.Codec{Comma: cfg.Delimiter()}
	templates := map[string][]string{
		"budgets.csv":      budget.CategoryColumns,
		"transactions.csv": budget.TransactionColumns,
	}
	for name, columns := range templates {
		if err := codec.Write(filepath.Join(dir, "templates", name), nil, columns); err != nil {
			return fmt.Errorf("writing template %s: %w", name, err)
		}
	}

	fmt.Fprintf(out, "Initialized pennywise project at %s\n", dir)
	return nil
}
