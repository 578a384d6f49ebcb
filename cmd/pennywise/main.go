package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/pennywise-dev/pennywise/internal/commands"
)

func main() {
	// A missing .env is normal; the environment and config file still apply.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env", "error", err)
	}

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
