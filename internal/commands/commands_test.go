package commands_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pennywise-dev/pennywise/internal/commands"
	"github.com/pennywise-dev/pennywise/internal/config"
)

// runPennywise executes the root command in-process and returns what it
// printed.
func runPennywise(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out, errOut bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// isolateEnv clears the variables that would otherwise override flags.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvDBPath, config.EnvDelimiter, config.EnvLogLevel, config.EnvActivityLog} {
		t.Setenv(key, "")
	}
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const (
	budgetsCSV = "name,amount\nFitness,400\nTravel,800\nEducation,600\n"

	transactionsCSV = "budget_name,amount,date,description\n" +
		"Fitness,100,2024-01-02,Gym membership\n" +
		"Fitness,150,2024-01-09,Running shoes\n" +
		"Travel,225,2024-02-14,Train tickets\n" +
		"Education,700,2024-03-01,Course fee\n" +
		"Education,500,2024-03-15,Books\n"

	expectedReport = "budget_name,budget_amount,total_spent,percent_spent\n" +
		"Fitness,400,250,62.5\n" +
		"Travel,800,225,28.125\n" +
		"Education,600,1200,200\n"
)
