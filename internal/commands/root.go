package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pennywise-dev/pennywise/internal/activitylog"
	"github.com/pennywise-dev/pennywise/internal/budget"
	"github.com/pennywise-dev/pennywise/internal/buildinfo"
	"github.com/pennywise-dev/pennywise/internal/config"
)

// Action names recorded in the activity log.
const (
	actionAddBudget       = "add-budget"
	actionAddBudgetFile   = "add-budget-file"
	actionAddTransaction  = "add-transaction"
	actionAddTransactions = "add-transactions"
	actionReport          = "report"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}
	var flags batchFlags

	rootCmd := &cobra.Command{
		Use:   "pennywise",
		Short: "Personal budget tracking",
		Long: `Track budget categories and the transactions spent against them.

The flags on the root command may be combined; they run in the order
--add-budget, --add-budget-file, --add-transactions, --report, sharing one
database connection. A failing action does not stop the ones after it.`,
		Example: `  pennywise --add-budget Groceries,300
  pennywise --add-budget Health 250.0
  pennywise --add-budget-file budgets.csv --add-transactions txns.csv --report report.csv`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			// --add-budget NAME AMOUNT leaves the amount as the only positional.
			if len(flags.addBudget) == 1 && len(args) == 1 {
				return nil
			}
			return cobra.NoArgs(cmd, args)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.addBudget = append(flags.addBudget, args[0])
			}
			if flags.empty() {
				return cmd.Help()
			}
			return a.session(cmd, func(eng *budget.Engine, rec *activitylog.Recorder) error {
				return runBatch(cmd, eng, rec, flags)
			})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultFile, "config file")
	pf.StringVar(&a.dbPath, "db", "", "database path (overrides config and "+config.EnvDBPath+")")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	f := rootCmd.Flags()
	f.StringSliceVar(&flags.addBudget, "add-budget", nil, "add a budget category as NAME,AMOUNT or NAME AMOUNT")
	f.StringVar(&flags.budgetFile, "add-budget-file", "", "add budget categories from a CSV `FILE`")
	f.StringVar(&flags.transactionsFile, "add-transactions", "", "import transactions from a CSV `FILE`")
	f.StringVar(&flags.reportFile, "report", "", "generate a report to `OUT_FILE`")

	// --add_transactions and friends are accepted as spelled by older scripts.
	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.AddCommand(
		newInitCommand(),
		newCategoryCommand(a),
		newTransactionCommand(a),
		newReportCommand(a),
		newHistoryCommand(a),
	)

	return rootCmd
}

type batchFlags struct {
	addBudget        []string
	budgetFile       string
	transactionsFile string
	reportFile       string
}

func (f batchFlags) empty() bool {
	return len(f.addBudget) == 0 && f.budgetFile == "" && f.transactionsFile == "" && f.reportFile == ""
}

// runBatch runs every requested action in a fixed order. Each one prints a
// progress line and then its result, or its error on stderr.
func runBatch(cmd *cobra.Command, eng *budget.Engine, rec *activitylog.Recorder, f batchFlags) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var ran, failed int
	do := func(action, target, progress string, run func() (string, error)) {
		ran++
		fmt.Fprintln(out, progress)
		msg, err := run()
		rec.Record(action, target, msg, err)
		if err != nil {
			failed++
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(out, msg)
	}

	if len(f.addBudget) > 0 {
		name, rawAmount := splitBudgetPair(f.addBudget)
		do(actionAddBudget, name,
			fmt.Sprintf("Adding budget category: %s with amount: %s", name, rawAmount),
			func() (string, error) {
				if len(f.addBudget) != 2 {
					return "", fmt.Errorf("--add-budget expects NAME,AMOUNT, got %d values", len(f.addBudget))
				}
				amount, err := budget.ParseAmount(rawAmount)
				if err != nil {
					return "", err
				}
				return eng.CreateCategory(ctx, name, amount)
			})
	}
	if f.budgetFile != "" {
		do(actionAddBudgetFile, f.budgetFile,
			"Importing budget categories from: "+f.budgetFile,
			func() (string, error) { return eng.CreateCategoriesFromFile(ctx, f.budgetFile) })
	}
	if f.transactionsFile != "" {
		do(actionAddTransactions, f.transactionsFile,
			"Importing transactions from: "+f.transactionsFile,
			func() (string, error) { return eng.AddTransactionsFromFile(ctx, f.transactionsFile) })
	}
	if f.reportFile != "" {
		do(actionReport, f.reportFile,
			"Generating report to: "+f.reportFile,
			func() (string, error) { return eng.GenerateReport(ctx, f.reportFile) })
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d actions failed", failed, ran)
	}
	return nil
}

func splitBudgetPair(values []string) (name, amount string) {
	if len(values) > 0 {
		name = values[0]
	}
	if len(values) > 1 {
		amount = values[1]
	}
	return name, amount
}
