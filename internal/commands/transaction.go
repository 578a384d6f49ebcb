package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/activitylog"
	"github.com/pennywise-dev/pennywise/internal/budget"
)

func newTransactionCommand(a *app) *cobra.Command {
	txnCmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"txn"},
		Short:   "Record and list transactions",
	}
	txnCmd.AddCommand(
		newTransactionAddCommand(a),
		newTransactionImportCommand(a),
		newTransactionListCommand(a),
	)
	return txnCmd
}

func newTransactionAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <budget> <amount> <date> <description>",
		Short: "Record a transaction against a budget category",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(eng *budget.Engine, rec *activitylog.Recorder) error {
				msg, err := eng.AddTransaction(cmd.Context(), budget.TransactionParams{
					BudgetName:  args[0],
					Amount:      args[1],
					Date:        args[2],
					Description: args[3],
				})
				rec.Record(actionAddTransaction, args[0], msg, err)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
}

func newTransactionImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import transactions from a CSV file",
		Long: `Import transactions from a CSV file with budget_name, amount, date and
description columns. Rows are added in file order; the import stops at the
first bad row and keeps the rows added before it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(eng *budget.Engine, rec *activitylog.Recorder) error {
				msg, err := eng.AddTransactionsFromFile(cmd.Context(), args[0])
				rec.Record(actionAddTransactions, args[0], msg, err)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
}

func newTransactionListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <budget>",
		Short: "List the transactions of a budget category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(eng *budget.Engine, _ *activitylog.Recorder) error {
				txns, err := eng.Transactions(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(txns) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No transactions for '%s'.\n", args[0])
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tDESCRIPTION")
				for _, t := range txns {
					fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\n", t.ID, t.Date, t.Amount, t.Description)
				}
				return tw.Flush()
			})
		},
	}
}
