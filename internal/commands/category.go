package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/activitylog"
	"github.com/pennywise-dev/pennywise/internal/budget"
)

func newCategoryCommand(a *app) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"budget"},
		Short:   "Manage budget categories",
	}
	categoryCmd.AddCommand(
		newCategoryAddCommand(a),
		newCategoryImportCommand(a),
		newCategoryListCommand(a),
	)
	return categoryCmd
}

func newCategoryAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <amount>",
		Short: "Add a budget category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(eng *budget.Engine, rec *activitylog.Recorder) error {
				msg, err := addCategory(cmd, eng, args[0], args[1])
				rec.Record(actionAddBudget, args[0], msg, err)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
}

func addCategory(cmd *cobra.Command, eng *budget.Engine, name, rawAmount string) (string, error) {
	amount, err := budget.ParseAmount(rawAmount)
	if err != nil {
		return "", err
	}
	return eng.CreateCategory(cmd.Context(), name, amount)
}

func newCategoryImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add budget categories from a CSV file with name and amount columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(eng *budget.Engine, rec *activitylog.Recorder) error {
				msg, err := eng.CreateCategoriesFromFile(cmd.Context(), args[0])
				rec.Record(actionAddBudgetFile, args[0], msg, err)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
}

func newCategoryListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budget categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(eng *budget.Engine, _ *activitylog.Recorder) error {
				cats, err := eng.Categories(cmd.Context())
				if err != nil {
					return err
				}
				if len(cats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No budget categories.")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tAMOUNT")
				for _, c := range cats {
					fmt.Fprintf(tw, "%d\t%s\t%.2f\n", c.ID, c.Name, c.Amount)
				}
				return tw.Flush()
			})
		},
	}
}
