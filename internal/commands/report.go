package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pennywise-dev/pennywise/internal/activitylog"
	"github.com/pennywise-dev/pennywise/internal/budget"
	"github.com/pennywise-dev/pennywise/internal/model"
)

func newReportCommand(a *app) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "report <out_file>",
		Short: "Write spend versus budget per category to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.session(cmd, func(eng *budget.Engine, rec *activitylog.Recorder) error {
				ctx := cmd.Context()
				rows, err := eng.Report(ctx)
				var msg string
				if err == nil {
					msg, err = eng.WriteReport(ctx, args[0], rows)
				}
				rec.Record(actionReport, args[0], msg, err)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				if !summary {
					return nil
				}
				return printSummary(cmd, rows)
			})
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "also print the report")

	return cmd
}

func printSummary(cmd *cobra.Command, rows []model.ReportRow) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BUDGET\tAMOUNT\tSPENT\tPERCENT\t")
	for _, r := range rows {
		flag := ""
		if r.Overspent() {
			flag = "over budget"
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.1f%%\t%s\n", r.BudgetName, r.BudgetAmount, r.TotalSpent, r.PercentSpent, flag)
	}
	return tw.Flush()
}
