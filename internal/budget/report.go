package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pennywise-dev/pennywise/internal/model"
	"github.com/pennywise-dev/pennywise/internal/storage"
	"github.com/pennywise-dev/pennywise/internal/tabular"
)

// Report file columns, in output order.
const (
	ColBudgetAmount = "budget_amount"
	ColTotalSpent   = "total_spent"
	ColPercentSpent = "percent_spent"
)

// ReportColumns is the header of a generated report.
var ReportColumns = []string{ColBudgetName, ColBudgetAmount, ColTotalSpent, ColPercentSpent}

var errUnresolved = errors.New("category vanished during report")

// Report computes one row per category, in storage order.
func (e *Engine) Report(ctx context.Context) ([]model.ReportRow, error) {
	var rows []model.ReportRow
	err := e.withStore(ctx, func(s *storage.Store) error {
		var err error
		rows, err = buildReport(ctx, s)
		return err
	})
	return rows, err
}

func buildReport(ctx context.Context, s *storage.Store) ([]model.ReportRow, error) {
	names, err := s.CategoryNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	rows := make([]model.ReportRow, 0, len(names))
	for _, name := range names {
		id, ok, err := s.CategoryIDByName(ctx, name)
		if err == nil && !ok {
			err = errUnresolved
		}
		if err != nil {
			return nil, &ReportError{Category: name, Err: err}
		}
		amount, ok, err := s.CategoryAmountByName(ctx, name)
		if err == nil && !ok {
			err = errUnresolved
		}
		if err != nil {
			return nil, &ReportError{Category: name, Err: err}
		}

		txns, err := s.TransactionsForCategory(ctx, id)
		if err != nil {
			return nil, &ReportError{Category: name, Err: err}
		}

		total := sumAmounts(txns)
		rows = append(rows, model.ReportRow{
			BudgetName:   name,
			BudgetAmount: amount,
			TotalSpent:   total,
			PercentSpent: total / amount * 100,
		})
	}
	return rows, nil
}

// sumAmounts adds transaction amounts exactly and rounds once at the end,
// so the result does not depend on transaction order.
func sumAmounts(txns []model.Transaction) float64 {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(decimal.NewFromFloat(t.Amount))
	}
	return total.InexactFloat64()
}

// GenerateReport writes the report for every category to outputPath.
func (e *Engine) GenerateReport(ctx context.Context, outputPath string) (string, error) {
	rows, err := e.Report(ctx)
	if err != nil {
		return "", err
	}
	return e.WriteReport(ctx, outputPath, rows)
}

// WriteReport writes rows already computed by Report to outputPath.
func (e *Engine) WriteReport(ctx context.Context, outputPath string, rows []model.ReportRow) (string, error) {
	records := make([]tabular.Record, len(rows))
	for i, r := range rows {
		records[i] = tabular.Record{
			ColBudgetName:   r.BudgetName,
			ColBudgetAmount: formatNumber(r.BudgetAmount),
			ColTotalSpent:   formatNumber(r.TotalSpent),
			ColPercentSpent: formatNumber(r.PercentSpent),
		}
	}
	if err := e.files.Write(outputPath, records, ReportColumns); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	slog.InfoContext(ctx, "Report generated", "path", outputPath, "categories", len(rows))
	return fmt.Sprintf("Report written to %s.", outputPath), nil
}

// formatNumber renders the shortest decimal text that parses back to f.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
