package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pennywise-dev/pennywise/internal/model"
	"github.com/pennywise-dev/pennywise/internal/storage"
)

// Transaction import file columns.
const (
	ColBudgetName  = "budget_name"
	ColDate        = "date"
	ColDescription = "description"
)

// TransactionColumns are the required columns of a transaction import file.
var TransactionColumns = []string{ColBudgetName, ColAmount, ColDate, ColDescription}

// TransactionParams holds the raw fields of one transaction as supplied by
// the user or an import file.
type TransactionParams struct {
	BudgetName  string
	Amount      string
	Date        string
	Description string
}

// AddTransaction validates and records a single transaction.
func (e *Engine) AddTransaction(ctx context.Context, params TransactionParams) (string, error) {
	var msg string
	err := e.withStore(ctx, func(s *storage.Store) error {
		var err error
		msg, err = addTransaction(ctx, s, params)
		return err
	})
	return msg, err
}

func addTransaction(ctx context.Context, s *storage.Store, p TransactionParams) (string, error) {
	if strings.TrimSpace(p.BudgetName) == "" {
		return "", invalid("budget_name", "budget name cannot be empty")
	}
	amount, err := ParseAmount(p.Amount)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(p.Date) == "" {
		return "", invalid("date", "date cannot be empty")
	}
	if strings.TrimSpace(p.Description) == "" {
		return "", invalid("description", "description cannot be empty")
	}

	budgetID, ok, err := s.CategoryIDByName(ctx, p.BudgetName)
	if err != nil {
		return "", fmt.Errorf("looking up budget %q: %w", p.BudgetName, err)
	}
	if !ok {
		return "", &CategoryNotFoundError{Name: p.BudgetName}
	}

	_, err = s.InsertTransaction(ctx, model.Transaction{
		BudgetID:    budgetID,
		Amount:      amount,
		Date:        p.Date,
		Description: p.Description,
	})
	if err != nil {
		if errors.Is(err, storage.ErrWriteFailed) {
			return "", ErrAddTransaction
		}
		return "", err
	}

	slog.DebugContext(ctx, "Transaction recorded", "budget", p.BudgetName, "amount", amount, "date", p.Date)
	return fmt.Sprintf("Transaction for budget '%s' on date %s with amount %s added successfully.",
		p.BudgetName, p.Date, formatAmount(amount)), nil
}

// AddTransactionsFromFile records one transaction per row of the file at
// path, in file order. The file must have budget_name, amount, date and
// description columns.
func (e *Engine) AddTransactionsFromFile(ctx context.Context, path string) (string, error) {
	table, err := e.files.Read(path)
	if err != nil {
		return "", fmt.Errorf("reading transactions file: %w", err)
	}
	if missing := requireColumns(TransactionColumns, table.Has); len(missing) > 0 {
		return "", &ColumnMismatchError{Path: path, Required: TransactionColumns, Missing: missing}
	}

	err = e.withStore(ctx, func(s *storage.Store) error {
		for i, rec := range table.Records {
			_, err := addTransaction(ctx, s, TransactionParams{
				BudgetName:  rec[ColBudgetName],
				Amount:      rec[ColAmount],
				Date:        rec[ColDate],
				Description: rec[ColDescription],
			})
			if err != nil {
				return &ImportError{Path: path, Row: i + 2, Imported: i, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "Transaction import aborted", "path", path, "error", err)
		return "", err
	}

	slog.InfoContext(ctx, "Transaction import complete", "path", path, "rows", len(table.Records))
	return "All transactions from the file added successfully.", nil
}

// Transactions returns the transactions recorded against the named category.
func (e *Engine) Transactions(ctx context.Context, budgetName string) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := e.withStore(ctx, func(s *storage.Store) error {
		id, ok, err := s.CategoryIDByName(ctx, budgetName)
		if err != nil {
			return fmt.Errorf("looking up budget %q: %w", budgetName, err)
		}
		if !ok {
			return &CategoryNotFoundError{Name: budgetName}
		}
		txns, err = s.TransactionsForCategory(ctx, id)
		return err
	})
	return txns, err
}
