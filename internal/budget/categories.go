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

// Budget import file columns.
const (
	ColName   = "name"
	ColAmount = "amount"
)

// CategoryColumns are the required columns of a budget import file.
var CategoryColumns = []string{ColName, ColAmount}

// CreateCategory validates and stores a new budget category.
func (e *Engine) CreateCategory(ctx context.Context, name string, amount float64) (string, error) {
	var msg string
	err := e.withStore(ctx, func(s *storage.Store) error {
		var err error
		msg, err = createCategory(ctx, s, name, amount)
		return err
	})
	return msg, err
}

func createCategory(ctx context.Context, s *storage.Store, name string, amount float64) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", invalid("name", "budget name cannot be empty")
	}
	// Written as a negation so NaN is rejected too.
	if !(amount > 0) {
		return "", invalid("amount", "budget amount must be greater than zero")
	}

	_, exists, err := s.CategoryIDByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("checking budget %q: %w", name, err)
	}
	if exists {
		return "", &DuplicateCategoryError{Name: name}
	}

	if _, err := s.InsertCategory(ctx, name, amount); err != nil {
		if errors.Is(err, storage.ErrWriteFailed) {
			return "", ErrAddBudget
		}
		return "", err
	}

	slog.DebugContext(ctx, "Budget category created", "name", name, "amount", amount)
	return fmt.Sprintf("Budget '%s' with amount %s added successfully.", name, formatAmount(amount)), nil
}

// CreateCategoriesFromFile creates one category per row of the file at
// path, in file order. The file must have "name" and "amount" columns.
func (e *Engine) CreateCategoriesFromFile(ctx context.Context, path string) (string, error) {
	table, err := e.files.Read(path)
	if err != nil {
		return "", fmt.Errorf("reading budgets file: %w", err)
	}
	if missing := requireColumns(CategoryColumns, table.Has); len(missing) > 0 {
		return "", &ColumnMismatchError{Path: path, Required: CategoryColumns, Missing: missing}
	}

	err = e.withStore(ctx, func(s *storage.Store) error {
		for i, rec := range table.Records {
			_, err := createCategoryRecord(ctx, s, rec[ColName], rec[ColAmount])
			if err != nil {
				return &ImportError{Path: path, Row: i + 2, Imported: i, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "Budget import aborted", "path", path, "error", err)
		return "", err
	}

	slog.InfoContext(ctx, "Budget import complete", "path", path, "rows", len(table.Records))
	return "All budget categories from the file added successfully.", nil
}

func createCategoryRecord(ctx context.Context, s *storage.Store, name, rawAmount string) (string, error) {
	// Name is checked first so an empty name wins over a bad amount.
	if strings.TrimSpace(name) == "" {
		return "", invalid("name", "budget name cannot be empty")
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return "", err
	}
	return createCategory(ctx, s, name, amount)
}

// Categories returns all categories in storage order.
func (e *Engine) Categories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	err := e.withStore(ctx, func(s *storage.Store) error {
		var err error
		cats, err = s.Categories(ctx)
		return err
	})
	return cats, err
}
