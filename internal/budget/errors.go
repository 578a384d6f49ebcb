package budget

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAddBudget is returned when storage rejects a new category.
	ErrAddBudget = errors.New("failed to add budget")
	// ErrAddTransaction is returned when storage rejects a new transaction.
	ErrAddTransaction = errors.New("failed to add transaction")
)

// ValidationError describes malformed or missing user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// CategoryNotFoundError is returned when a transaction names a category
// that does not exist.
type CategoryNotFoundError struct {
	Name string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("budget category '%s' does not exist", e.Name)
}

// DuplicateCategoryError is returned when a category name is already taken.
type DuplicateCategoryError struct {
	Name string
}

func (e *DuplicateCategoryError) Error() string {
	return fmt.Sprintf("budget category '%s' already exists", e.Name)
}

// ColumnMismatchError is returned before any row is processed when an
// import file lacks required columns.
type ColumnMismatchError struct {
	Path     string
	Required []string
	Missing  []string
}

func (e *ColumnMismatchError) Error() string {
	return fmt.Sprintf("%s must contain the following columns: %s (missing: %s)",
		e.Path, strings.Join(e.Required, ", "), strings.Join(e.Missing, ", "))
}

// ImportError aborts a bulk import at the first failing row. Rows before
// it have already been committed.
type ImportError struct {
	Path     string
	Row      int // 1-based file line, header is row 1
	Imported int
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s row %d: %v (%d rows imported before failure)", e.Path, e.Row, e.Err, e.Imported)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ReportError aborts report generation when a category cannot be resolved.
type ReportError struct {
	Category string
	Err      error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("resolving budget category '%s': %v", e.Category, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// requireColumns returns the entries of required absent from has.
func requireColumns(required []string, has func(string) bool) []string {
	var missing []string
	for _, col := range required {
		if !has(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
