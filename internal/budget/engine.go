// Package budget enforces the budgeting rules: input validation, category
// references, bulk imports and the spend-versus-budget report.
//
// Every operation returns a human-readable confirmation on success and a
// typed error otherwise. Bulk imports stop at the first failing row and do
// not roll back rows already written.
package budget

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pennywise-dev/pennywise/internal/storage"
	"github.com/pennywise-dev/pennywise/internal/tabular"
)

// Engine runs budget operations against a Store.
type Engine struct {
	store  *storage.Store // borrowed; nil means open one per call
	dbPath string
	files  tabular.Codec
}

// New returns an Engine that opens the database at dbPath for each call
// and closes it before returning.
func New(dbPath string, files tabular.Codec) *Engine {
	return &Engine{dbPath: dbPath, files: files}
}

// NewWithStore returns an Engine that uses store for every call. The caller
// keeps ownership and must close it.
func NewWithStore(store *storage.Store, files tabular.Codec) *Engine {
	return &Engine{store: store, files: files}
}

// withStore runs fn with the borrowed store, or with a store scoped to this
// call that is released on every exit path.
func (e *Engine) withStore(ctx context.Context, fn func(*storage.Store) error) error {
	if e.store != nil {
		return fn(e.store)
	}
	s, err := storage.Open(ctx, e.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()
	return fn(s)
}

// ParseAmount parses a user-supplied number. Surrounding whitespace is
// ignored. The text must be plain decimal notation; NaN, infinities and
// values beyond float64 range are rejected.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	// decimal checks the syntax only. Converting through it would expand
	// the exponent into a big integer, so the float comes from strconv,
	// which saturates to ±Inf at once.
	if _, err := decimal.NewFromString(s); err != nil {
		return 0, invalid("amount", "amount must be a valid number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, invalid("amount", "amount must be a valid number")
	}
	return f, nil
}

// formatAmount renders an amount for confirmation messages.
func formatAmount(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}
