// Package storage persists budget categories and transactions in SQLite.
//
// The Store exposes typed primitives only; business rules live in the
// budget package. Every write is a single statement and is durable when the
// call returns.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/pennywise-dev/pennywise/internal/model"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrWriteFailed is returned when an insert is rejected by the database.
// The underlying cause is logged, not returned.
var ErrWriteFailed = errors.New("storage write failed")

// Store is a handle on the budgets database.
type Store struct {
	db    *sql.DB
	owned bool
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. The returned Store owns the connection.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: a single writer, and an in-memory database lives
	// only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, owned: true}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// FromDB wraps a database handle owned by the caller. Close on the returned
// Store does not close db, and the schema is not touched until EnsureSchema
// is called.
func FromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle, for tests and for callers that need raw
// SQL on the same connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the connection if the Store owns it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// CategoryIDByName returns the id of the first category named name.
func (s *Store) CategoryIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM budgets WHERE name = ? ORDER BY id LIMIT 1", name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get budget id for %q: %w", name, err)
	}
	return id, true, nil
}

// CategoryAmountByName returns the allotment of the first category named name.
func (s *Store) CategoryAmountByName(ctx context.Context, name string) (float64, bool, error) {
	var amount float64
	err := s.db.QueryRowContext(ctx,
		"SELECT amount FROM budgets WHERE name = ? ORDER BY id LIMIT 1", name,
	).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get budget amount for %q: %w", name, err)
	}
	return amount, true, nil
}

// InsertCategory appends a budget category and returns its id.
func (s *Store) InsertCategory(ctx context.Context, name string, amount float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO budgets (name, amount) VALUES (?, ?)", name, amount,
	)
	if err != nil {
		slog.ErrorContext(ctx, "Insert budget failed", "name", name, "amount", amount, "error", err)
		return 0, ErrWriteFailed
	}
	id, err := res.LastInsertId()
	if err != nil {
		slog.ErrorContext(ctx, "Read budget id failed", "name", name, "error", err)
		return 0, ErrWriteFailed
	}
	return id, nil
}

// InsertTransaction appends a transaction and returns its id. The referenced
// budget must exist; the foreign key is enforced by the database.
func (s *Store) InsertTransaction(ctx context.Context, txn model.Transaction) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions (budget_id, amount, date, description) VALUES (?, ?, ?, ?)",
		txn.BudgetID, txn.Amount, txn.Date, txn.Description,
	)
	if err != nil {
		slog.ErrorContext(ctx, "Insert transaction failed",
			"budget_id", txn.BudgetID,
			"amount", txn.Amount,
			"date", txn.Date,
			"error", err,
		)
		return 0, ErrWriteFailed
	}
	id, err := res.LastInsertId()
	if err != nil {
		slog.ErrorContext(ctx, "Read transaction id failed", "budget_id", txn.BudgetID, "error", err)
		return 0, ErrWriteFailed
	}
	return id, nil
}

// CategoryNames returns every category name in insertion order.
func (s *Store) CategoryNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM budgets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list budget names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan budget name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget names: %w", err)
	}
	return names, nil
}

// Categories returns every category in insertion order.
func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, amount FROM budgets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Amount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return cats, nil
}

// TransactionsForCategory returns the transactions recorded against a
// category, in insertion order.
func (s *Store) TransactionsForCategory(ctx context.Context, budgetID int64) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, budget_id, amount, date, COALESCE(description, '') FROM transactions WHERE budget_id = ? ORDER BY id",
		budgetID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions for budget %d: %w", budgetID, err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.BudgetID, &t.Amount, &t.Date, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}
