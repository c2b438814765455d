// Package store provides the SQLite budget table used as a budget source.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/prorata/internal/budget"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DB is a SQLite-backed budget table.
type DB struct {
	db *sql.DB
}

// Open opens or creates the budget database at the given path and brings
// its schema up to date.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening budget db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping budget db: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// All returns every stored budget ordered by year-month key.
func (d *DB) All(ctx context.Context) ([]budget.MonthlyBudget, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT year_month, amount FROM budgets ORDER BY year_month")
	if err != nil {
		return nil, fmt.Errorf("querying budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []budget.MonthlyBudget
	for rows.Next() {
		var b budget.MonthlyBudget
		if err := rows.Scan(&b.YearMonth, &b.Amount); err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Replace swaps the whole budget table for the given set in a single
// transaction. Callers validate the set first; the table's CHECK
// constraints reject anything that slips through.
func (d *DB) Replace(ctx context.Context, budgets []budget.MonthlyBudget) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM budgets"); err != nil {
		return fmt.Errorf("clearing budgets: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO budgets (year_month, amount, updated_at)
		VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, b := range budgets {
		if _, err := stmt.ExecContext(ctx, b.YearMonth, b.Amount, now); err != nil {
			return fmt.Errorf("inserting budget %s: %w", b.YearMonth, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored budgets.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM budgets").Scan(&count)
	return count, err
}
