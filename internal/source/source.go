// Package source provides the read-only budget sources the proration core
// draws its monthly figures from.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/config"
	"github.com/theirongolddev/prorata/internal/logging"
	"github.com/theirongolddev/prorata/internal/store"
)

// ErrUnknownSource is returned by Open for an unrecognised source kind.
var ErrUnknownSource = errors.New("unknown budget source")

// Reader retrieves all known monthly budgets.
type Reader interface {
	All(ctx context.Context) ([]budget.MonthlyBudget, error)
}

// Static serves a fixed budget listing.
type Static []budget.MonthlyBudget

// All implements Reader.
func (s Static) All(context.Context) ([]budget.MonthlyBudget, error) {
	return append([]budget.MonthlyBudget(nil), s...), nil
}

// Config reads the [budgets] table of the loaded configuration.
type Config struct {
	Cfg config.Config
}

// All implements Reader.
func (c Config) All(context.Context) ([]budget.MonthlyBudget, error) {
	return c.Cfg.MonthlyBudgets(), nil
}

// Opened is a Reader plus the cleanup its backing resource needs.
type Opened struct {
	Reader
	Kind  string
	Close func() error
}

// Open returns the Reader selected by cfg.General.Source.
func Open(cfg config.Config) (*Opened, error) {
	noop := func() error { return nil }

	switch cfg.General.Source {
	case config.SourceConfig, "":
		return &Opened{Reader: Config{Cfg: cfg}, Kind: config.SourceConfig, Close: noop}, nil

	case config.SourceFile:
		if cfg.General.BudgetsFile == "" {
			return nil, fmt.Errorf("source %q: no budgets file configured", config.SourceFile)
		}
		return &Opened{Reader: File{Path: cfg.General.BudgetsFile}, Kind: config.SourceFile, Close: noop}, nil

	case config.SourceSQLite:
		db, err := store.Open(cfg.General.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening budget database: %w", err)
		}
		return &Opened{Reader: db, Kind: config.SourceSQLite, Close: db.Close}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.General.Source)
	}
}

// Fetch reads every budget from r and validates the set.
func Fetch(ctx context.Context, r Reader) ([]budget.MonthlyBudget, error) {
	budgets, err := r.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading budgets: %w", err)
	}
	if err := Validate(budgets); err != nil {
		return nil, err
	}
	logging.Debug("budgets fetched", "count", len(budgets))
	return budgets, nil
}

// Validate rejects malformed year-month keys and negative amounts. All
// offending entries are reported together.
func Validate(budgets []budget.MonthlyBudget) error {
	var errs []error
	seen := make(map[string]bool, len(budgets))
	for _, b := range budgets {
		if _, _, err := budget.ParseKey(b.YearMonth); err != nil {
			errs = append(errs, err)
			continue
		}
		if b.Amount < 0 {
			errs = append(errs, fmt.Errorf("budget %s: negative amount %d", b.YearMonth, b.Amount))
		}
		if seen[b.YearMonth] {
			logging.Warn("duplicate budget entry, last one wins", "year_month", b.YearMonth)
		}
		seen[b.YearMonth] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid budgets: %w", errors.Join(errs...))
	}
	return nil
}
