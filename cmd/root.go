package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/cli"
	"github.com/theirongolddev/prorata/internal/config"
	"github.com/theirongolddev/prorata/internal/logging"
	"github.com/theirongolddev/prorata/internal/source"
)

var (
	flagConfig   string
	flagSource   string
	flagDB       string
	flagFile     string
	flagQuiet    bool
	flagLogLevel string
)

// cfg is the effective configuration: file, then env, then flags.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "prorata",
	Short: "Prorated budget queries over date ranges",
	Long: "Answer \"how much budget applies between two dates?\" from monthly budgets,\n" +
		"prorating each month by the days of it the range covers.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	PersistentPostRun: func(*cobra.Command, []string) { logging.Sync() },
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/prorata/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "Budget source: config, file or sqlite")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (sqlite source)")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Budgets file, .toml/.yaml/.xlsx (file source)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// initRuntime loads .env, the config file and flag overrides, then sets up
// logging. It runs before every subcommand.
func initRuntime(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	if flagConfig != "" {
		config.SetPath(flagConfig)
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = applyFlags(loaded)

	level := cfg.General.LogLevel
	if level == "" {
		level = "warn"
	}
	if err := logging.Init(level, false); err != nil {
		return err
	}
	logging.Debug("config loaded", "path", config.Path(), "source", cfg.General.Source)

	return cfg.Validate()
}

// applyFlags lays explicitly set flags over c. A --file or --db flag alone
// implies the matching source.
func applyFlags(c config.Config) config.Config {
	if flagFile != "" {
		c.General.BudgetsFile = flagFile
		c.General.Source = config.SourceFile
	}
	if flagDB != "" {
		c.General.DBPath = flagDB
		if flagFile == "" {
			c.General.Source = config.SourceSQLite
		}
	}
	if flagSource != "" {
		c.General.Source = flagSource
	}
	if flagLogLevel != "" {
		c.General.LogLevel = flagLogLevel
	}
	return c
}

// loadBudgets is the shared path used by commands that read budgets.
func loadBudgets(ctx context.Context) ([]budget.MonthlyBudget, error) {
	op, err := source.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = op.Close() }()

	budgets, err := source.Fetch(ctx, op)
	if err != nil {
		return nil, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %d budgets from %s\n", len(budgets), op.Kind)
	}
	return budgets, nil
}

func amountFormat() cli.AmountFormat {
	return cli.AmountFormat{
		Locale:    cfg.Display.Locale,
		Currency:  cfg.Display.Currency,
		Precision: cfg.Display.Precision,
	}
}

// parseRange parses the START END positional arguments.
func parseRange(args []string) (time.Time, time.Time, error) {
	start, err := budget.ParseDate(args[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, err := budget.ParseDate(args[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}
