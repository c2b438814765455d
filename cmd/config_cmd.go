// Package cmd implements the prorata CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/prorata/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Source:       %s\n", cfg.General.Source)
	fmt.Printf("    Database:     %s\n", cfg.General.DBPath)
	if cfg.General.BudgetsFile != "" {
		fmt.Printf("    Budgets file: %s\n", cfg.General.BudgetsFile)
	}
	fmt.Printf("    Log level:    %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Display]")
	fmt.Printf("    Locale:    %s\n", cfg.Display.Locale)
	if cfg.Display.Currency != "" {
		fmt.Printf("    Currency:  %s\n", cfg.Display.Currency)
	}
	fmt.Printf("    Precision: %d\n", cfg.Display.Precision)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Budgets]")
	if len(cfg.Budgets) == 0 {
		fmt.Println("    none in config")
	} else {
		fmt.Printf("    %d months in config\n", len(cfg.Budgets))
	}
	fmt.Println()

	fmt.Println("  Run `prorata setup` to reconfigure.")
	return nil
}
