package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/prorata/internal/logging"
	"github.com/theirongolddev/prorata/internal/source"
	"github.com/theirongolddev/prorata/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Validate a budgets file and load it into the SQLite store",
	Long: "Reads a .toml, .yaml or .xlsx budgets file and replaces the contents of the\n" +
		"SQLite budget store with it. Use --source sqlite afterwards to query it.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	budgets, err := source.Fetch(ctx, source.File{Path: args[0]})
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.General.DBPath)
	if err != nil {
		return fmt.Errorf("opening budget database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Replace(ctx, budgets); err != nil {
		return err
	}
	n, err := db.Count(ctx)
	if err != nil {
		return err
	}
	logging.Info("budgets imported", "file", args[0], "db", cfg.General.DBPath, "rows", n)

	if !flagQuiet {
		fmt.Printf("  Imported %d budgets into %s\n", n, cfg.General.DBPath)
	}
	return nil
}
