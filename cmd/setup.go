package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/theirongolddev/prorata/internal/config"
	"github.com/theirongolddev/prorata/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupBase is the config the wizard edits. It comes from the file alone
// so env and flag overrides are never persisted by Save.
func setupBase() (config.Config, error) {
	return config.LoadFile()
}

func runSetup(_ *cobra.Command, _ []string) error {
	c, err := setupBase()
	if err != nil {
		return err
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to prorata").
				Description("Pick where monthly budgets come from and how amounts are shown."),
			huh.NewSelect[string]().
				Title("Budget source").
				Options(
					huh.NewOption("[budgets] table in config.toml", config.SourceConfig),
					huh.NewOption("TOML / YAML / XLSX file", config.SourceFile),
					huh.NewOption("SQLite database", config.SourceSQLite),
				).
				Value(&c.General.Source),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Budgets file").
				Placeholder("~/budgets.yaml").
				Value(&c.General.BudgetsFile).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a file is required for the file source")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return c.General.Source != config.SourceFile }),
		huh.NewGroup(
			huh.NewInput().
				Title("SQLite database").
				Value(&c.General.DBPath),
		).WithHideFunc(func() bool { return c.General.Source != config.SourceSQLite }),
		huh.NewGroup(
			huh.NewInput().
				Title("Locale").
				Description("BCP 47 tag used for number grouping, e.g. en, de, fr-CH").
				Value(&c.Display.Locale).
				Validate(func(s string) error {
					_, err := language.Parse(s)
					return err
				}),
			huh.NewInput().
				Title("Currency prefix").
				Description("Optional, e.g. EUR").
				Value(&c.Display.Currency),
			huh.NewSelect[int32]().
				Title("Decimal places").
				Options(
					huh.NewOption("0", int32(0)),
					huh.NewOption("2", int32(2)),
					huh.NewOption("4", int32(4)),
				).
				Value(&c.Display.Precision),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&c.Appearance.Theme),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	c.General.BudgetsFile = strings.TrimSpace(c.General.BudgetsFile)
	if err := c.Validate(); err != nil {
		return err
	}
	if err := config.Save(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `prorata setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
