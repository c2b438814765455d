// Package config loads and saves the prorata TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/prorata/internal/budget"
)

// Config holds all prorata configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Display    DisplayConfig    `toml:"display"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
	Budgets    map[string]int64 `toml:"budgets,omitempty"`
}

// GeneralConfig selects where budgets come from.
type GeneralConfig struct {
	Source      string `toml:"source"`
	DBPath      string `toml:"db_path,omitempty"`
	BudgetsFile string `toml:"budgets_file,omitempty"`
	LogLevel    string `toml:"log_level,omitempty"`
}

// DisplayConfig controls how amounts are rendered. It never affects the
// computed values.
type DisplayConfig struct {
	Locale    string `toml:"locale"`
	Currency  string `toml:"currency,omitempty"`
	Precision int32  `toml:"precision"`
}

// DaemonConfig holds HTTP daemon settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// Source kinds.
const (
	SourceConfig = "config"
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Source:   SourceConfig,
			DBPath:   filepath.Join(DataDir(), "budgets.db"),
			LogLevel: "warn",
		},
		Display: DisplayConfig{
			Locale:    "en",
			Precision: 2,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8788",
			IntervalSec:  30,
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prorata")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "prorata")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "prorata")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "prorata")
}

// path overrides Path when set via SetPath (the --config flag).
var path string

// SetPath points Load, Save and Exists at an explicit file.
func SetPath(p string) { path = p }

// Path returns the full path to the config file.
func Path() string {
	if path != "" {
		return path
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides (PRORATA_*) are merged over the file values.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if err := mergo.Merge(&cfg, envOverrides(), mergo.WithOverride); err != nil {
		return cfg, fmt.Errorf("applying env overrides: %w", err)
	}
	// mergo skips zero values, so an explicit PRORATA_PRECISION=0 is applied here.
	if v := os.Getenv("PRORATA_PRECISION"); v != "" {
		p, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return cfg, fmt.Errorf("parsing PRORATA_PRECISION: %w", err)
		}
		cfg.Display.Precision = int32(p)
	}
	return cfg, nil
}

// LoadFile reads only the config file over the defaults. It is what
// setup edits, so env values never get persisted.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(Path()), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Validate reports unusable settings.
func (c Config) Validate() error {
	switch c.General.Source {
	case SourceConfig, SourceSQLite:
	case SourceFile:
		if c.General.BudgetsFile == "" {
			return fmt.Errorf("source %q requires general.budgets_file", SourceFile)
		}
	default:
		return fmt.Errorf("unknown source %q: must be one of %s, %s, %s",
			c.General.Source, SourceConfig, SourceFile, SourceSQLite)
	}
	if c.Display.Precision < 0 || c.Display.Precision > 12 {
		return fmt.Errorf("display.precision %d out of range 0-12", c.Display.Precision)
	}
	return nil
}

// MonthlyBudgets returns the [budgets] table as a listing ordered by key.
func (c Config) MonthlyBudgets() []budget.MonthlyBudget {
	out := make([]budget.MonthlyBudget, 0, len(c.Budgets))
	for k, v := range c.Budgets {
		out = append(out, budget.MonthlyBudget{YearMonth: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out
}

// envOverrides collects the string PRORATA_* variables. Empty fields leave
// the file value untouched when merged.
func envOverrides() Config {
	var o Config
	o.General.Source = os.Getenv("PRORATA_SOURCE")
	o.General.DBPath = os.Getenv("PRORATA_DB_PATH")
	o.General.BudgetsFile = os.Getenv("PRORATA_BUDGETS_FILE")
	o.General.LogLevel = os.Getenv("PRORATA_LOG_LEVEL")
	return o
}
