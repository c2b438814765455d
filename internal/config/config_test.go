package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withConfigPath(t *testing.T, contents string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if contents != "" {
		if err := os.WriteFile(p, []byte(contents), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	SetPath(p)
	t.Cleanup(func() { SetPath("") })
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	withConfigPath(t, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Source != SourceConfig {
		t.Fatalf("Source = %q, want %q", cfg.General.Source, SourceConfig)
	}
	if cfg.Display.Precision != 2 {
		t.Fatalf("Precision = %d, want 2", cfg.Display.Precision)
	}
	if Exists() {
		t.Fatal("Exists() = true for missing file")
	}
}

func TestLoad_FileValuesAndBudgets(t *testing.T) {
	withConfigPath(t, `
[general]
source = "file"
budgets_file = "/tmp/budgets.yaml"

[display]
precision = 0
currency = "EUR"

[budgets]
"202004" = 30
"202005" = 62
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Source != SourceFile {
		t.Fatalf("Source = %q, want file", cfg.General.Source)
	}
	if cfg.Display.Precision != 0 {
		t.Fatalf("Precision = %d, want 0 from file", cfg.Display.Precision)
	}
	if cfg.Daemon.Addr != "127.0.0.1:8788" {
		t.Fatalf("Daemon.Addr = %q, want default", cfg.Daemon.Addr)
	}

	bs := cfg.MonthlyBudgets()
	if len(bs) != 2 || bs[0].YearMonth != "202004" || bs[1].Amount != 62 {
		t.Fatalf("MonthlyBudgets = %+v, want 202004=30, 202005=62", bs)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	withConfigPath(t, `
[general]
source = "config"
db_path = "/from/file.db"
`)
	t.Setenv("PRORATA_SOURCE", "sqlite")
	t.Setenv("PRORATA_PRECISION", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Source != SourceSQLite {
		t.Fatalf("Source = %q, want sqlite", cfg.General.Source)
	}
	if cfg.General.DBPath != "/from/file.db" {
		t.Fatalf("DBPath = %q, want file value kept", cfg.General.DBPath)
	}
	if cfg.Display.Precision != 4 {
		t.Fatalf("Precision = %d, want 4", cfg.Display.Precision)
	}
}

func TestLoad_EnvPrecisionZero(t *testing.T) {
	withConfigPath(t, `
[display]
precision = 4
`)
	t.Setenv("PRORATA_PRECISION", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.Precision != 0 {
		t.Fatalf("Precision = %d, want 0 from env", cfg.Display.Precision)
	}
}

func TestLoad_EnvPrecisionInvalid(t *testing.T) {
	withConfigPath(t, "")
	t.Setenv("PRORATA_PRECISION", "abc")

	if _, err := Load(); err == nil {
		t.Fatal("Load returned nil error for PRORATA_PRECISION=abc")
	}
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	withConfigPath(t, `
[general]
source = "config"

[display]
precision = 4
`)
	t.Setenv("PRORATA_SOURCE", "sqlite")
	t.Setenv("PRORATA_PRECISION", "0")

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.General.Source != SourceConfig {
		t.Fatalf("Source = %q, want file value %q", cfg.General.Source, SourceConfig)
	}
	if cfg.Display.Precision != 4 {
		t.Fatalf("Precision = %d, want file value 4", cfg.Display.Precision)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	withConfigPath(t, "[general\nsource=")
	if _, err := Load(); err == nil {
		t.Fatal("Load returned nil error for malformed TOML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	withConfigPath(t, "")

	cfg := DefaultConfig()
	cfg.Budgets = map[string]int64{"202101": 62}
	cfg.Appearance.Theme = "tokyo-night"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Appearance.Theme != "tokyo-night" || got.Budgets["202101"] != 62 {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.Source = "ftp"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted unknown source")
	}

	cfg = DefaultConfig()
	cfg.General.Source = SourceFile
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate accepted file source without budgets_file")
	}
}
