package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/config"
	"github.com/theirongolddev/prorata/internal/sheet"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o600))
	return p
}

var want = []budget.MonthlyBudget{
	{YearMonth: "202004", Amount: 30},
	{YearMonth: "202005", Amount: 62},
}

func TestFile_Formats(t *testing.T) {
	cases := []struct {
		name, contents string
	}{
		{"flat.yaml", "202004: 30\n202005: 62\n"},
		{"list.yml", "budgets:\n  - year_month: \"202004\"\n    amount: 30\n  - year_month: \"202005\"\n    amount: 62\n"},
		{"flat.toml", "202004 = 30\n202005 = 62\n"},
		{"list.toml", "[[budgets]]\nyear_month = \"202004\"\namount = 30\n\n[[budgets]]\nyear_month = \"202005\"\namount = 62\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := File{Path: writeFile(t, tc.name, tc.contents)}.All(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestFile_EmptyFiles(t *testing.T) {
	cases := []struct {
		name, contents string
	}{
		{"empty-list.toml", "budgets = []\n"},
		{"empty-list.yaml", "budgets: []\n"},
		{"null-list.yaml", "budgets:\n"},
		{"blank.yaml", ""},
		{"blank.toml", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := File{Path: writeFile(t, tc.name, tc.contents)}.All(context.Background())
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestFile_MalformedList(t *testing.T) {
	_, err := File{Path: writeFile(t, "bad.toml", "budgets = [1, 2]\n")}.All(context.Background())
	require.Error(t, err)
}

func TestFile_XLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "budgets.xlsx")
	fh, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, sheet.WriteBudgets(fh, want))
	require.NoError(t, fh.Close())

	got, err := File{Path: p}.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFile_UnsupportedExtension(t *testing.T) {
	_, err := File{Path: writeFile(t, "budgets.csv", "202004,30\n")}.All(context.Background())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(want))
	require.NoError(t, Validate(nil))

	err := Validate([]budget.MonthlyBudget{
		{YearMonth: "2020-4", Amount: 30},
		{YearMonth: "202013", Amount: 30},
		{YearMonth: "202006", Amount: -5},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, budget.ErrInvalidKey))
	assert.Contains(t, err.Error(), "2020-4")
	assert.Contains(t, err.Error(), "202013")
	assert.Contains(t, err.Error(), "negative amount -5")
}

func TestFetch_ValidatesAndCopies(t *testing.T) {
	static := Static(want)
	got, err := Fetch(context.Background(), static)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got[0].Amount = 999
	assert.Equal(t, int64(30), static[0].Amount)

	_, err = Fetch(context.Background(), Static{{YearMonth: "bad", Amount: 1}})
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Budgets = map[string]int64{"202005": 62, "202004": 30}

	op, err := Open(cfg)
	require.NoError(t, err)
	defer op.Close()
	assert.Equal(t, config.SourceConfig, op.Kind)
	got, err := op.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	cfg.General.Source = config.SourceSQLite
	cfg.General.DBPath = filepath.Join(t.TempDir(), "b.db")
	op, err = Open(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.SourceSQLite, op.Kind)
	got, err = op.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, op.Close())

	cfg.General.Source = "carrier-pigeon"
	_, err = Open(cfg)
	assert.ErrorIs(t, err, ErrUnknownSource)
}
