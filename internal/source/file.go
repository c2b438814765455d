package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/prorata/internal/budget"
	"github.com/theirongolddev/prorata/internal/sheet"
)

// File reads budgets from a .toml, .yaml/.yml or .xlsx file. The file is
// re-read on every call so edits are picked up by long-running callers.
//
// TOML and YAML files hold either a flat "YYYYMM = amount" mapping or a
// list under "budgets" with year_month/amount fields.
type File struct {
	Path string
}

// fileDoc is the list form of a TOML/YAML budgets file.
type fileDoc struct {
	Budgets []budget.MonthlyBudget `toml:"budgets" yaml:"budgets"`
}

// All implements Reader.
func (f File) All(_ context.Context) ([]budget.MonthlyBudget, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Path)); ext {
	case ".xlsx":
		fh, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("opening budgets file: %w", err)
		}
		defer fh.Close()
		return sheet.ReadBudgets(fh)

	case ".toml", ".yaml", ".yml":
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading budgets file: %w", err)
		}
		if ext == ".toml" {
			return decodeDoc(data, toml.Unmarshal)
		}
		return decodeDoc(data, yaml.Unmarshal)

	default:
		return nil, fmt.Errorf("budgets file %s: unsupported extension %q", f.Path, ext)
	}
}

func decodeDoc(data []byte, unmarshal func([]byte, any) error) ([]budget.MonthlyBudget, error) {
	var keys map[string]any
	if err := unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parsing budgets file: %w", err)
	}
	// A "budgets" key selects the list form, even when the list is empty.
	if _, ok := keys["budgets"]; ok {
		var doc fileDoc
		if err := unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing budgets file: %w", err)
		}
		if doc.Budgets == nil {
			return []budget.MonthlyBudget{}, nil
		}
		return doc.Budgets, nil
	}

	var flat map[string]int64
	if err := unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("parsing budgets file: %w", err)
	}
	out := make([]budget.MonthlyBudget, 0, len(flat))
	for k, v := range flat {
		out = append(out, budget.MonthlyBudget{YearMonth: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out, nil
}
