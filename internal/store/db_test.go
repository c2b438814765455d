package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/prorata/internal/budget"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "budgets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_EmptyDatabase(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	all, err := db.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReplace_RoundTripOrdered(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := []budget.MonthlyBudget{
		{YearMonth: "202101", Amount: 62},
		{YearMonth: "202012", Amount: 31},
	}
	require.NoError(t, db.Replace(ctx, in))

	all, err := db.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []budget.MonthlyBudget{
		{YearMonth: "202012", Amount: 31},
		{YearMonth: "202101", Amount: 62},
	}, all)
}

func TestReplace_DropsPreviousRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Replace(ctx, []budget.MonthlyBudget{{YearMonth: "202004", Amount: 30}}))
	require.NoError(t, db.Replace(ctx, []budget.MonthlyBudget{{YearMonth: "202005", Amount: 62}}))

	all, err := db.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []budget.MonthlyBudget{{YearMonth: "202005", Amount: 62}}, all)
}

func TestReplace_ConstraintViolationRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Replace(ctx, []budget.MonthlyBudget{{YearMonth: "202004", Amount: 30}}))

	err := db.Replace(ctx, []budget.MonthlyBudget{
		{YearMonth: "202005", Amount: 62},
		{YearMonth: "202006", Amount: -1},
	})
	require.Error(t, err)

	all, err := db.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []budget.MonthlyBudget{{YearMonth: "202004", Amount: 30}}, all)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budgets.db")
	ctx := context.Background()

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Replace(ctx, []budget.MonthlyBudget{{YearMonth: "202004", Amount: 30}}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
