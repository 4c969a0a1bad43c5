package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthomsen/reckon/internal/common"
	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testTransaction(id, name string, amount int64) *model.Transaction {
	value := decimal.NewFromInt(amount)
	return &model.Transaction{
		ID:               id,
		Name:             name,
		Expression:       value.String(),
		Kind:             model.KindExpense,
		Frequency:        model.FrequencyMonthly,
		Amount:           value,
		NormalizedAmount: value,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))

	version, err := store.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrateSeedsDefaultCategories(t *testing.T) {
	store := setupTestStorage(t)

	categories, err := store.GetCategories(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	names := make(map[string]model.TransactionKind)
	for _, c := range categories {
		names[c.Name] = c.Kind
	}
	assert.Equal(t, model.KindIncome, names["Salary"])
	assert.Equal(t, model.KindExpense, names["Groceries"])
}

func TestSaveAndGetTransaction(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("txn-1", "Rent", 1200)
	txn.Expression = "1150 + 50"
	require.NoError(t, store.SaveTransaction(ctx, txn))

	got, err := store.GetTransaction(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "Rent", got.Name)
	assert.Equal(t, "1150 + 50", got.Expression)
	assert.Equal(t, model.KindExpense, got.Kind)
	assert.Equal(t, model.FrequencyMonthly, got.Frequency)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1200)))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveTransactionUpserts(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("txn-1", "Rent", 1200)
	require.NoError(t, store.SaveTransaction(ctx, txn))

	txn.Name = "Rent (new lease)"
	txn.Amount = decimal.NewFromInt(1300)
	txn.NormalizedAmount = txn.Amount
	require.NoError(t, store.SaveTransaction(ctx, txn))

	got, err := store.GetTransaction(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "Rent (new lease)", got.Name)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1300)))

	all, err := store.ListTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetTransactionNotFound(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.GetTransaction(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveTransactionValidates(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		mutate func(*model.Transaction)
		name   string
	}{
		{name: "missing id", mutate: func(txn *model.Transaction) { txn.ID = "" }},
		{name: "missing name", mutate: func(txn *model.Transaction) { txn.Name = "" }},
		{name: "bad kind", mutate: func(txn *model.Transaction) { txn.Kind = "transfer" }},
		{name: "bad frequency", mutate: func(txn *model.Transaction) { txn.Frequency = "fortnightly" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := testTransaction("txn-1", "Rent", 100)
			tt.mutate(txn)
			assert.Error(t, store.SaveTransaction(ctx, txn))
		})
	}
}

func TestListTransactionsFilter(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	rent := testTransaction("txn-1", "Rent", 1200)
	require.NoError(t, store.SaveTransaction(ctx, rent))

	salary := testTransaction("txn-2", "Salary", 3000)
	salary.Kind = model.KindIncome
	require.NoError(t, store.SaveTransaction(ctx, salary))

	income := model.KindIncome
	got, err := store.ListTransactions(ctx, service.TransactionFilter{Kind: &income})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-2", got[0].ID)

	all, err := store.ListTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := store.ListTransactions(ctx, service.TransactionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeleteTransaction(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTransaction(ctx, testTransaction("txn-1", "Rent", 1200)))
	require.NoError(t, store.DeleteTransaction(ctx, "txn-1"))

	_, err := store.GetTransaction(ctx, "txn-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.DeleteTransaction(ctx, "txn-1"), common.ErrNotFound)
}

func TestListReferences(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	rent := testTransaction("txn-1", "Rent", 1200)
	require.NoError(t, store.SaveTransaction(ctx, rent))

	salary := testTransaction("txn-2", "Salary", 3000)
	salary.Kind = model.KindIncome
	require.NoError(t, store.SaveTransaction(ctx, salary))

	refs, err := store.ListReferences(ctx, "")
	require.NoError(t, err)
	require.Len(t, refs, 2)

	// Ordered by name; expenses carry a negative sign.
	assert.Equal(t, "txn-1", refs[0].ID)
	assert.True(t, refs[0].SignedAmount.Equal(decimal.NewFromInt(-1200)))
	assert.Equal(t, "txn-2", refs[1].ID)
	assert.True(t, refs[1].SignedAmount.Equal(decimal.NewFromInt(3000)))

	// The excluded transaction never sees itself.
	refs, err = store.ListReferences(ctx, "txn-1")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "txn-2", refs[0].ID)
}

func TestCategoryLifecycle(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	cat, err := store.CreateCategory(ctx, "Subscriptions", model.KindExpense)
	require.NoError(t, err)
	assert.Greater(t, cat.ID, 0)
	assert.True(t, cat.IsActive)

	byName, err := store.GetCategoryByName(ctx, "Subscriptions")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, byName.ID)

	// An active name cannot be created twice.
	_, err = store.CreateCategory(ctx, "Subscriptions", model.KindExpense)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	require.NoError(t, store.DeactivateCategory(ctx, cat.ID))
	_, err = store.GetCategoryByName(ctx, "Subscriptions")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Creating the same name again reactivates instead of duplicating.
	again, err := store.CreateCategory(ctx, "Subscriptions", model.KindExpense)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, again.ID)
	assert.True(t, again.IsActive)
}

func TestGetSummary(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	housing, err := store.GetCategoryByName(ctx, "Housing")
	require.NoError(t, err)
	salaryCat, err := store.GetCategoryByName(ctx, "Salary")
	require.NoError(t, err)

	rent := testTransaction("txn-1", "Rent", 1200)
	rent.CategoryID = housing.ID
	require.NoError(t, store.SaveTransaction(ctx, rent))

	utilities := testTransaction("txn-2", "Utilities", 150)
	utilities.CategoryID = housing.ID
	require.NoError(t, store.SaveTransaction(ctx, utilities))

	salary := testTransaction("txn-3", "Salary", 3000)
	salary.Kind = model.KindIncome
	salary.CategoryID = salaryCat.ID
	require.NoError(t, store.SaveTransaction(ctx, salary))

	summary, err := store.GetSummary(ctx)
	require.NoError(t, err)

	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(1350)))
	assert.True(t, summary.Net.Equal(decimal.NewFromInt(1650)))

	byCategory := make(map[string]service.CategorySummary)
	for _, c := range summary.ByCategory {
		byCategory[c.Category] = c
	}
	assert.Equal(t, 2, byCategory["Housing"].Count)
	assert.True(t, byCategory["Housing"].Normalized.Equal(decimal.NewFromInt(1350)))
	assert.Equal(t, 1, byCategory["Salary"].Count)
}
