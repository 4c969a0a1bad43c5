package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pthomsen/reckon/internal/config"
	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
	"github.com/pthomsen/reckon/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolveCategory maps a --category flag value to a category ID. Empty means
// uncategorized.
func resolveCategory(ctx context.Context, store service.Storage, name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	cat, err := store.GetCategoryByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("category %q: %w", name, err)
	}
	return cat.ID, nil
}

// formatSigned renders an amount with an explicit sign for its kind.
func formatSigned(amount decimal.Decimal, kind model.TransactionKind) string {
	if kind == model.KindExpense {
		return "-" + amount.StringFixed(2)
	}
	return "+" + amount.StringFixed(2)
}
