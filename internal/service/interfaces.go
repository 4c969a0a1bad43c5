// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pthomsen/reckon/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	Kind       *model.TransactionKind
	CategoryID *int
	Limit      int
	Offset     int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// ListReferences returns the referenceable snapshot of all transactions
	// (id, label, signed amount), minus the one identified by excludeID so a
	// transaction cannot reference itself.
	ListReferences(ctx context.Context, excludeID string) ([]model.Reference, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name string, kind model.TransactionKind) (*model.Category, error)
	DeactivateCategory(ctx context.Context, id int) error

	// Reporting
	GetSummary(ctx context.Context) (*Summary, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Evaluation is the result of evaluating a raw expression. Valid is false for
// expressions that cannot be evaluated yet (incomplete arithmetic, unknown
// references); Hint explains why without being an error.
type Evaluation struct {
	Amount           decimal.Decimal
	NormalizedAmount decimal.Decimal
	Kind             model.TransactionKind
	Hint             string
	Valid            bool
}

// Evaluator turns a raw expression string into an amount. An error return is
// reserved for infrastructure failure; malformed expressions come back as
// Valid=false with a hint.
type Evaluator interface {
	Evaluate(ctx context.Context, raw string, freq model.Frequency, refs []model.Reference) (Evaluation, error)
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Category   string
	Kind       model.TransactionKind
	Normalized decimal.Decimal
	Count      int
}

// Summary is the monthly-normalized cash flow overview.
type Summary struct {
	ByCategory    []CategorySummary
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
}
