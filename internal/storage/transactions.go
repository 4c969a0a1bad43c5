package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pthomsen/reckon/internal/common"
	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
)

const transactionColumns = `id, name, expression, kind, frequency, amount, normalized_amount,
	COALESCE(category_id, 0), created_at, updated_at`

// SaveTransaction inserts or updates a transaction.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	now := time.Now()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	var categoryID any
	if txn.CategoryID > 0 {
		categoryID = txn.CategoryID
	}

	query := `
		INSERT INTO transactions (id, name, expression, kind, frequency, amount, normalized_amount, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			expression = excluded.expression,
			kind = excluded.kind,
			frequency = excluded.frequency,
			amount = excluded.amount,
			normalized_amount = excluded.normalized_amount,
			category_id = excluded.category_id,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID, txn.Name, txn.Expression, string(txn.Kind), string(txn.Frequency),
		txn.Amount.String(), txn.NormalizedAmount.String(), categoryID,
		txn.CreatedAt, txn.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	slog.Debug("saved transaction", "id", txn.ID, "name", txn.Name)
	return nil
}

// GetTransaction returns a transaction by ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	if filter.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "count", len(transactions))
	return transactions, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}

	slog.Info("deleted transaction", "id", id)
	return nil
}

// ListReferences returns the referenceable snapshot of every stored
// transaction except excludeID, ordered by name for stable dropdowns.
func (s *SQLiteStorage) ListReferences(ctx context.Context, excludeID string) ([]model.Reference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, kind, amount
		FROM transactions
		WHERE id != ?
		ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query references: %w", err)
	}
	defer rows.Close()

	var refs []model.Reference
	for rows.Next() {
		var (
			ref    model.Reference
			kind   string
			amount string
		)
		if err := rows.Scan(&ref.ID, &ref.Label, &kind, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}

		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("bad amount for %s: %w", ref.ID, err)
		}
		if model.TransactionKind(kind) == model.KindExpense {
			value = value.Neg()
		}
		ref.SignedAmount = value
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating references: %w", err)
	}

	return refs, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		kind       string
		frequency  string
		amount     string
		normalized string
	)

	err := row.Scan(
		&txn.ID, &txn.Name, &txn.Expression, &kind, &frequency,
		&amount, &normalized, &txn.CategoryID, &txn.CreatedAt, &txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Kind = model.TransactionKind(kind)
	txn.Frequency = model.Frequency(frequency)

	if txn.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("bad amount for %s: %w", txn.ID, err)
	}
	if txn.NormalizedAmount, err = decimal.NewFromString(normalized); err != nil {
		return nil, fmt.Errorf("bad normalized amount for %s: %w", txn.ID, err)
	}

	return &txn, nil
}
