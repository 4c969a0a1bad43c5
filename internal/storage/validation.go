package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pthomsen/reckon/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCategory    = errors.New("invalid category")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTransaction)
	}
	if txn.Kind != model.KindIncome && txn.Kind != model.KindExpense {
		return fmt.Errorf("%w: bad kind %q", ErrInvalidTransaction, txn.Kind)
	}
	if _, err := model.ParseFrequency(string(txn.Frequency)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return nil
}

// validateKind validates a category kind.
func validateKind(kind model.TransactionKind) error {
	if kind != model.KindIncome && kind != model.KindExpense {
		return fmt.Errorf("%w: bad kind %q", ErrInvalidCategory, kind)
	}
	return nil
}
