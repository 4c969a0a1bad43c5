package model

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind indicates whether a transaction adds to or subtracts from
// the balance.
type TransactionKind string

const (
	// KindIncome represents money coming in.
	KindIncome TransactionKind = "income"
	// KindExpense represents money going out.
	KindExpense TransactionKind = "expense"
)

// Transaction represents a single recorded income or expense.
//
// Amount is the evaluated result of Expression; NormalizedAmount is the same
// value rescaled to a monthly basis according to Frequency. Both are stored
// alongside the raw expression so that lists and summaries never need to
// re-evaluate.
type Transaction struct {
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ID               string
	Name             string
	Expression       string // Raw expression, e.g. "$txn-1 * 0.12 + 50"
	Kind             TransactionKind
	Frequency        Frequency
	Amount           decimal.Decimal
	NormalizedAmount decimal.Decimal
	CategoryID       int
}

// NewTransactionID derives a reference-safe identifier from a name: a
// lowercase slug of letters, digits and hyphens, plus a random suffix to
// keep same-named transactions distinct.
func NewTransactionID(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "txn"
	}
	return fmt.Sprintf("%s-%04x", slug, rand.Intn(0x10000))
}

// SignedAmount returns the amount with its sign determined by Kind:
// positive for income, negative for expense.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Reference returns the transaction as a referenceable entity for the
// expression editor.
func (t *Transaction) Reference() Reference {
	return Reference{
		ID:           t.ID,
		Label:        t.Name,
		SignedAmount: t.SignedAmount(),
	}
}
