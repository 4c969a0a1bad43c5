package model

import "time"

// Category represents a grouping for transactions.
type Category struct {
	CreatedAt time.Time
	Name      string
	Kind      TransactionKind
	ID        int
	IsActive  bool
}
