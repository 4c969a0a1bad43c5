package model

import "github.com/shopspring/decimal"

// Reference is the immutable snapshot of a transaction that the expression
// editor can point at with a $<id> token. The editor treats the list as
// read-only for the duration of one edit session.
type Reference struct {
	ID           string
	Label        string
	SignedAmount decimal.Decimal
}

// FindReference returns the reference with the given identifier, or false if
// no entry matches. Identifiers are unique, so the first match wins.
func FindReference(refs []Reference, id string) (Reference, bool) {
	for _, r := range refs {
		if r.ID == id {
			return r, true
		}
	}
	return Reference{}, false
}
