package tui

import (
	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
)

// categoriesLoadedMsg carries the active categories from storage.
type categoriesLoadedMsg struct {
	err        error
	categories []model.Category
}

// referencesLoadedMsg carries the referenceable transactions from storage.
type referencesLoadedMsg struct {
	err        error
	references []model.Reference
}

// evalTickMsg fires when the debounce window for an edit elapses. seq ties
// it to the edit that scheduled it; a newer edit makes it stale.
type evalTickMsg struct {
	raw string
	seq int
}

// evalResultMsg carries the outcome of an expression evaluation.
type evalResultMsg struct {
	err  error
	eval service.Evaluation
	seq  int
}

// saveResultMsg carries the outcome of saving the transaction.
type saveResultMsg struct {
	err error
	txn *model.Transaction
}
