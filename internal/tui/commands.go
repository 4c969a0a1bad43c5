package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pthomsen/reckon/internal/common"
)

// evalDebounce is how long the form waits after a keystroke before
// evaluating the expression.
const evalDebounce = 300 * time.Millisecond

// loadCategories loads the active categories from storage.
func (m FormModel) loadCategories() tea.Cmd {
	return func() tea.Msg {
		if m.storage == nil {
			return categoriesLoadedMsg{err: fmt.Errorf("storage not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		categories, err := m.storage.GetCategories(ctx)
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

// loadReferences loads the transactions the expression can reference. The
// transaction being edited is excluded so it cannot reference itself.
func (m FormModel) loadReferences() tea.Cmd {
	return func() tea.Msg {
		if m.storage == nil {
			return referencesLoadedMsg{err: fmt.Errorf("storage not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		references, err := m.storage.ListReferences(ctx, m.editID)
		return referencesLoadedMsg{references: references, err: err}
	}
}

// scheduleEvaluation starts the debounce timer for the current edit.
func (m FormModel) scheduleEvaluation(raw string) tea.Cmd {
	seq := m.evalSeq
	return tea.Tick(evalDebounce, func(time.Time) tea.Msg {
		return evalTickMsg{seq: seq, raw: raw}
	})
}

// evaluate runs the evaluator against the expression as typed.
func (m FormModel) evaluate(seq int, raw string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		eval, err := m.evaluator.Evaluate(ctx, raw, m.frequency(), m.references)
		return evalResultMsg{seq: seq, eval: eval, err: err}
	}
}

// save evaluates the expression one final time and persists the transaction.
func (m FormModel) save() tea.Cmd {
	txn := m.buildTransaction()
	raw := m.exprInput.Value()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		eval, err := m.evaluator.Evaluate(ctx, raw, txn.Frequency, m.references)
		if err != nil {
			return saveResultMsg{err: err}
		}
		if !eval.Valid {
			return saveResultMsg{err: common.NewUserError("expression does not evaluate", fmt.Errorf("%s", eval.Hint))}
		}

		txn.Kind = eval.Kind
		txn.Amount = eval.Amount
		txn.NormalizedAmount = eval.NormalizedAmount

		if err := m.storage.SaveTransaction(ctx, txn); err != nil {
			return saveResultMsg{err: err}
		}
		return saveResultMsg{txn: txn}
	}
}
