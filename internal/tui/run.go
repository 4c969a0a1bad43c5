package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
)

// FormConfig holds the dependencies for running the transaction form.
type FormConfig struct {
	Storage     service.Storage
	Evaluator   service.Evaluator
	Transaction *model.Transaction // nil creates a new transaction
	Theme       string
}

// RunForm runs the transaction form until the user saves or cancels. It
// returns the saved transaction, or nil if the form was cancelled.
func RunForm(ctx context.Context, cfg FormConfig) (*model.Transaction, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	p := tea.NewProgram(NewForm(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("form error: %w", err)
	}

	m, ok := final.(FormModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type %T", final)
	}
	if m.err != nil {
		return nil, m.err
	}
	if !m.done {
		return nil, nil
	}
	return m.saved, nil
}
