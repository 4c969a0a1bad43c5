package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pthomsen/reckon/internal/common"
	"github.com/pthomsen/reckon/internal/eval"
	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/tui"
)

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [id]",
		Short: "Open the transaction form",
		Long: `Open the interactive transaction form. With an id, edit that
transaction; without one, create a new transaction.

In the amount field, type '$' to reference another transaction from a
dropdown. References render as chips and delete as one unit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var txn *model.Transaction
	if len(args) == 1 {
		txn, err = store.GetTransaction(ctx, args[0])
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no transaction with id %q", args[0])
			}
			return err
		}
	}

	saved, err := tui.RunForm(ctx, tui.FormConfig{
		Storage:     store,
		Evaluator:   eval.New(),
		Transaction: txn,
		Theme:       viper.GetString("ui.theme"),
	})
	if err != nil {
		return err
	}
	if saved == nil {
		fmt.Println("Cancelled.")
		return nil
	}

	fmt.Printf("Saved %s (%s): %s %s\n",
		saved.Name, saved.ID,
		formatSigned(saved.Amount, saved.Kind), saved.Frequency.Label())
	return nil
}
