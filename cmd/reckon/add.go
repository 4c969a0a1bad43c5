package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthomsen/reckon/internal/eval"
	"github.com/pthomsen/reckon/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a transaction",
		Long: `Add a transaction non-interactively. The expression may reference other
transactions by id, e.g. --expr '$rent-1 / 2'. Use 'reckon edit' for the
interactive form with autocomplete.`,
		Args: cobra.ExactArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringP("expr", "e", "", "amount expression (required)")
	cmd.Flags().StringP("frequency", "f", "monthly", "frequency (once, daily, weekly, monthly, yearly)")
	cmd.Flags().StringP("category", "c", "", "category name")
	_ = cmd.MarkFlagRequired("expr")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]
	rawExpr, _ := cmd.Flags().GetString("expr")
	freqFlag, _ := cmd.Flags().GetString("frequency")
	categoryFlag, _ := cmd.Flags().GetString("category")

	freq, err := model.ParseFrequency(freqFlag)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categoryID, err := resolveCategory(ctx, store, categoryFlag)
	if err != nil {
		return err
	}

	refs, err := store.ListReferences(ctx, "")
	if err != nil {
		return err
	}

	evaluation, err := eval.New().Evaluate(ctx, rawExpr, freq, refs)
	if err != nil {
		return err
	}
	if !evaluation.Valid {
		return fmt.Errorf("cannot evaluate %q: %s", rawExpr, evaluation.Hint)
	}

	txn := &model.Transaction{
		ID:               model.NewTransactionID(name),
		Name:             name,
		Expression:       rawExpr,
		Kind:             evaluation.Kind,
		Frequency:        freq,
		Amount:           evaluation.Amount,
		NormalizedAmount: evaluation.NormalizedAmount,
		CategoryID:       categoryID,
	}

	if err := store.SaveTransaction(ctx, txn); err != nil {
		return err
	}

	fmt.Printf("Added %s (%s): %s %s, %s / month\n",
		txn.Name, txn.ID,
		formatSigned(txn.Amount, txn.Kind), txn.Frequency.Label(),
		formatSigned(txn.NormalizedAmount, txn.Kind))
	return nil
}
