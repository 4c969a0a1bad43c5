package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthomsen/reckon/internal/common"
)

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a transaction",
		Long: `Remove a transaction by id. Other expressions that reference it keep
their $token; it renders as unresolved and makes those expressions
invalid for evaluation until edited.`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteTransaction(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("no transaction with id %q", id)
		}
		return err
	}

	fmt.Printf("Removed %s\n", id)
	return nil
}
