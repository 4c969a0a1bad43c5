package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pthomsen/reckon/internal/common"
	"github.com/pthomsen/reckon/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		RunE:  runCategoriesList,
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE:  runCategoriesAdd,
	}
	add.Flags().StringP("kind", "k", "expense", "category kind (income, expense)")

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Deactivate a category",
		Long: `Deactivate a category. Existing transactions keep pointing at it for
historical reporting; it just stops being offered for new transactions.`,
		Args: cobra.ExactArgs(1),
		RunE: runCategoriesRemove,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List active categories",
		RunE:  runCategoriesList,
	})
	cmd.AddCommand(add)
	cmd.AddCommand(remove)

	return cmd
}

func runCategoriesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categories, err := store.GetCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Println("No categories.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND")
	for _, cat := range categories {
		fmt.Fprintf(w, "%d\t%s\t%s\n", cat.ID, cat.Name, cat.Kind)
	}
	return w.Flush()
}

func runCategoriesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kindFlag, _ := cmd.Flags().GetString("kind")

	kind := model.TransactionKind(kindFlag)
	if kind != model.KindIncome && kind != model.KindExpense {
		return fmt.Errorf("invalid kind: %q", kindFlag)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cat, err := store.CreateCategory(ctx, args[0], kind)
	if errors.Is(err, common.ErrDuplicateEntry) {
		return fmt.Errorf("category %q already exists", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Printf("Category %q (%s) ready with id %d\n", cat.Name, cat.Kind, cat.ID)
	return nil
}

func runCategoriesRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cat, err := store.GetCategoryByName(ctx, args[0])
	if err != nil {
		return err
	}
	if err := store.DeactivateCategory(ctx, cat.ID); err != nil {
		return err
	}

	fmt.Printf("Deactivated %q\n", cat.Name)
	return nil
}
