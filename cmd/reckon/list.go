package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE:  runList,
	}

	cmd.Flags().String("kind", "", "filter by kind (income, expense)")
	cmd.Flags().String("category", "", "filter by category name")
	cmd.Flags().Int("limit", 0, "maximum number of transactions")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	kindFlag, _ := cmd.Flags().GetString("kind")
	categoryFlag, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	filter := service.TransactionFilter{Limit: limit}
	if kindFlag != "" {
		kind := model.TransactionKind(kindFlag)
		if kind != model.KindIncome && kind != model.KindExpense {
			return fmt.Errorf("invalid kind: %q", kindFlag)
		}
		filter.Kind = &kind
	}
	if categoryFlag != "" {
		cat, catErr := store.GetCategoryByName(ctx, categoryFlag)
		if catErr != nil {
			return catErr
		}
		filter.CategoryID = &cat.ID
	}

	transactions, err := store.ListTransactions(ctx, filter)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		fmt.Println("No transactions.")
		return nil
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		return err
	}
	categoryNames := make(map[int]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAMOUNT\tFREQUENCY\tMONTHLY\tCATEGORY\tEXPRESSION")
	for i := range transactions {
		txn := &transactions[i]
		category := categoryNames[txn.CategoryID]
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.ID, txn.Name,
			formatSigned(txn.Amount, txn.Kind),
			txn.Frequency.Label(),
			formatSigned(txn.NormalizedAmount, txn.Kind),
			category, txn.Expression)
	}
	return w.Flush()
}
