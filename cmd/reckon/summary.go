package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pthomsen/reckon/internal/model"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the monthly cash flow summary",
		Long: `Show income, expenses and net per category, with every amount rescaled
to its monthly equivalent (a yearly bill counts 1/12 per month).`,
		RunE: runSummary,
	}
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summary, err := store.GetSummary(ctx)
	if err != nil {
		return err
	}
	if len(summary.ByCategory) == 0 {
		fmt.Println("No transactions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tKIND\tCOUNT\tMONTHLY")
	for _, row := range summary.ByCategory {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			row.Category, row.Kind, row.Count,
			formatSigned(row.Normalized, row.Kind))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Income:   %s\n", formatSigned(summary.TotalIncome, model.KindIncome))
	fmt.Printf("Expenses: %s\n", formatSigned(summary.TotalExpenses, model.KindExpense))
	net := summary.Net
	netKind := model.KindIncome
	if net.IsNegative() {
		net = net.Neg()
		netKind = model.KindExpense
	}
	fmt.Printf("Net:      %s\n", formatSigned(net, netKind))
	return nil
}
