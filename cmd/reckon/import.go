package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pthomsen/reckon/internal/eval"
	"github.com/pthomsen/reckon/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file",
		Long: `Import transactions from a CSV file with a header row and columns:

  name,expression,frequency,category

frequency and category may be empty (monthly, uncategorized). Expressions
are evaluated in file order, so a row may reference transactions from
earlier rows by id.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "validate the file without writing anything")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()

	records, err := readImportFile(f)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Nothing to import.")
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing transactions..."),
	)

	evaluator := eval.New()
	imported := 0
	for i, record := range records {
		line := i + 2 // 1-based, after the header

		freq := model.FrequencyMonthly
		if record.frequency != "" {
			freq, err = model.ParseFrequency(record.frequency)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}

		categoryID, err := resolveCategory(ctx, store, record.category)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		refs, err := store.ListReferences(ctx, "")
		if err != nil {
			return err
		}

		evaluation, err := evaluator.Evaluate(ctx, record.expression, freq, refs)
		if err != nil {
			return err
		}
		if !evaluation.Valid {
			return fmt.Errorf("line %d: cannot evaluate %q: %s", line, record.expression, evaluation.Hint)
		}

		if !dryRun {
			txn := &model.Transaction{
				ID:               model.NewTransactionID(record.name),
				Name:             record.name,
				Expression:       record.expression,
				Kind:             evaluation.Kind,
				Frequency:        freq,
				Amount:           evaluation.Amount,
				NormalizedAmount: evaluation.NormalizedAmount,
				CategoryID:       categoryID,
			}
			if err := store.SaveTransaction(ctx, txn); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}

		imported++
		_ = bar.Add(1)
	}

	if dryRun {
		fmt.Printf("\nValidated %d transactions (dry run, nothing written)\n", imported)
		return nil
	}
	slog.Info("import complete", "count", imported)
	fmt.Printf("\nImported %d transactions\n", imported)
	return nil
}

type importRecord struct {
	name       string
	expression string
	frequency  string
	category   string
}

// readImportFile parses the CSV and validates the header and field counts.
func readImportFile(r io.Reader) ([]importRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) != 4 || !strings.EqualFold(header[0], "name") || !strings.EqualFold(header[1], "expression") {
		return nil, fmt.Errorf("expected header \"name,expression,frequency,category\", got %q", strings.Join(header, ","))
	}

	var records []importRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		record := importRecord{
			name:       strings.TrimSpace(row[0]),
			expression: strings.TrimSpace(row[1]),
			frequency:  strings.TrimSpace(row[2]),
			category:   strings.TrimSpace(row[3]),
		}
		if record.name == "" || record.expression == "" {
			return nil, fmt.Errorf("row %d: name and expression are required", len(records)+2)
		}
		records = append(records, record)
	}
	return records, nil
}
