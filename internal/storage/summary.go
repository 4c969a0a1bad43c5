package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
)

// GetSummary aggregates normalized (monthly-equivalent) amounts per category.
// Sums are computed in Go because amounts are stored as exact decimal strings.
func (s *SQLiteStorage) GetSummary(ctx context.Context) (*service.Summary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT COALESCE(c.name, 'Uncategorized'), t.kind, t.normalized_amount
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		ORDER BY c.name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer rows.Close()

	type key struct {
		category string
		kind     model.TransactionKind
	}
	totals := make(map[key]*service.CategorySummary)
	var order []key

	summary := &service.Summary{}
	for rows.Next() {
		var (
			category string
			kind     string
			raw      string
		)
		if err := rows.Scan(&category, &kind, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}

		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("bad normalized amount in %q: %w", category, err)
		}

		k := key{category: category, kind: model.TransactionKind(kind)}
		entry, ok := totals[k]
		if !ok {
			entry = &service.CategorySummary{Category: category, Kind: k.kind}
			totals[k] = entry
			order = append(order, k)
		}
		entry.Count++
		entry.Normalized = entry.Normalized.Add(amount)

		if k.kind == model.KindIncome {
			summary.TotalIncome = summary.TotalIncome.Add(amount)
		} else {
			summary.TotalExpenses = summary.TotalExpenses.Add(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary: %w", err)
	}

	for _, k := range order {
		summary.ByCategory = append(summary.ByCategory, *totals[k])
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)

	return summary, nil
}
