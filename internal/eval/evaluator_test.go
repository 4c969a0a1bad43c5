package eval

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthomsen/reckon/internal/model"
)

func testRefs() []model.Reference {
	return []model.Reference{
		{ID: "txn-1", Label: "Salary", SignedAmount: decimal.NewFromInt(3000)},
		{ID: "txn-2", Label: "Rent", SignedAmount: decimal.NewFromInt(-1200)},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		freq     model.Frequency
		want     string
		wantKind model.TransactionKind
	}{
		{
			name:     "plain number",
			raw:      "100",
			freq:     model.FrequencyMonthly,
			want:     "100",
			wantKind: model.KindIncome,
		},
		{
			name:     "arithmetic with precedence",
			raw:      "2 + 3 * 4",
			freq:     model.FrequencyMonthly,
			want:     "14",
			wantKind: model.KindIncome,
		},
		{
			name:     "parentheses",
			raw:      "(2 + 3) * 4",
			freq:     model.FrequencyMonthly,
			want:     "20",
			wantKind: model.KindIncome,
		},
		{
			name:     "reference resolves to signed amount",
			raw:      "$txn-1 * 0.12 + 50",
			freq:     model.FrequencyMonthly,
			want:     "410",
			wantKind: model.KindIncome,
		},
		{
			name:     "negative result is an expense",
			raw:      "$txn-2 + 200",
			freq:     model.FrequencyMonthly,
			want:     "1000",
			wantKind: model.KindExpense,
		},
		{
			name:     "unary minus",
			raw:      "-50 + 20",
			freq:     model.FrequencyMonthly,
			want:     "30",
			wantKind: model.KindExpense,
		},
		{
			name:     "decimal division stays exact enough",
			raw:      "10 / 4",
			freq:     model.FrequencyMonthly,
			want:     "2.5",
			wantKind: model.KindIncome,
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(context.Background(), tt.raw, tt.freq, testRefs())
			require.NoError(t, err)
			require.True(t, got.Valid, "hint: %s", got.Hint)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, got.Amount.Equal(want), "want %s, got %s", want, got.Amount)
			assert.Equal(t, tt.wantKind, got.Kind)
		})
	}
}

func TestEvaluateInvalid(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantHint string
	}{
		{name: "empty", raw: "", wantHint: "enter an amount or expression"},
		{name: "whitespace only", raw: "   ", wantHint: "enter an amount or expression"},
		{name: "trailing operator", raw: "100 +", wantHint: "incomplete expression"},
		{name: "lone operator", raw: "*", wantHint: "incomplete expression"},
		{name: "unbalanced paren", raw: "(1 + 2", wantHint: "incomplete expression"},
		{name: "division by zero", raw: "1 / 0", wantHint: "incomplete expression"},
		{name: "unknown reference", raw: "$nope + 1", wantHint: "unknown reference $nope"},
		{name: "bare dollar", raw: "100 + $", wantHint: "incomplete expression"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(context.Background(), tt.raw, model.FrequencyMonthly, testRefs())
			require.NoError(t, err)
			assert.False(t, got.Valid)
			assert.Equal(t, tt.wantHint, got.Hint)
		})
	}
}

func TestEvaluateNormalizes(t *testing.T) {
	e := New()

	got, err := e.Evaluate(context.Background(), "120", model.FrequencyYearly, nil)
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(120)))
	assert.True(t, got.NormalizedAmount.Equal(decimal.NewFromInt(10)),
		"yearly 120 should normalize to 10 per month, got %s", got.NormalizedAmount)
}

func TestEvaluateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Evaluate(ctx, "1 + 1", model.FrequencyMonthly, nil)
	assert.Error(t, err)
}
