package model

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyNormalize(t *testing.T) {
	tests := []struct {
		name   string
		freq   Frequency
		amount int64
		want   string
	}{
		{name: "once counts fully", freq: FrequencyOnce, amount: 100, want: "100"},
		{name: "monthly unchanged", freq: FrequencyMonthly, amount: 100, want: "100"},
		{name: "daily scales up", freq: FrequencyDaily, amount: 10, want: "304.4"},
		{name: "weekly scales up", freq: FrequencyWeekly, amount: 100, want: "434.8"},
		{name: "yearly divides by twelve", freq: FrequencyYearly, amount: 120, want: "10"},
		{name: "yearly stays exact", freq: FrequencyYearly, amount: 1200, want: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.freq.Normalize(decimal.NewFromInt(tt.amount))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestParseFrequency(t *testing.T) {
	for _, f := range Frequencies() {
		parsed, err := ParseFrequency(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseFrequency("fortnightly")
	assert.Error(t, err)
}

func TestFrequencyLabel(t *testing.T) {
	assert.Equal(t, "Monthly", FrequencyMonthly.Label())
	assert.Equal(t, "One-off", FrequencyOnce.Label())
	assert.Equal(t, "bogus", Frequency("bogus").Label())
}

func TestNewTransactionID(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]+$`)

	tests := []struct {
		name  string
		input string
		slug  string
	}{
		{name: "simple", input: "Rent", slug: "rent-"},
		{name: "spaces become hyphens", input: "Car Insurance", slug: "car-insurance-"},
		{name: "punctuation collapses", input: "Netflix & Spotify!!", slug: "netflix-spotify-"},
		{name: "unusable name falls back", input: "¯\\_(ツ)_/¯", slug: "txn-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewTransactionID(tt.input)
			assert.True(t, valid.MatchString(id), "id %q has invalid characters", id)
			assert.Contains(t, id, tt.slug)
		})
	}

	// The random suffix keeps same-named transactions distinct, almost always.
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		seen[NewTransactionID("Rent")] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestTransactionSignedAmount(t *testing.T) {
	expense := Transaction{Kind: KindExpense, Amount: decimal.NewFromInt(1200)}
	assert.True(t, expense.SignedAmount().Equal(decimal.NewFromInt(-1200)))

	income := Transaction{Kind: KindIncome, Amount: decimal.NewFromInt(3000)}
	assert.True(t, income.SignedAmount().Equal(decimal.NewFromInt(3000)))
}

func TestTransactionReference(t *testing.T) {
	txn := Transaction{
		ID:     "rent-1",
		Name:   "Rent",
		Kind:   KindExpense,
		Amount: decimal.NewFromInt(1200),
	}

	ref := txn.Reference()
	assert.Equal(t, "rent-1", ref.ID)
	assert.Equal(t, "Rent", ref.Label)
	assert.True(t, ref.SignedAmount.Equal(decimal.NewFromInt(-1200)))
}

func TestFindReference(t *testing.T) {
	refs := []Reference{
		{ID: "rent-1", Label: "Rent"},
		{ID: "salary-1", Label: "Salary"},
	}

	ref, ok := FindReference(refs, "salary-1")
	require.True(t, ok)
	assert.Equal(t, "Salary", ref.Label)

	_, ok = FindReference(refs, "missing")
	assert.False(t, ok)
}
