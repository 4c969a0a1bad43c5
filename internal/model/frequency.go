package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Frequency describes how often a transaction recurs.
type Frequency string

const (
	// FrequencyOnce is a one-off transaction.
	FrequencyOnce Frequency = "once"
	// FrequencyDaily recurs every day.
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly recurs every week.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyMonthly recurs every month.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyYearly recurs every year.
	FrequencyYearly Frequency = "yearly"
)

// frequencyInfo carries the display label and the monthly rescale factor as
// a num/den rational, applied to the amount itself in Normalize. Yearly
// divides the amount by 12 rather than multiplying by a rounded 1/12.
type frequencyInfo struct {
	label string
	num   decimal.Decimal
	den   decimal.Decimal
}

var one = decimal.NewFromInt(1)

// frequencyTable is the single source of truth for frequency labels and
// normalization factors. A one-off transaction counts fully in the month it
// occurs, so its factor is 1.
var frequencyTable = map[Frequency]frequencyInfo{
	FrequencyOnce:    {label: "One-off", num: one, den: one},
	FrequencyDaily:   {label: "Daily", num: decimal.NewFromFloat(30.44), den: one},
	FrequencyWeekly:  {label: "Weekly", num: decimal.NewFromFloat(4.348), den: one},
	FrequencyMonthly: {label: "Monthly", num: one, den: one},
	FrequencyYearly:  {label: "Yearly", num: one, den: decimal.NewFromInt(12)},
}

// Frequencies lists all frequencies in display order.
func Frequencies() []Frequency {
	return []Frequency{
		FrequencyOnce,
		FrequencyDaily,
		FrequencyWeekly,
		FrequencyMonthly,
		FrequencyYearly,
	}
}

// Label returns the human-readable label, falling back to the raw value for
// unknown frequencies.
func (f Frequency) Label() string {
	if info, ok := frequencyTable[f]; ok {
		return info.label
	}
	return string(f)
}

// Normalize rescales amount to its monthly equivalent.
func (f Frequency) Normalize(amount decimal.Decimal) decimal.Decimal {
	info, ok := frequencyTable[f]
	if !ok {
		return amount
	}
	return amount.Mul(info.num).Div(info.den)
}

// ParseFrequency validates a frequency string.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if _, ok := frequencyTable[f]; !ok {
		return "", fmt.Errorf("invalid frequency: %q", s)
	}
	return f, nil
}
