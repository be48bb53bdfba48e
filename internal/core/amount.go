// Package core holds the domain types shared by the bot, the services and
// the scheduler: ledger entries, recurring rules, amounts and dates.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative monetary value. It serializes as a bare JSON
// number so data files written by older versions of the tracker keep their
// layout; decimal arithmetic avoids the float drift those files suffered
// from.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal value as an Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromInt is a convenience for whole currency units.
func AmountFromInt(n int64) Amount {
	return Amount{Decimal: decimal.NewFromInt(n)}
}

// ParseAmount parses user input into an Amount. Both dot and comma decimal
// separators are accepted; negative values and signs are rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Amount{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{Decimal: d}, nil
}

func (a Amount) Validate() error {
	if a.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (a Amount) Add(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Add(b.Decimal)}
}

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool {
	return a.Decimal.GreaterThan(b.Decimal)
}

// Equal reports numeric equality (5000 == 5000.0).
func (a Amount) Equal(b Amount) bool {
	return a.Decimal.Equal(b.Decimal)
}

// Display renders the amount with two decimal places for user-facing text.
func (a Amount) Display() string {
	return a.StringFixed(2)
}

// MarshalJSON writes the amount as a bare number, matching the historic
// data-file layout.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	a.Decimal = d
	return nil
}
