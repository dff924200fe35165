// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and decimal currency representations.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxCents keeps amounts well inside float64's exact integer range so chart
// math on cent sums never loses precision.
const maxCents = int64(1) << 50

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero is accepted; signs,
// exponents, empty strings and anything else that is not a plain decimal are
// rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (half-up)
//	ParseDecimalToCents("12.344") -> 1234, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			// Rejects signs and exponents that decimal would otherwise accept.
			return 0, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(decimal.NewFromInt(maxCents)) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// Decimal returns the amount as an exact decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Units returns the amount in whole currency units as a float64.
// Use cents for sums; this is meant for scaling and display only.
func (m Money) Units() float64 {
	return m.Decimal().InexactFloat64()
}

// Format renders the amount with two decimals and the given currency symbol.
func (m Money) Format(symbol string) string {
	s := m.Decimal().StringFixed(2)
	if m.Cents < 0 {
		return "-" + symbol + strings.TrimPrefix(s, "-")
	}
	return symbol + s
}

// String implements fmt.Stringer without a currency symbol.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}
