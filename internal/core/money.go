// Package core provides the ledger domain types and parsing rules.
//
// This file contains the currency rule for Brazilian locale amounts:
// "." is a thousands separator, "," is the decimal separator, and any
// surrounding text ("R$", spaces) is noise.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseBRLToCents converts locale-formatted currency text to cents.
//
// The rule mirrors the source sheet conventions: thousands dots are stripped,
// the decimal comma becomes a decimal point, and any remaining character that
// is not a digit, sign or dot is discarded before parsing. Text that still
// does not parse normalizes to zero cents.
//
// Examples:
//
//	ParseBRLToCents("1234,56")     -> 123456
//	ParseBRLToCents("1.234,56")    -> 123456
//	ParseBRLToCents("R$ 1.234,56") -> 123456
//	ParseBRLToCents("")            -> 0
//	ParseBRLToCents("isento")      -> 0
func ParseBRLToCents(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}

// Reais returns the amount as a float64 for display purposes only.
// Calculations stay in cents to avoid floating-point drift.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// IsZero reports whether the amount is zero cents.
func (m Money) IsZero() bool {
	return m.Cents == 0
}
