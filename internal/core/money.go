// Package core provides money rounding and parsing utilities.
//
// Amounts are float64 currency units. Every value that leaves a computation is
// rounded to cents with half-up semantics via Round2.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SafeAmount maps NaN and infinities to 0 so they never leak into sums.
func SafeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Round2 rounds v to two decimal places, halves away from zero.
//
// The float is first converted to its shortest decimal representation, so
// Round2(1.005) is 1.01 rather than the 1.00 a binary multiply would give.
func Round2(v float64) float64 {
	v = SafeAmount(v)
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ParseAmount converts user text to an amount. Thousands separators and
// surrounding whitespace are ignored. Unparseable input yields 0.
//
// Examples:
//
//	ParseAmount("1,250.50") -> 1250.5
//	ParseAmount(" 42 ")     -> 42
//	ParseAmount("abc")      -> 0
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return SafeAmount(d.InexactFloat64())
}

// sum adds values with decimal precision and returns the rounded total.
func sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(SafeAmount(v)))
	}
	return total.Round(2).InexactFloat64()
}
