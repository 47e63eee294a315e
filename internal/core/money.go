// Package core implements the grid-to-summary transformation: locating
// labeled rows in a spreadsheet grid, aggregating sections, and building
// the weekly cash-flow summary.
//
// This file contains the money parser. Sheet cells carry amounts as
// locale-formatted strings ("$ 1.234.567", dot as thousands separator,
// whole currency units) and the parser must always produce a number.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a formatted currency cell into whole currency units.
//
// Currency symbols, whitespace and dot thousands separators are stripped;
// a decimal comma is honoured and rounded half away from zero. Empty or
// non-numeric input yields 0; cell parsing never fails.
//
// Examples:
//
//	ParseAmount("1.000.000")   -> 1000000
//	ParseAmount("$ 2.500")     -> 2500
//	ParseAmount("-500")        -> -500
//	ParseAmount("n/a")         -> 0
func ParseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ',':
			// Decimal comma: normalize so ParseFloat understands it.
			b.WriteRune('.')
		case r == '.':
			// Thousands separator in the source data; drop it.
		default:
			// Currency symbols, spaces, stray text.
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f))
}

// ParseAmountAny handles the mixed cell values the Sheets API returns.
// Numbers pass through rounded, strings go through ParseAmount, nil is 0.
func ParseAmountAny(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(math.Round(x))
	case string:
		return ParseAmount(x)
	default:
		return 0
	}
}
