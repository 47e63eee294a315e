package core

import "strings"

// Grid is the rectangular range of string cells fetched from the
// spreadsheet. Rows may be ragged; out-of-range access reads as empty.
// A Grid is request-scoped and never mutated after construction.
type Grid [][]string

// RowNotFound is the sentinel returned when a label row is absent.
// Callers treat it as "section missing" and degrade to zero totals.
const RowNotFound = -1

// Cell returns the trimmed cell at (row, col), or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// RowMatch reports whether a label cell satisfies a lookup.
type RowMatch func(label string) bool

// MatchExact matches the whole label, case-insensitively.
func MatchExact(want string) RowMatch {
	want = strings.TrimSpace(want)
	return func(label string) bool {
		return strings.EqualFold(label, want)
	}
}

// MatchContains matches a case-insensitive substring of the label.
func MatchContains(want string) RowMatch {
	want = strings.ToLower(strings.TrimSpace(want))
	return func(label string) bool {
		return strings.Contains(strings.ToLower(label), want)
	}
}

// FindRow scans rows in order and returns the index of the first row
// whose label cell matches, or RowNotFound. First match wins; callers
// that need a bounded window slice the grid before searching.
func FindRow(g Grid, labelCol int, match RowMatch) int {
	for i := range g {
		if match(g.Cell(i, labelCol)) {
			return i
		}
	}
	return RowNotFound
}

// findAnchor resolves a totals row from a list of accepted label
// variants. Exact matches across all variants win over substring
// matches, so "Total OPEX" is preferred to a row merely containing it.
func findAnchor(g Grid, labelCol int, labels []string) int {
	for _, l := range labels {
		if r := FindRow(g, labelCol, MatchExact(l)); r != RowNotFound {
			return r
		}
	}
	for _, l := range labels {
		if r := FindRow(g, labelCol, MatchContains(l)); r != RowNotFound {
			return r
		}
	}
	return RowNotFound
}

// AxisEntry is one (month, week) pair of the date axis together with
// the grid column it is aligned to.
type AxisEntry struct {
	Month string
	Week  string
	Col   int
}

// DateAxis builds the ordered date axis from the month and week header
// rows. Columns up to and including labelCol are excluded. A non-empty
// month cell starts the current month, which is carried forward across
// following columns until the next non-empty month cell. Columns whose
// week cell is empty are skipped. When weekRow is negative the sheet has
// no dedicated week row and the month row doubles as the week label.
func DateAxis(g Grid, monthRow, weekRow, labelCol int) []AxisEntry {
	if monthRow < 0 || monthRow >= len(g) {
		return nil
	}
	width := len(g[monthRow])
	if weekRow >= 0 && weekRow < len(g) && len(g[weekRow]) > width {
		width = len(g[weekRow])
	}

	var axis []AxisEntry
	month := ""
	for col := labelCol + 1; col < width; col++ {
		if m := g.Cell(monthRow, col); m != "" {
			month = m
		}
		week := month
		if weekRow >= 0 {
			week = g.Cell(weekRow, col)
		}
		if week == "" {
			continue
		}
		axis = append(axis, AxisEntry{Month: month, Week: week, Col: col})
	}
	return axis
}
