package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Defaults for the derived figures of a summary.
const (
	DefaultTopN           = 5
	DefaultForecastWindow = 4
)

// Period is one column of the weekly summary. Amounts are whole
// currency units. CumulativeBalance is the running balance carried
// left to right across the axis.
type Period struct {
	Month              string `json:"month"`
	Week               string `json:"week"`
	Income             int64  `json:"income"`
	OperatingExpense   int64  `json:"operatingExpense"`
	CapitalExpenditure int64  `json:"capitalExpenditure"`
	Taxes              int64  `json:"taxes"`
	NetBalance         int64  `json:"netBalance"`
	CumulativeBalance  int64  `json:"cumulativeBalance"`
}

// RankingEntry is one row of a top-N category ranking.
type RankingEntry struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// Forecast is the naive one-period projection from the trailing window.
type Forecast struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

// Summary is the full response body of the summary endpoint. Debug
// carries human-readable notes about anchors or sections that were not
// found; the grid is still summarized with zeros in their place.
type Summary struct {
	Periods    []Period       `json:"periods"`
	TopIncome  []RankingEntry `json:"topIncome"`
	TopExpense []RankingEntry `json:"topExpense"`
	Forecast   Forecast       `json:"forecast"`
	Debug      []string       `json:"debug,omitempty"`
}

// CategoryTotals is an accumulated category→amount mapping that
// remembers first-encounter order so rankings can break ties stably.
type CategoryTotals struct {
	amounts map[string]int64
	order   []string
}

// NewCategoryTotals returns an empty mapping.
func NewCategoryTotals() *CategoryTotals {
	return &CategoryTotals{amounts: make(map[string]int64)}
}

// Add accumulates an amount under a category, summing duplicates.
func (t *CategoryTotals) Add(category string, amount int64) {
	if _, seen := t.amounts[category]; !seen {
		t.order = append(t.order, category)
	}
	t.amounts[category] += amount
}

// Len returns the number of distinct categories.
func (t *CategoryTotals) Len() int { return len(t.amounts) }

// SumSection walks the rows after the section header at startRow and
// sums every cell in the axis columns. The section ends at the first
// row whose label cell is empty or classifies as a structural label
// (another section header or a totals row); that single boundary rule
// is applied uniformly for every sheet variant.
func SumSection(g Grid, l Layout, startRow int, axis []AxisEntry) int64 {
	var total int64
	walkSection(g, l, startRow, func(_ string, row int) {
		for _, e := range axis {
			total += ParseAmount(g.Cell(row, e.Col))
		}
	})
	return total
}

// SumSectionByCategory is SumSection grouped by row label. Rows whose
// sum is zero stay in the mapping; rankings drop them later.
func SumSectionByCategory(g Grid, l Layout, startRow int, axis []AxisEntry, into *CategoryTotals) {
	walkSection(g, l, startRow, func(label string, row int) {
		var sum int64
		for _, e := range axis {
			sum += ParseAmount(g.Cell(row, e.Col))
		}
		into.Add(label, sum)
	})
}

func walkSection(g Grid, l Layout, startRow int, visit func(label string, row int)) {
	if startRow == RowNotFound {
		return
	}
	for row := startRow + 1; row < len(g); row++ {
		label := g.Cell(row, l.LabelCol)
		if label == "" || l.Classify(label) != SectionUnknown {
			return
		}
		visit(label, row)
	}
}

// BuildPeriods assembles one Period per axis entry from the anchor rows.
// Anchors that were not found read as zero. When the sheet has no net or
// cumulative balance row the figures are derived: net as income minus
// all expenses, cumulative as the running fold of net starting at zero.
// Periods with no income, no expenses and a zero running balance are
// dropped rather than emitted as all-zero weeks.
func BuildPeriods(g Grid, a Anchors, axis []AxisEntry) []Period {
	periods := make([]Period, 0, len(axis))
	var running int64
	for _, e := range axis {
		p := Period{
			Month:              e.Month,
			Week:               e.Week,
			Income:             anchorAmount(g, a.Income, e.Col),
			OperatingExpense:   anchorAmount(g, a.Opex, e.Col),
			CapitalExpenditure: anchorAmount(g, a.Capex, e.Col),
			Taxes:              anchorAmount(g, a.Taxes, e.Col),
		}
		if a.Net != RowNotFound {
			p.NetBalance = anchorAmount(g, a.Net, e.Col)
		} else {
			p.NetBalance = p.Income - p.OperatingExpense - p.CapitalExpenditure - p.Taxes
		}
		if a.Cumulative != RowNotFound {
			p.CumulativeBalance = anchorAmount(g, a.Cumulative, e.Col)
		} else {
			running += p.NetBalance
			p.CumulativeBalance = running
		}

		if p.Income == 0 && p.OperatingExpense == 0 && p.CapitalExpenditure == 0 && p.CumulativeBalance == 0 {
			continue
		}
		periods = append(periods, p)
	}
	return periods
}

func anchorAmount(g Grid, row, col int) int64 {
	if row == RowNotFound {
		return 0
	}
	return ParseAmount(g.Cell(row, col))
}

// TopN returns the n largest strictly positive category totals, sorted
// descending, ties broken by first-encounter order.
func TopN(t *CategoryTotals, n int) []RankingEntry {
	if n <= 0 {
		n = DefaultTopN
	}
	entries := make([]RankingEntry, 0, t.Len())
	for _, cat := range t.order {
		if amt := t.amounts[cat]; amt > 0 {
			entries = append(entries, RankingEntry{Category: cat, Amount: amt})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount > entries[j].Amount
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// ForecastNext projects the next period as the rounded mean of the last
// window periods. Expense covers opex, capex and taxes. Fewer periods
// than the window means the whole history is used; no history at all
// projects zeros.
func ForecastNext(periods []Period, window int) Forecast {
	if window <= 0 {
		window = DefaultForecastWindow
	}
	if len(periods) == 0 {
		return Forecast{}
	}
	if len(periods) > window {
		periods = periods[len(periods)-window:]
	}
	var income, expense int64
	for _, p := range periods {
		income += p.Income
		expense += p.OperatingExpense + p.CapitalExpenditure + p.Taxes
	}
	f := Forecast{
		Income:  roundedMean(income, len(periods)),
		Expense: roundedMean(expense, len(periods)),
	}
	f.Net = f.Income - f.Expense
	return f
}

func roundedMean(sum int64, n int) int64 {
	return int64(math.Round(float64(sum) / float64(n)))
}

// BuildSummary runs the whole extraction: date axis, anchors, section
// aggregation, rankings and forecast. A malformed grid degrades to an
// empty summary with notes in Debug instead of failing.
func BuildSummary(g Grid, l Layout, topN, forecastWindow int) Summary {
	var s Summary
	if len(g) == 0 {
		s.Debug = append(s.Debug, "empty grid")
		return s
	}

	axis := DateAxis(g, l.MonthRow, l.WeekRow, l.LabelCol)
	if len(axis) == 0 {
		s.Debug = append(s.Debug, "no date axis columns found")
		return s
	}

	anchors := FindAnchors(g, l)
	s.Debug = append(s.Debug, missingAnchorNotes(anchors, l)...)

	s.Periods = BuildPeriods(g, anchors, axis)
	s.Forecast = ForecastNext(s.Periods, forecastWindow)

	income := NewCategoryTotals()
	expense := NewCategoryTotals()
	for row := range g {
		switch l.Classify(g.Cell(row, l.LabelCol)) {
		case SectionIncome:
			SumSectionByCategory(g, l, row, axis, income)
		case SectionOpex, SectionCapex, SectionTaxes:
			SumSectionByCategory(g, l, row, axis, expense)
		}
	}
	s.TopIncome = TopN(income, topN)
	s.TopExpense = TopN(expense, topN)
	return s
}

// FilterPeriods narrows periods to a single week label; an empty label
// keeps everything. Matching is case-insensitive.
func FilterPeriods(periods []Period, week string) []Period {
	week = strings.TrimSpace(week)
	if week == "" {
		return periods
	}
	out := make([]Period, 0, 1)
	for _, p := range periods {
		if strings.EqualFold(p.Week, week) {
			out = append(out, p)
		}
	}
	return out
}

func missingAnchorNotes(a Anchors, l Layout) []string {
	var notes []string
	missing := func(row int, labels []string) {
		if row == RowNotFound && len(labels) > 0 {
			notes = append(notes, fmt.Sprintf("anchor row not found: %s", labels[0]))
		}
	}
	missing(a.Income, l.IncomeTotal)
	missing(a.Opex, l.OpexTotal)
	missing(a.Capex, l.CapexTotal)
	missing(a.Taxes, l.TaxesTotal)
	missing(a.Net, l.NetBalance)
	missing(a.Cumulative, l.CumulativeTotal)
	return notes
}
