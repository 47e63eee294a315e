package core

import "strings"

// SectionKind tags what a row label means for the extraction. Labels are
// classified once, so the aggregation steps never re-match free text.
type SectionKind int

const (
	SectionUnknown SectionKind = iota // detail/category row
	SectionIncome                     // opens the income detail section
	SectionOpex                       // opens the operating-expense section
	SectionCapex                      // opens the capital-expenditure section
	SectionTaxes                      // opens the taxes section
	SectionTotal                      // totals or balance row, closes any section
)

// Layout describes one sheet convention: where the labels and the date
// axis live, which labels open each detail section, and which labels
// identify the totals rows. The extraction is parameterized by a Layout
// instead of being rewritten per sheet variant.
type Layout struct {
	// LabelCol is the column holding row labels, normally 0.
	LabelCol int
	// MonthRow and WeekRow are the date-axis header rows. WeekRow may be
	// -1 when the month row carries the week labels itself.
	MonthRow int
	WeekRow  int

	// Section header labels, matched case-insensitively against the
	// label cell. A label may appear under multiple conventions
	// ("Detalle Egresos" and plain "OPEX" both open the opex section).
	IncomeSections []string
	OpexSections   []string
	CapexSections  []string
	TaxSections    []string

	// TotalPrefixes close any open section ("Total ...", "SALDO ...").
	TotalPrefixes []string

	// Accepted labels for each totals anchor row, in preference order.
	IncomeTotal     []string
	OpexTotal       []string
	CapexTotal      []string
	TaxesTotal      []string
	NetBalance      []string
	CumulativeTotal []string
}

// DefaultLayout matches the layout of the production cash-flow sheet:
// labels in column A, months in row 1 and week labels in row 2, Spanish
// section and totals labels.
func DefaultLayout() Layout {
	return Layout{
		LabelCol:        0,
		MonthRow:        0,
		WeekRow:         1,
		IncomeSections:  []string{"Detalle Ingresos", "Ingresos"},
		OpexSections:    []string{"Detalle Egresos", "OPEX"},
		CapexSections:   []string{"CAPEX"},
		TaxSections:     []string{"Impuestos"},
		TotalPrefixes:   []string{"Total", "SALDO"},
		IncomeTotal:     []string{"Total Ingresos"},
		OpexTotal:       []string{"Total OPEX", "Total Egresos"},
		CapexTotal:      []string{"Total CAPEX"},
		TaxesTotal:      []string{"Total Impuestos"},
		NetBalance:      []string{"SALDO NETO", "Saldo Neto"},
		CumulativeTotal: []string{"SALDO ACUMULADO", "Saldo Acumulado"},
	}
}

// Classify tags a row label. Section headers and totals rows are the
// only structural labels; everything else is a free-text category.
func (l Layout) Classify(label string) SectionKind {
	label = strings.TrimSpace(label)
	if label == "" {
		return SectionUnknown
	}
	switch {
	case matchesAny(label, l.IncomeSections):
		return SectionIncome
	case matchesAny(label, l.OpexSections):
		return SectionOpex
	case matchesAny(label, l.CapexSections):
		return SectionCapex
	case matchesAny(label, l.TaxSections):
		return SectionTaxes
	}
	for _, p := range l.TotalPrefixes {
		if len(label) >= len(p) && strings.EqualFold(label[:len(p)], p) {
			return SectionTotal
		}
	}
	return SectionUnknown
}

func matchesAny(label string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(label, strings.TrimSpace(c)) {
			return true
		}
	}
	return false
}

// Anchors holds the resolved row index of each totals row. Any field may
// be RowNotFound, in which case the corresponding figures default to
// zero or are computed from the others.
type Anchors struct {
	Income     int
	Opex       int
	Capex      int
	Taxes      int
	Net        int
	Cumulative int
}

// FindAnchors locates every totals row the layout names.
func FindAnchors(g Grid, l Layout) Anchors {
	return Anchors{
		Income:     findAnchor(g, l.LabelCol, l.IncomeTotal),
		Opex:       findAnchor(g, l.LabelCol, l.OpexTotal),
		Capex:      findAnchor(g, l.LabelCol, l.CapexTotal),
		Taxes:      findAnchor(g, l.LabelCol, l.TaxesTotal),
		Net:        findAnchor(g, l.LabelCol, l.NetBalance),
		Cumulative: findAnchor(g, l.LabelCol, l.CumulativeTotal),
	}
}
