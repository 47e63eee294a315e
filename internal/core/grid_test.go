package core

import (
	"reflect"
	"testing"
)

func TestCellOutOfRange(t *testing.T) {
	g := Grid{{"a", "b"}, {"c"}}
	cases := []struct {
		row, col int
		want     string
	}{
		{0, 0, "a"},
		{0, 1, "b"},
		{1, 1, ""},
		{-1, 0, ""},
		{5, 0, ""},
		{0, -1, ""},
	}
	for _, tc := range cases {
		if got := g.Cell(tc.row, tc.col); got != tc.want {
			t.Fatalf("Cell(%d,%d) = %q, want %q", tc.row, tc.col, got, tc.want)
		}
	}
}

func TestFindRow(t *testing.T) {
	g := Grid{
		{"", "Oct"},
		{"Detalle Ingresos"},
		{"Ventas web", "100"},
		{"Total Ingresos", "100"},
		{"Total Ingresos", "999"}, // repeated label, first wins
	}
	if got := FindRow(g, 0, MatchExact("total ingresos")); got != 3 {
		t.Fatalf("exact match = %d, want 3", got)
	}
	if got := FindRow(g, 0, MatchContains("ventas")); got != 2 {
		t.Fatalf("substring match = %d, want 2", got)
	}
	if got := FindRow(g, 0, MatchExact("Total CAPEX")); got != RowNotFound {
		t.Fatalf("missing label = %d, want RowNotFound", got)
	}
}

func TestDateAxisForwardFill(t *testing.T) {
	g := Grid{
		{"", "Octubre", "", "", "Noviembre"},
		{"", "W1", "W2", "W3", "W1"},
	}
	got := DateAxis(g, 0, 1, 0)
	want := []AxisEntry{
		{Month: "Octubre", Week: "W1", Col: 1},
		{Month: "Octubre", Week: "W2", Col: 2},
		{Month: "Octubre", Week: "W3", Col: 3},
		{Month: "Noviembre", Week: "W1", Col: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DateAxis = %+v, want %+v", got, want)
	}
}

func TestDateAxisSkipsEmptyWeeks(t *testing.T) {
	g := Grid{
		{"", "Octubre", "Noviembre", "Diciembre"},
		{"", "W1", "", "W1"},
	}
	got := DateAxis(g, 0, 1, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 axis entries, got %d: %+v", len(got), got)
	}
	if got[1].Month != "Diciembre" || got[1].Col != 3 {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
}

func TestDateAxisWithoutWeekRow(t *testing.T) {
	g := Grid{
		{"", "Oct-W1", "Oct-W2"},
	}
	got := DateAxis(g, 0, -1, 0)
	want := []AxisEntry{
		{Month: "Oct-W1", Week: "Oct-W1", Col: 1},
		{Month: "Oct-W2", Week: "Oct-W2", Col: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DateAxis = %+v, want %+v", got, want)
	}
}

func TestDateAxisEmptyGrid(t *testing.T) {
	if got := DateAxis(Grid{}, 0, 1, 0); got != nil {
		t.Fatalf("expected nil axis, got %+v", got)
	}
}

func TestClassify(t *testing.T) {
	l := DefaultLayout()
	cases := []struct {
		label string
		want  SectionKind
	}{
		{"Detalle Ingresos", SectionIncome},
		{"OPEX", SectionOpex},
		{"Detalle Egresos", SectionOpex},
		{"CAPEX", SectionCapex},
		{"Impuestos", SectionTaxes},
		{"Total Ingresos", SectionTotal},
		{"SALDO ACUMULADO", SectionTotal},
		{"total opex", SectionTotal},
		{"Ventas web", SectionUnknown},
		{"", SectionUnknown},
	}
	for _, tc := range cases {
		if got := l.Classify(tc.label); got != tc.want {
			t.Fatalf("Classify(%q) = %d, want %d", tc.label, got, tc.want)
		}
	}
}

func TestFindAnchorsDegradesToNotFound(t *testing.T) {
	g := Grid{
		{"", "W1"},
		{"Total Ingresos", "100"},
	}
	a := FindAnchors(g, DefaultLayout())
	if a.Income != 1 {
		t.Fatalf("income anchor = %d, want 1", a.Income)
	}
	for name, row := range map[string]int{
		"opex":       a.Opex,
		"capex":      a.Capex,
		"taxes":      a.Taxes,
		"net":        a.Net,
		"cumulative": a.Cumulative,
	} {
		if row != RowNotFound {
			t.Fatalf("%s anchor = %d, want RowNotFound", name, row)
		}
	}
}
