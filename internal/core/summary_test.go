package core

import (
	"reflect"
	"testing"
)

// headerlessLayout matches grids whose single header row carries the
// combined month/week labels.
func headerlessLayout() Layout {
	l := DefaultLayout()
	l.MonthRow = 0
	l.WeekRow = -1
	return l
}

func TestSumSectionEmptyRange(t *testing.T) {
	g := Grid{
		{"", "W1", "W2"},
		{"Detalle Ingresos"},
		{""}, // section immediately closed
		{"Ventas web", "100", "200"},
	}
	l := headerlessLayout()
	axis := DateAxis(g, 0, -1, 0)
	if got := SumSection(g, l, 1, axis); got != 0 {
		t.Fatalf("SumSection over empty section = %d, want 0", got)
	}
	totals := NewCategoryTotals()
	SumSectionByCategory(g, l, 1, axis, totals)
	if totals.Len() != 0 {
		t.Fatalf("expected empty mapping, got %d categories", totals.Len())
	}
}

func TestSumSectionStopsAtStructuralLabel(t *testing.T) {
	g := Grid{
		{"", "W1"},
		{"Detalle Ingresos"},
		{"Ventas web", "1.000"},
		{"Marketplace", "500"},
		{"Total Ingresos", "1.500"},
		{"Sigue otra cosa", "999"},
	}
	l := headerlessLayout()
	axis := DateAxis(g, 0, -1, 0)
	if got := SumSection(g, l, 1, axis); got != 1500 {
		t.Fatalf("SumSection = %d, want 1500", got)
	}
}

func TestSumSectionByCategorySumsDuplicates(t *testing.T) {
	g := Grid{
		{"", "W1", "W2"},
		{"OPEX"},
		{"Logística", "100", "200"},
		{"Sueldos", "300", ""},
		{"Logística", "50", "0"},
	}
	l := headerlessLayout()
	axis := DateAxis(g, 0, -1, 0)
	totals := NewCategoryTotals()
	SumSectionByCategory(g, l, 1, axis, totals)
	got := TopN(totals, 5)
	want := []RankingEntry{
		{Category: "Logística", Amount: 350},
		{Category: "Sueldos", Amount: 300},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("by-category = %+v, want %+v", got, want)
	}
}

func TestTopNStableTruncatedPositive(t *testing.T) {
	totals := NewCategoryTotals()
	totals.Add("a", 100)
	totals.Add("b", 100) // tie, must stay after a
	totals.Add("c", 500)
	totals.Add("d", 0)  // dropped, not strictly positive
	totals.Add("e", -5) // dropped
	totals.Add("f", 50)

	got := TopN(totals, 3)
	want := []RankingEntry{
		{Category: "c", Amount: 500},
		{Category: "a", Amount: 100},
		{Category: "b", Amount: 100},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopN = %+v, want %+v", got, want)
	}
}

func TestForecastNext(t *testing.T) {
	periods := []Period{
		{Income: 100, OperatingExpense: 80},
		{Income: 120, OperatingExpense: 90},
	}
	got := ForecastNext(periods, 2)
	want := Forecast{Income: 110, Expense: 85, Net: 25}
	if got != want {
		t.Fatalf("ForecastNext = %+v, want %+v", got, want)
	}
}

func TestForecastNextShortHistory(t *testing.T) {
	if got := ForecastNext(nil, 4); got != (Forecast{}) {
		t.Fatalf("empty history forecast = %+v, want zeros", got)
	}
	got := ForecastNext([]Period{{Income: 100, Taxes: 30}}, 4)
	want := Forecast{Income: 100, Expense: 30, Net: 70}
	if got != want {
		t.Fatalf("single-period forecast = %+v, want %+v", got, want)
	}
}

func TestForecastWindowUsesTrailingPeriods(t *testing.T) {
	periods := []Period{
		{Income: 1000},
		{Income: 100, OperatingExpense: 50},
		{Income: 200, CapitalExpenditure: 50},
	}
	got := ForecastNext(periods, 2)
	want := Forecast{Income: 150, Expense: 50, Net: 100}
	if got != want {
		t.Fatalf("ForecastNext = %+v, want %+v", got, want)
	}
}

func TestBuildPeriodsEndToEnd(t *testing.T) {
	g := Grid{
		{"", "Oct-W1", "Oct-W2"},
		{"Total Ingresos", "1.000.000", "2.000.000"},
		{"Total OPEX", "500.000", "600.000"},
		{"SALDO ACUMULADO", "500.000", "1.900.000"},
	}
	l := headerlessLayout()
	axis := DateAxis(g, 0, -1, 0)
	got := BuildPeriods(g, FindAnchors(g, l), axis)

	want := []Period{
		{
			Month: "Oct-W1", Week: "Oct-W1",
			Income: 1000000, OperatingExpense: 500000,
			NetBalance: 500000, CumulativeBalance: 500000,
		},
		{
			Month: "Oct-W2", Week: "Oct-W2",
			Income: 2000000, OperatingExpense: 600000,
			NetBalance: 1400000, CumulativeBalance: 1900000,
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildPeriods = %+v, want %+v", got, want)
	}
}

func TestBuildPeriodsMissingCapexAnchor(t *testing.T) {
	g := Grid{
		{"", "W1", "W2"},
		{"Total Ingresos", "100", "200"},
	}
	l := headerlessLayout()
	got := BuildPeriods(g, FindAnchors(g, l), DateAxis(g, 0, -1, 0))
	if len(got) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(got))
	}
	for _, p := range got {
		if p.CapitalExpenditure != 0 {
			t.Fatalf("capex should default to 0, got %d", p.CapitalExpenditure)
		}
	}
}

func TestBuildPeriodsDropsEmptyWeeks(t *testing.T) {
	g := Grid{
		{"", "W1", "W2", "W3"},
		{"Total Ingresos", "100", "", ""},
		{"Total OPEX", "40", "", ""},
		{"SALDO ACUMULADO", "60", "", ""},
	}
	l := headerlessLayout()
	axis := DateAxis(g, 0, -1, 0)
	got := BuildPeriods(g, FindAnchors(g, l), axis)
	if len(got) != 1 {
		t.Fatalf("expected only the populated week, got %d periods: %+v", len(got), got)
	}
	if len(got) > len(axis) {
		t.Fatalf("periods (%d) must never exceed axis length (%d)", len(got), len(axis))
	}
}

func TestBuildSummary(t *testing.T) {
	g := Grid{
		{"", "Octubre", ""},
		{"", "W1", "W2"},
		{"Detalle Ingresos"},
		{"Ventas web", "800.000", "1.500.000"},
		{"Marketplace", "200.000", "500.000"},
		{"Total Ingresos", "1.000.000", "2.000.000"},
		{""},
		{"OPEX"},
		{"Sueldos", "300.000", "400.000"},
		{"Logística", "200.000", "200.000"},
		{"Total OPEX", "500.000", "600.000"},
		{""},
		{"SALDO ACUMULADO", "500.000", "1.900.000"},
	}
	s := BuildSummary(g, DefaultLayout(), 5, 4)

	if len(s.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d: %+v", len(s.Periods), s.Periods)
	}
	if s.Periods[1].CumulativeBalance != 1900000 {
		t.Fatalf("cumulative = %d, want 1900000", s.Periods[1].CumulativeBalance)
	}
	if len(s.TopIncome) != 2 || s.TopIncome[0].Category != "Ventas web" {
		t.Fatalf("unexpected top income: %+v", s.TopIncome)
	}
	if len(s.TopExpense) != 2 || s.TopExpense[0].Category != "Sueldos" {
		t.Fatalf("unexpected top expense: %+v", s.TopExpense)
	}
	wantForecast := Forecast{Income: 1500000, Expense: 550000, Net: 950000}
	if s.Forecast != wantForecast {
		t.Fatalf("forecast = %+v, want %+v", s.Forecast, wantForecast)
	}
	// CAPEX, Impuestos, SALDO NETO rows are absent from this sheet.
	if len(s.Debug) != 3 {
		t.Fatalf("expected 3 missing-anchor notes, got %v", s.Debug)
	}
}

func TestBuildSummaryEmptyGrid(t *testing.T) {
	s := BuildSummary(Grid{}, DefaultLayout(), 5, 4)
	if len(s.Periods) != 0 || len(s.TopIncome) != 0 || len(s.TopExpense) != 0 {
		t.Fatalf("empty grid must summarize to zero values: %+v", s)
	}
	if len(s.Debug) == 0 {
		t.Fatal("expected a debug note for the empty grid")
	}
}

func TestFilterPeriods(t *testing.T) {
	periods := []Period{{Week: "W1"}, {Week: "W2"}, {Week: "w1"}}
	if got := FilterPeriods(periods, ""); len(got) != 3 {
		t.Fatalf("empty filter should keep all, got %d", len(got))
	}
	got := FilterPeriods(periods, "W1")
	if len(got) != 2 {
		t.Fatalf("expected 2 matching periods, got %d", len(got))
	}
}
