package google

import "testing"

func TestGridFromValues(t *testing.T) {
	values := [][]any{
		{"", "Octubre", nil},
		{"Total Ingresos", " 1.000.000 ", float64(2000000)},
	}
	g := gridFromValues(values)
	if len(g) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(g))
	}
	if g.Cell(0, 1) != "Octubre" {
		t.Fatalf("cell(0,1) = %q", g.Cell(0, 1))
	}
	if g.Cell(0, 2) != "" {
		t.Fatalf("nil cell should be empty, got %q", g.Cell(0, 2))
	}
	if g.Cell(1, 1) != "1.000.000" {
		t.Fatalf("cell(1,1) not trimmed: %q", g.Cell(1, 1))
	}
	if g.Cell(1, 2) != "2000000" {
		t.Fatalf("float cell = %q, want %q", g.Cell(1, 2), "2000000")
	}
}

func TestGridFromValuesEmpty(t *testing.T) {
	if g := gridFromValues(nil); len(g) != 0 {
		t.Fatalf("expected empty grid, got %d rows", len(g))
	}
}
