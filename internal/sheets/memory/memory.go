package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/raulponte3/dashboard-cashflow/internal/core"
)

// Store is an in-memory grid backend for development and tests.
type Store struct {
	mu       sync.Mutex
	grid     core.Grid
	analyses []core.Analysis
}

func New(grid core.Grid) *Store {
	return &Store{grid: grid}
}

// NewFromFiles loads the grid from <base>/grid.csv, falling back to a
// small built-in sample sheet when the file is missing or unreadable.
func NewFromFiles(base string) *Store {
	if g := readCSVGrid(filepath.Join(base, "grid.csv")); g != nil {
		return New(g)
	}
	return New(sampleGrid())
}

// ReadGrid returns a copy of the stored grid.
func (s *Store) ReadGrid(_ context.Context) (core.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(core.Grid, len(s.grid))
	for i, row := range s.grid {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// AppendAnalysis stores the analysis and returns a synthetic row reference.
func (s *Store) AppendAnalysis(_ context.Context, a core.Analysis) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses = append(s.analyses, a)
	return fmt.Sprintf("mem:%d", len(s.analyses)), nil
}

// Analyses returns the stored analyses, for tests.
func (s *Store) Analyses() []core.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Analysis(nil), s.analyses...)
}

func readCSVGrid(path string) core.Grid {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // grids are ragged
	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return nil
	}
	g := make(core.Grid, len(records))
	for i, rec := range records {
		g[i] = rec
	}
	return g
}

// sampleGrid mirrors the production sheet layout: month and week header
// rows, labeled detail sections, totals and balance rows.
func sampleGrid() core.Grid {
	return core.Grid{
		{"", "Octubre", "", "Noviembre"},
		{"", "Semana 1", "Semana 2", "Semana 1"},
		{"Detalle Ingresos"},
		{"Ventas web", "800.000", "1.400.000", "900.000"},
		{"Marketplace", "200.000", "600.000", "350.000"},
		{"Total Ingresos", "1.000.000", "2.000.000", "1.250.000"},
		{""},
		{"OPEX"},
		{"Sueldos", "300.000", "300.000", "320.000"},
		{"Logística", "120.000", "180.000", "140.000"},
		{"Marketing", "80.000", "120.000", "90.000"},
		{"Total OPEX", "500.000", "600.000", "550.000"},
		{""},
		{"CAPEX"},
		{"Equipamiento", "0", "150.000", "0"},
		{"Total CAPEX", "0", "150.000", "0"},
		{""},
		{"Impuestos"},
		{"IVA", "90.000", "110.000", "95.000"},
		{"Total Impuestos", "90.000", "110.000", "95.000"},
		{""},
		{"SALDO NETO", "410.000", "1.140.000", "605.000"},
		{"SALDO ACUMULADO", "410.000", "1.550.000", "2.155.000"},
	}
}
