package sheets

import (
	"context"

	"github.com/raulponte3/dashboard-cashflow/internal/core"
)

// Ports for outbound adapters.
type (
	// GridReader fetches the cash-flow grid from the tabular store.
	GridReader interface {
		// ReadGrid returns the configured sheet range as a grid of strings.
		ReadGrid(ctx context.Context) (core.Grid, error)
	}

	// AnalysisAppender writes a generated analysis back to the store.
	AnalysisAppender interface {
		AppendAnalysis(ctx context.Context, a core.Analysis) (rowRef string, err error)
	}
)
