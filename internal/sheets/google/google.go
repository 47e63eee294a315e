package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/raulponte3/dashboard-cashflow/internal/core"
	ports "github.com/raulponte3/dashboard-cashflow/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// gridRange is the A1 range holding the cash-flow grid, e.g. "Hoja 1".
	gridRange string
	// analysesSheet is the tab that receives synced AI analyses.
	analysesSheet string
}

// Ensure interface conformance
var (
	_ ports.GridReader       = (*Client)(nil)
	_ ports.AnalysisAppender = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_RANGE (default "Hoja 1"),
// GOOGLE_ANALYSES_SHEET_NAME (default "Analyses").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	gridRange := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_RANGE"))
	if gridRange == "" {
		gridRange = "Hoja 1"
	}
	analysesSheet := strings.TrimSpace(os.Getenv("GOOGLE_ANALYSES_SHEET_NAME"))
	if analysesSheet == "" {
		analysesSheet = "Analyses"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		gridRange:     gridRange,
		analysesSheet: analysesSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// ReadGrid fetches the configured range and converts it to a string grid.
func (c *Client) ReadGrid(ctx context.Context) (core.Grid, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.gridRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.gridRange, err)
	}
	return gridFromValues(resp.Values), nil
}

// AppendAnalysis writes one analysis as a row on the analyses tab and
// returns its cell reference.
func (c *Client) AppendAnalysis(ctx context.Context, a core.Analysis) (string, error) {
	if err := a.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next empty row by reading the sheet's first column.
	rng := fmt.Sprintf("%s!A:A", c.analysesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.analysesSheet, err)
	}
	nextRow := len(resp.Values) + 1

	dataRange := fmt.Sprintf("%s!A%d:C%d", c.analysesSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{{
		a.CreatedAt.Format("2006-01-02 15:04"),
		a.Model,
		a.Content,
	}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", dataRange, err)
	}

	return dataRange, nil
}

func gridFromValues(values [][]any) core.Grid {
	g := make(core.Grid, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch x := v.(type) {
			case nil:
			case string:
				cells[j] = strings.TrimSpace(x)
			case float64:
				// UNFORMATTED_VALUE responses carry numbers; keep them
				// out of scientific notation so the money parser reads
				// them verbatim.
				cells[j] = strconv.FormatFloat(x, 'f', -1, 64)
			default:
				cells[j] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
		g[i] = cells
	}
	return g
}
