// Package google exports snapshots to Google Sheets through a service
// account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"carteira/internal/core"
	"carteira/internal/report"
	"carteira/internal/sheets"
)

// Client mirrors snapshots to one spreadsheet, one tab per record kind.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

var _ sheets.SnapshotExporter = (*Client)(nil)

// New builds an export client for the given spreadsheet. Tab names are
// derived from sheetBase plus the record kind, e.g. "Dashboard Positions".
func New(ctx context.Context, spreadsheetID, sheetBase string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetBase) == "" {
		sheetBase = "Dashboard"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetBase: sheetBase}, nil
}

// newSheetsService initializes the Sheets API using service account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		data, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// tabName maps a record kind to its spreadsheet tab.
func (c *Client) tabName(kind core.RecordKind) string {
	switch kind {
	case core.KindPosition:
		return c.sheetBase + " Positions"
	case core.KindDividend:
		return c.sheetBase + " Dividends"
	case core.KindExpense:
		return c.sheetBase + " Expenses"
	default:
		return c.sheetBase
	}
}

// ExportSnapshot replaces the kind's tab contents with the pivot matrix,
// the column totals, and the month-over-month deltas.
func (c *Client) ExportSnapshot(ctx context.Context, ownerID string, snap report.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	tab := c.tabName(snap.Kind)
	matrix := exportMatrix(snap)

	clearRange := fmt.Sprintf("%s!A:ZZ", tab)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear tab %s: %w", tab, err)
	}

	writeRange := fmt.Sprintf("%s!A1", tab)
	vr := &gsheet.ValueRange{Values: matrix}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write tab %s: %w", tab, err)
	}

	slog.InfoContext(ctx, "Snapshot exported to spreadsheet",
		"owner_id", ownerID,
		"kind", snap.Kind.String(),
		"tab", tab,
		"rows", len(matrix))
	return nil
}

// exportMatrix flattens a snapshot into spreadsheet rows: a header,
// one row per asset, the Total row, and a delta row in percent.
func exportMatrix(snap report.Snapshot) [][]any {
	header := make([]any, 0, len(snap.Pivot.Columns)+1)
	header = append(header, "Ativo")
	for _, col := range snap.Pivot.Columns {
		header = append(header, col)
	}

	matrix := [][]any{header}
	for _, row := range snap.Pivot.Rows {
		cells := make([]any, 0, len(row.Values)+1)
		cells = append(cells, row.Asset)
		for _, v := range row.Values {
			f, _ := v.Float64()
			cells = append(cells, f)
		}
		matrix = append(matrix, cells)
	}

	totals := make([]any, 0, len(snap.Totals)+1)
	totals = append(totals, core.TotalRowName)
	for _, t := range snap.Totals {
		f, _ := t.Float64()
		totals = append(totals, f)
	}
	matrix = append(matrix, totals)

	deltas := make([]any, 0, len(snap.TotalDeltas)+1)
	deltas = append(deltas, "Δ%")
	for _, d := range snap.TotalDeltas {
		if d == nil {
			deltas = append(deltas, "")
			continue
		}
		deltas = append(deltas, fmt.Sprintf("%.2f%%", *d))
	}
	matrix = append(matrix, deltas)

	return matrix
}
