package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputOption = "USER_ENTERED"

// GoogleBackend reads and writes a worksheet through the Sheets v4 API.
type GoogleBackend struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	worksheet     string
}

// NewGoogleBackend connects to a spreadsheet. An empty worksheet selects the
// first one. Pass option.WithCredentialsFile for a service account.
func NewGoogleBackend(ctx context.Context, spreadsheetID, worksheet string, opts ...option.ClientOption) (*GoogleBackend, error) {
	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}
	return &GoogleBackend{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

// Name implements Backend.
func (g *GoogleBackend) Name() string {
	if g.worksheet == "" {
		return "google:" + g.spreadsheetID
	}
	return "google:" + g.spreadsheetID + "/" + g.worksheet
}

// a1 prefixes a range with the quoted worksheet title when one is set.
func (g *GoogleBackend) a1(rng string) string {
	if g.worksheet == "" {
		return rng
	}
	return "'" + strings.ReplaceAll(g.worksheet, "'", "''") + "'!" + rng
}

// Headers implements Backend.
func (g *GoogleBackend) Headers(ctx context.Context) ([]string, error) {
	resp, err := g.values.Get(g.spreadsheetID, g.a1("1:1")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	headers := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		headers[i] = trimCell(fmt.Sprint(v))
	}
	return headers, nil
}

// Records implements Backend.
func (g *GoogleBackend) Records(ctx context.Context) ([]map[string]string, error) {
	resp, err := g.values.Get(g.spreadsheetID, g.a1("A:ZZ")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet values: %w", err)
	}
	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		grid[i] = make([]string, len(row))
		for j, v := range row {
			grid[i][j] = fmt.Sprint(v)
		}
	}
	_, records := recordsFromGrid(grid)
	return records, nil
}

// UpdateRow implements Backend. All cells of the row go out in one batch.
func (g *GoogleBackend) UpdateRow(ctx context.Context, position int, fields map[string]string) error {
	if position < 1 {
		return fmt.Errorf("invalid row position %d", position)
	}
	headers, err := g.Headers(ctx)
	if err != nil {
		return err
	}

	var data []*sheets.ValueRange
	for col, h := range headers {
		v, ok := fields[h]
		if !ok || h == "" {
			continue
		}
		// +1 skips the header row.
		cell, err := excelize.CoordinatesToCellName(col+1, position+1)
		if err != nil {
			return fmt.Errorf("addressing %s: %w", h, err)
		}
		data = append(data, &sheets.ValueRange{
			Range:  g.a1(cell),
			Values: [][]any{{v}},
		})
	}
	if len(data) == 0 {
		return nil
	}

	_, err = g.values.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputOption,
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating row %d: %w", position, err)
	}
	return nil
}

// AppendRow implements Backend.
func (g *GoogleBackend) AppendRow(ctx context.Context, fields map[string]string) error {
	headers, err := g.Headers(ctx)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return fmt.Errorf("sheet has no header row")
	}

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = fields[h]
	}

	_, err = g.values.Append(g.spreadsheetID, g.a1("A1"), &sheets.ValueRange{
		Values: [][]any{row},
	}).ValueInputOption(valueInputOption).InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending row: %w", err)
	}
	return nil
}
