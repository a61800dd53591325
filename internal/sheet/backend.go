package sheet

import (
	"context"
	"errors"
	"strings"
)

// ErrReadOnly is returned by backends that cannot be written to.
var ErrReadOnly = errors.New("sheet backend is read-only")

// Backend is a header-keyed tabular store. Positions are 1-based data-row
// indexes; position 1 is the row after the header.
type Backend interface {
	// Name describes the backend for logs and status output.
	Name() string
	Headers(ctx context.Context) ([]string, error)
	// Records returns every data row keyed by header name.
	Records(ctx context.Context) ([]map[string]string, error)
	// UpdateRow writes the given cells of an existing row. Keys that are not
	// header names are ignored.
	UpdateRow(ctx context.Context, position int, fields map[string]string) error
	// AppendRow adds a row after the last one, in header order.
	AppendRow(ctx context.Context, fields map[string]string) error
}

// recordsFromGrid turns a header row plus data rows into records. Short rows
// are padded with empty cells.
func recordsFromGrid(grid [][]string) ([]string, []map[string]string) {
	if len(grid) == 0 {
		return nil, nil
	}
	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = trimCell(h)
	}

	records := make([]map[string]string, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return headers, records
}

// trimCell drops surrounding whitespace and the UTF-8 BOM some spreadsheet
// exports put on the first header.
func trimCell(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}
