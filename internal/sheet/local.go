package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LocalBackend reads a CSV or XLSX export of the tracking sheet. It is
// read-only: development mode prints writes instead of applying them.
type LocalBackend struct {
	path      string
	worksheet string
}

// NewLocalBackend opens nothing until first use. worksheet selects the XLSX
// sheet; empty means the first one.
func NewLocalBackend(path, worksheet string) *LocalBackend {
	return &LocalBackend{path: path, worksheet: worksheet}
}

// Name implements Backend.
func (l *LocalBackend) Name() string { return "local:" + l.path }

// Path returns the file the backend reads.
func (l *LocalBackend) Path() string { return l.path }

// Exists reports whether the file is present.
func (l *LocalBackend) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Headers implements Backend. A missing file has no headers.
func (l *LocalBackend) Headers(context.Context) ([]string, error) {
	grid, err := l.grid()
	if err != nil {
		return nil, err
	}
	headers, _ := recordsFromGrid(grid)
	return headers, nil
}

// Records implements Backend. A missing file has no records.
func (l *LocalBackend) Records(context.Context) ([]map[string]string, error) {
	grid, err := l.grid()
	if err != nil {
		return nil, err
	}
	_, records := recordsFromGrid(grid)
	return records, nil
}

// UpdateRow implements Backend.
func (l *LocalBackend) UpdateRow(context.Context, int, map[string]string) error {
	return ErrReadOnly
}

// AppendRow implements Backend.
func (l *LocalBackend) AppendRow(context.Context, map[string]string) error {
	return ErrReadOnly
}

func (l *LocalBackend) grid() ([][]string, error) {
	if l.path == "" {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".xlsx", ".xlsm":
		return l.readXLSX()
	default:
		return l.readCSV()
	}
}

func (l *LocalBackend) readCSV() ([][]string, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", l.path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	grid, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.path, err)
	}
	return grid, nil
}

func (l *LocalBackend) readXLSX() ([][]string, error) {
	if !l.Exists() {
		return nil, nil
	}
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", l.path, err)
	}
	defer func() { _ = f.Close() }()

	name := l.worksheet
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		name = sheets[0]
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", name, l.path, err)
	}
	return rows, nil
}
