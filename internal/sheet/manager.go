package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Manager is the spreadsheet collaborator used by every front end.
type Manager struct {
	live      Backend
	local     *LocalBackend
	devReason string
	out       io.Writer
	log       *zap.Logger
	now       func() time.Time
	backupDir string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger. A nil logger is replaced by a no-op one.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithOutput sets where development-mode write previews are printed.
func WithOutput(w io.Writer) ManagerOption {
	return func(m *Manager) { m.out = w }
}

// WithClock overrides time.Now for backups and Info.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithBackupDir sets the directory backups are written to.
func WithBackupDir(dir string) ManagerOption {
	return func(m *Manager) { m.backupDir = dir }
}

// WithDevReason records why no live backend is in use.
func WithDevReason(reason string) ManagerOption {
	return func(m *Manager) { m.devReason = reason }
}

// NewManager builds a Manager. A nil live backend means development mode.
func NewManager(live Backend, local *LocalBackend, opts ...ManagerOption) *Manager {
	m := &Manager{
		live:      live,
		local:     local,
		out:       os.Stdout,
		log:       zap.NewNop(),
		now:       time.Now,
		backupDir: ".",
	}
	if local == nil {
		m.local = NewLocalBackend("", "")
	}
	for _, opt := range opts {
		opt(m)
	}
	if live == nil && m.devReason == "" {
		m.devReason = "no live spreadsheet configured"
	}
	return m
}

// Options locate the live spreadsheet and the local fallback file.
type Options struct {
	SpreadsheetID   string
	CredentialsFile string
	Worksheet       string
	LocalFile       string
	ClientOptions   []option.ClientOption
}

// Open connects to the configured spreadsheet. It never fails: any problem
// (no id, no credentials file, connection error) puts the Manager in
// development mode with the reason available from DevReason.
func Open(ctx context.Context, o Options, opts ...ManagerOption) *Manager {
	local := NewLocalBackend(o.LocalFile, o.Worksheet)
	m := NewManager(nil, local, opts...)

	switch {
	case o.SpreadsheetID == "":
		m.devReason = "GOOGLE_SHEETS_ID is not set"
		return m
	case len(o.ClientOptions) == 0 && o.CredentialsFile == "":
		m.devReason = "GOOGLE_SERVICE_ACCOUNT_JSON is not set"
		return m
	}

	clientOpts := o.ClientOptions
	if o.CredentialsFile != "" {
		if _, err := os.Stat(o.CredentialsFile); err != nil {
			m.devReason = "service account file not found: " + o.CredentialsFile
			return m
		}
		clientOpts = append(clientOpts, option.WithCredentialsFile(o.CredentialsFile))
	}

	live, err := NewGoogleBackend(ctx, o.SpreadsheetID, o.Worksheet, clientOpts...)
	if err == nil {
		_, err = live.Headers(ctx)
	}
	if err != nil {
		m.devReason = "could not connect to Google Sheets: " + err.Error()
		m.log.Warn("falling back to local sheet", zap.Error(err), zap.String("file", o.LocalFile))
		return m
	}

	m.live = live
	m.devReason = ""
	return m
}

// DevelopmentMode reports whether writes are previewed instead of applied.
func (m *Manager) DevelopmentMode() bool {
	return m.live == nil
}

// DevReason explains development mode; empty when live.
func (m *Manager) DevReason() string {
	return m.devReason
}

// Source names the backend reads come from.
func (m *Manager) Source() string {
	if m.live != nil {
		return m.live.Name()
	}
	return m.local.Name()
}

func (m *Manager) active() Backend {
	if m.live != nil {
		return m.live
	}
	return m.local
}

// Records returns the raw header-keyed rows. A failed live read falls back
// to the local file.
func (m *Manager) Records(ctx context.Context) ([]map[string]string, error) {
	if m.live != nil {
		recs, err := m.live.Records(ctx)
		if err == nil {
			return recs, nil
		}
		m.log.Warn("live read failed, reading local file", zap.Error(err), zap.String("file", m.local.Path()))
	}
	return m.local.Records(ctx)
}

// ReadRows returns the current snapshot. Position i in the result is row
// position i+1.
func (m *Manager) ReadRows(ctx context.Context) ([]Row, error) {
	recs, err := m.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	rows := make([]Row, len(recs))
	for i, rec := range recs {
		rows[i] = RowFromRecord(rec)
	}
	m.log.Debug("read sheet", zap.String("source", m.Source()), zap.Int("rows", len(rows)))
	return rows, nil
}

// WriteFailure records one change that could not be written.
type WriteFailure struct {
	Index  int    `json:"index"`
	Action Action `json:"action"`
	RowID  RowRef `json:"row_id"`
	Error  string `json:"error"`
}

// WriteResult summarises WriteChanges.
type WriteResult struct {
	Applied         int            `json:"applied"`
	Skipped         int            `json:"skipped"`
	Failed          []WriteFailure `json:"failed,omitempty"`
	DevelopmentMode bool           `json:"development_mode"`
}

// WriteChanges applies changes in order. Updates write their non-empty
// fields to row RowID; creates append a row in header order. An update
// without a row is skipped. A failing change is logged and recorded and the
// rest continue. In development mode the changes are printed instead.
func (m *Manager) WriteChanges(ctx context.Context, changes []Change) (WriteResult, error) {
	if m.DevelopmentMode() {
		m.previewWrites(changes)
		return WriteResult{DevelopmentMode: true}, nil
	}

	var res WriteResult
	for i, c := range changes {
		var err error
		switch {
		case c.IsUpdate():
			err = m.live.UpdateRow(ctx, int(c.RowID), c.Data.Fields())
		case c.Action == ActionCreate:
			err = m.live.AppendRow(ctx, c.Data.Fields())
		default:
			res.Skipped++
			m.log.Warn("skipping change without a target row", zap.Int("index", i), zap.String("action", string(c.Action)))
			continue
		}

		if err != nil {
			res.Failed = append(res.Failed, WriteFailure{Index: i, Action: c.Action, RowID: c.RowID, Error: err.Error()})
			m.log.Error("sheet write failed", zap.Int("index", i), zap.String("action", string(c.Action)),
				zap.Int("row", int(c.RowID)), zap.Error(err))
			continue
		}
		res.Applied++
	}

	m.log.Info("sheet updated", zap.Int("applied", res.Applied), zap.Int("failed", len(res.Failed)), zap.Int("skipped", res.Skipped))
	return res, nil
}

func (m *Manager) previewWrites(changes []Change) {
	var b strings.Builder
	b.WriteString("\n=== DEVELOPMENT MODE: CSV CHANGES PREVIEW ===\n")
	for _, c := range changes {
		fmt.Fprintf(&b, "\nAction: %s\n", strings.ToUpper(string(c.Action)))
		if c.IsUpdate() {
			fmt.Fprintf(&b, "Would update row %d:\n", c.RowID)
		} else {
			b.WriteString("Would add new row:\n")
		}
		fields := c.Data.Fields()
		for _, col := range Columns {
			if v, ok := fields[col]; ok {
				fmt.Fprintf(&b, "  %s: %s\n", col, v)
			}
		}
	}
	_, _ = io.WriteString(m.out, b.String())
}

// Info is a summary of the sheet contents.
type Info struct {
	TotalRows       int       `json:"total_rows"`
	Completed       int       `json:"completed"`
	Workstreams     []string  `json:"workstreams"`
	Statuses        []string  `json:"statuses"`
	LastUpdated     time.Time `json:"last_updated"`
	Source          string    `json:"source"`
	DevelopmentMode bool      `json:"development_mode"`
}

// Info summarises the current snapshot.
func (m *Manager) Info(ctx context.Context) (Info, error) {
	rows, err := m.ReadRows(ctx)
	if err != nil {
		return Info{}, err
	}
	info := Info{
		TotalRows:       len(rows),
		Workstreams:     distinct(rows, func(r Row) string { return r.Workstream }),
		Statuses:        distinct(rows, func(r Row) string { return r.Status }),
		LastUpdated:     m.now(),
		Source:          m.Source(),
		DevelopmentMode: m.DevelopmentMode(),
	}
	for _, r := range rows {
		if r.Status == StatusComplete {
			info.Completed++
		}
	}
	return info, nil
}

// ErrNoHeaders is returned by ValidateStructure when the sheet is empty or
// the local file does not exist.
var ErrNoHeaders = errors.New("sheet has no header row")

// ValidateStructure returns the expected columns missing from the header row.
func (m *Manager) ValidateStructure(ctx context.Context) ([]string, error) {
	headers, err := m.active().Headers(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading headers: %w", err)
	}
	if len(headers) == 0 {
		return slices.Clone(Columns), ErrNoHeaders
	}
	var missing []string
	for _, col := range Columns {
		if !slices.Contains(headers, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		m.log.Warn("sheet is missing columns", zap.Strings("missing", missing))
	}
	return missing, nil
}

func distinct(rows []Row, field func(Row) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range rows {
		if v := field(r); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
