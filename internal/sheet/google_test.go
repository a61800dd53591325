package sheet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// sheetsServer fakes the subset of the Sheets v4 values API the backend uses.
type sheetsServer struct {
	mu      sync.Mutex
	values  [][]any
	fail    bool
	batches []map[string]any
	appends []map[string]any
	queries []string
}

func (s *sheetsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var payload map[string]any
	if len(body) > 0 {
		_ = json.Unmarshal(body, &payload)
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "values:batchUpdate"):
		s.batches = append(s.batches, payload)
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		s.appends = append(s.appends, payload)
		s.queries = append(s.queries, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodGet:
		values := s.values
		if strings.HasSuffix(r.URL.Path, "1:1") && len(values) > 0 {
			values = values[:1]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"majorDimension": "ROWS", "values": values})
	default:
		http.NotFound(w, r)
	}
}

func newTestGoogleBackend(t *testing.T, srv *sheetsServer) *GoogleBackend {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	g, err := NewGoogleBackend(context.Background(), "sheet-123", "",
		option.WithEndpoint(ts.URL+"/"), option.WithoutAuthentication(), option.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return g
}

func headerRow() []any {
	row := make([]any, len(Columns))
	for i, c := range Columns {
		row[i] = c
	}
	return row
}

func TestGoogleBackend_Read(t *testing.T) {
	srv := &sheetsServer{values: [][]any{
		headerRow(),
		{"Backend", "API", "", "10/01/2026", "", 1.5, "In Progress"},
	}}
	g := newTestGoogleBackend(t, srv)
	ctx := context.Background()

	headers, err := g.Headers(ctx)
	require.NoError(t, err)
	assert.Equal(t, Columns, headers)

	recs, err := g.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "API", recs[0]["Task"])
	assert.Equal(t, "1.5", recs[0]["Effort"])
	assert.Equal(t, "", recs[0]["Tags"])
}

func TestGoogleBackend_UpdateRow(t *testing.T) {
	srv := &sheetsServer{values: [][]any{headerRow()}}
	g := newTestGoogleBackend(t, srv)

	err := g.UpdateRow(context.Background(), 2, map[string]string{"Status": "Complete", "End Date": "10/16/2026", "Bogus": "x"})
	require.NoError(t, err)

	require.Len(t, srv.batches, 1)
	batch := srv.batches[0]
	assert.Equal(t, "USER_ENTERED", batch["valueInputOption"])

	ranges := map[string]any{}
	for _, d := range batch["data"].([]any) {
		vr := d.(map[string]any)
		ranges[vr["range"].(string)] = vr["values"].([]any)[0].([]any)[0]
	}
	// Row position 2 is sheet row 3; End Date is column E and Status is G.
	assert.Equal(t, map[string]any{"E3": "10/16/2026", "G3": "Complete"}, ranges)
}

func TestGoogleBackend_AppendRow(t *testing.T) {
	srv := &sheetsServer{values: [][]any{headerRow()}}
	g := newTestGoogleBackend(t, srv)

	require.NoError(t, g.AppendRow(context.Background(), map[string]string{"Task": "Docs", "Status": "Upcoming"}))

	require.Len(t, srv.appends, 1)
	row := srv.appends[0]["values"].([]any)[0].([]any)
	require.Len(t, row, len(Columns))
	assert.Equal(t, "Docs", row[1])
	assert.Equal(t, "Upcoming", row[6])
	assert.Equal(t, "", row[0])
	assert.Contains(t, srv.queries[0], "valueInputOption=USER_ENTERED")
	assert.Contains(t, srv.queries[0], "insertDataOption=INSERT_ROWS")
}

func TestGoogleBackend_Errors(t *testing.T) {
	srv := &sheetsServer{fail: true}
	g := newTestGoogleBackend(t, srv)

	_, err := g.Headers(context.Background())
	assert.ErrorContains(t, err, "reading header row")

	err = g.UpdateRow(context.Background(), 0, map[string]string{"Task": "x"})
	assert.ErrorContains(t, err, "invalid row position")
}

func TestGoogleBackend_A1(t *testing.T) {
	g := &GoogleBackend{worksheet: "Q4 'Plan'"}
	assert.Equal(t, "'Q4 ''Plan'''!A1", g.a1("A1"))
	assert.Equal(t, "A1", (&GoogleBackend{}).a1("A1"))
	assert.Equal(t, "google:id/Tracker", (&GoogleBackend{spreadsheetID: "id", worksheet: "Tracker"}).Name())
}

func TestOpen_LiveBackend(t *testing.T) {
	srv := &sheetsServer{values: [][]any{headerRow()}}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	m := Open(context.Background(), Options{
		SpreadsheetID: "sheet-123",
		ClientOptions: []option.ClientOption{option.WithEndpoint(ts.URL + "/"), option.WithoutAuthentication()},
	})
	assert.False(t, m.DevelopmentMode())
	assert.Empty(t, m.DevReason())
	assert.Equal(t, "google:sheet-123", m.Source())

	srv.fail = true
	m = Open(context.Background(), Options{
		SpreadsheetID: "sheet-123",
		ClientOptions: []option.ClientOption{option.WithEndpoint(ts.URL + "/"), option.WithoutAuthentication()},
	})
	assert.True(t, m.DevelopmentMode())
	assert.Contains(t, m.DevReason(), "could not connect to Google Sheets")
}
