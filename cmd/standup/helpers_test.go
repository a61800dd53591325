package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/gorewood/standup/internal/guide"
	"github.com/gorewood/standup/internal/search"
)

const trackerCSV = `Workstream,Task,Sub Task,Start Date,End Date,Effort,Status,Priority,Tags
Auth,Login module,,10/01/2026,10/20/2026,1,In Progress,High,backend
Docs,User guide,,10/10/2026,10/12/2026,0.5,Complete,Low,docs
`

// isolateEnv points config, env files, the local sheet and backups at a
// temp dir and clears every credential. It returns the temp dir.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STANDUP_CONFIG_HOME", dir)
	for _, v := range []string{
		"GOOGLE_SHEETS_ID", "GOOGLE_SERVICE_ACCOUNT_JSON", "STANDUP_WORKSHEET",
		"STANDUP_MODEL", "STANDUP_WEB_ADDR",
		"GOOGLE_API_KEY", "OPENAI_API_KEY", "GROQ_API_KEY", "ANTHROPIC_API_KEY", "LOCAL_LLM_URL",
	} {
		t.Setenv(v, "")
	}
	t.Setenv("STANDUP_LOCAL_SHEET", filepath.Join(dir, "tracker.csv"))
	t.Setenv("STANDUP_BACKUP_DIR", filepath.Join(dir, "backups"))
	return dir
}

func writeTracker(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "tracker.csv"), []byte(trackerCSV), 0o600); err != nil {
		t.Fatalf("writing tracker: %v", err)
	}
}

// fakeLLM is an OpenAI-compatible chat server that always replies with
// reply and records the prompts it was sent.
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	prompts []string
}

func startFakeLLM(t *testing.T, reply string) *fakeLLM {
	t.Helper()
	f := &fakeLLM{reply: reply}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		f.mu.Lock()
		for _, m := range req.Messages {
			f.prompts = append(f.prompts, m.Content)
		}
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "fake-model",
			"choices": []any{map[string]any{"message": map[string]any{"content": f.reply}}},
		})
	}))
	t.Cleanup(ts.Close)
	t.Setenv("LOCAL_LLM_URL", ts.URL)
	return f
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type stubSearcher struct{ results []search.Result }

func (s stubSearcher) Search(context.Context, string) ([]search.Result, error) {
	return s.results, nil
}

// stubSearch replaces the web searcher for the duration of the test.
func stubSearch(t *testing.T, results ...search.Result) {
	t.Helper()
	orig := newSearcher
	newSearcher = func(*zap.Logger) guide.Searcher { return stubSearcher{results: results} }
	t.Cleanup(func() { newSearcher = orig })
}

// execute runs the root command with args and returns stdout, stderr and
// the error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runInDir runs testFunc with dir as the working directory.
func runInDir(t *testing.T, dir string, testFunc func()) {
	t.Helper()
	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working dir: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", dir, err)
	}
	defer func() {
		if err := os.Chdir(oldDir); err != nil {
			t.Errorf("failed to restore dir: %v", err)
		}
	}()
	testFunc()
}
