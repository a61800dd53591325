package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorewood/standup/internal/llm"
)

// isolate clears every variable Load reads so tests see only what they set.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("STANDUP_CONFIG_HOME", t.TempDir())
	for _, v := range []string{
		"GOOGLE_SHEETS_ID", "GOOGLE_SERVICE_ACCOUNT_JSON", "STANDUP_WORKSHEET",
		"STANDUP_LOCAL_SHEET", "STANDUP_BACKUP_DIR", "STANDUP_MODEL", "STANDUP_WEB_ADDR",
		"GOOGLE_API_KEY", "OPENAI_API_KEY", "GROQ_API_KEY", "ANTHROPIC_API_KEY", "LOCAL_LLM_URL",
	} {
		t.Setenv(v, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.DevelopmentMode() {
		t.Error("no sheet id should mean development mode")
	}
	if cfg.Sheet.LocalFile != "tracker.csv" {
		t.Errorf("LocalFile = %q", cfg.Sheet.LocalFile)
	}
	if cfg.Guide.Format != "docx" || cfg.Guide.Output != "generated_guide" {
		t.Errorf("Guide = %+v", cfg.Guide)
	}
	if cfg.Timeout() != 120*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
	if cfg.Source() != "" {
		t.Errorf("Source() = %q, want empty", cfg.Source())
	}
	if cfg.Chat == nil || cfg.Chat.Provider != llm.ProviderOpenAI {
		t.Errorf("Chat = %+v", cfg.Chat)
	}
	if err := cfg.RequireLLM(); err != nil {
		t.Errorf("RequireLLM() = %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "standup.toml")
	content := `
backup_dir = "backups"

[sheet]
id = "1AbC"
credentials_file = "sa.json"
worksheet = "Tracker"

[llm]
model = "groq-llama3"
temperature = 0.3
timeout_seconds = 30

[guide]
format = "md"
output = "guides/out"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GROQ_API_KEY", "gsk")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DevelopmentMode() {
		t.Error("sheet id set, should not be development mode")
	}
	if cfg.Sheet.Worksheet != "Tracker" || cfg.BackupDir != "backups" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Guide.Format != "md" {
		t.Errorf("Guide.Format = %q", cfg.Guide.Format)
	}
	if cfg.Chat.Provider != llm.ProviderGroq || cfg.Research.Provider != llm.ProviderGroq {
		t.Errorf("model override should pin both selections to groq: %+v %+v", cfg.Chat, cfg.Research)
	}
	if cfg.Source() != path {
		t.Errorf("Source() = %q", cfg.Source())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	dir := os.Getenv("STANDUP_CONFIG_HOME")
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[sheet]\nlocal_file = \"file.csv\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STANDUP_LOCAL_SHEET", "env.xlsx")
	t.Setenv("STANDUP_WORKSHEET", "Sprint")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sheet.LocalFile != "env.xlsx" || cfg.Sheet.Worksheet != "Sprint" {
		t.Errorf("Sheet = %+v", cfg.Sheet)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Load() should fail for a missing explicit path")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[sheet\nid="), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("Load() error = %v", err)
	}
}

func TestLoad_NoCredentials(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat != nil || cfg.Research != nil {
		t.Error("selections should be nil without credentials")
	}
	if !errors.Is(cfg.RequireLLM(), llm.ErrNoCredentials) {
		t.Errorf("RequireLLM() = %v, want ErrNoCredentials", cfg.RequireLLM())
	}

	cfg.WithCredentials(llm.Credentials{Google: "g"})
	if cfg.RequireLLM() != nil || cfg.Research.Provider != llm.ProviderGoogle {
		t.Errorf("after WithCredentials: err=%v research=%+v", cfg.RequireLLM(), cfg.Research)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults valid", func(*Config) {}, ""},
		{"bad format", func(c *Config) { c.Guide.Format = "pdf" }, "Format"},
		{"sheet id without credentials", func(c *Config) { c.Sheet.ID = "abc" }, "CredentialsFile"},
		{"temperature too high", func(c *Config) { c.LLM.Temperature = 3 }, "Temperature"},
		{"zero timeout", func(c *Config) { c.LLM.TimeoutSeconds = 0 }, "TimeoutSeconds"},
		{"bad web addr", func(c *Config) { c.Web.Addr = "nohost" }, "Addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
