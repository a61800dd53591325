package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/gorewood/standup/internal/llm"
)

// FileName is the config file looked up in Dir().
const FileName = "config.toml"

// Config is the resolved runtime configuration.
type Config struct {
	Sheet     SheetConfig `toml:"sheet"`
	LLM       LLMConfig   `toml:"llm"`
	Guide     GuideConfig `toml:"guide"`
	Web       WebConfig   `toml:"web"`
	BackupDir string      `toml:"backup_dir" validate:"required"`

	// Resolved at load time, never read from the file.
	Credentials llm.Credentials `toml:"-" validate:"-"`
	Chat        *llm.Selection  `toml:"-" validate:"-"`
	Research    *llm.Selection  `toml:"-" validate:"-"`
	selectErr   error
	source      string
}

// SheetConfig locates the tracking spreadsheet.
type SheetConfig struct {
	// ID of the Google spreadsheet. Empty means development mode.
	ID              string `toml:"id"`
	CredentialsFile string `toml:"credentials_file" validate:"required_with=ID"`
	// Worksheet title; empty selects the first worksheet.
	Worksheet string `toml:"worksheet"`
	LocalFile string `toml:"local_file" validate:"required"`
}

// LLMConfig tunes model calls.
type LLMConfig struct {
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature" validate:"gte=0,lte=2"`
	TimeoutSeconds int     `toml:"timeout_seconds" validate:"gt=0"`
}

// GuideConfig holds guide generator defaults.
type GuideConfig struct {
	Format string `toml:"format" validate:"oneof=docx md"`
	Output string `toml:"output" validate:"required"`
}

// WebConfig configures the browser UI server.
type WebConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() *Config {
	return &Config{
		Sheet: SheetConfig{
			LocalFile: "tracker.csv",
		},
		LLM: LLMConfig{
			Temperature:    0.1,
			TimeoutSeconds: 120,
		},
		Guide: GuideConfig{
			Format: "docx",
			Output: "generated_guide",
		},
		Web: WebConfig{
			Addr: "127.0.0.1:8501",
		},
		BackupDir: ".",
	}
}

// Load reads the config file, applies environment overrides, validates the
// result and resolves the chat and research provider selections.
//
// path may be empty, in which case Dir()/config.toml is used if it exists.
// A missing LLM credential is not a load error; it is reported by RequireLLM
// so spreadsheet-only commands keep working.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if dir := Dir(); dir != "" {
			path = filepath.Join(dir, FileName)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			cfg.source = path
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Credentials = llm.CredentialsFromEnv()
	cfg.resolveSelections()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"GOOGLE_SHEETS_ID", &c.Sheet.ID},
		{"GOOGLE_SERVICE_ACCOUNT_JSON", &c.Sheet.CredentialsFile},
		{"STANDUP_WORKSHEET", &c.Sheet.Worksheet},
		{"STANDUP_LOCAL_SHEET", &c.Sheet.LocalFile},
		{"STANDUP_BACKUP_DIR", &c.BackupDir},
		{"STANDUP_MODEL", &c.LLM.Model},
		{"STANDUP_WEB_ADDR", &c.Web.Addr},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.dst = v
		}
	}
}

func (c *Config) resolveSelections() {
	c.Chat, c.Research, c.selectErr = nil, nil, nil

	chat, err := llm.Select(c.Credentials, llm.ChatPriority, c.LLM.Model)
	if err != nil {
		c.selectErr = err
		return
	}
	c.Chat = &chat

	// A model override pins both pipelines to the same provider.
	research, err := llm.Select(c.Credentials, llm.ResearchPriority, c.LLM.Model)
	if err != nil {
		c.selectErr = err
		return
	}
	c.Research = &research
}

// WithCredentials replaces the credentials and re-resolves selections.
func (c *Config) WithCredentials(creds llm.Credentials) *Config {
	c.Credentials = creds
	c.resolveSelections()
	return c
}

// RequireLLM returns the selection error (wrapping llm.ErrNoCredentials) when
// no provider could be selected.
func (c *Config) RequireLLM() error {
	return c.selectErr
}

// Source returns the config file that was loaded, or "" for defaults only.
func (c *Config) Source() string {
	return c.source
}

// DevelopmentMode reports whether no live spreadsheet is configured.
func (c *Config) DevelopmentMode() bool {
	return c.Sheet.ID == ""
}

// Timeout is the per-call LLM timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
