package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/gorewood/standup/internal/config"
	"github.com/gorewood/standup/internal/llm"
	"github.com/gorewood/standup/internal/prompt"
	"github.com/gorewood/standup/internal/sheet"
)

func runConfigChecks(cfg *config.Config, flags *doctorFlags) []checkResult {
	return []checkResult{
		checkConfigFile(cfg),
		checkEnvFiles(),
		checkBackupDir(cfg.BackupDir, flags.fix),
		checkTemplates(),
	}
}

func checkConfigFile(cfg *config.Config) checkResult {
	if src := cfg.Source(); src != "" {
		return checkResult{Name: "Config File", Status: checkPass, Message: "loaded " + src}
	}
	return checkResult{
		Name:    "Config File",
		Status:  checkPass,
		Message: "none found, using defaults and environment",
		Hint:    "Optional: create " + filepath.Join(config.Dir(), config.FileName),
	}
}

func checkEnvFiles() checkResult {
	var found []string
	for _, f := range config.EnvFiles() {
		if _, err := os.Stat(f); err == nil {
			found = append(found, f)
		}
	}
	if len(found) == 0 {
		return checkResult{Name: "Env Files", Status: checkPass, Message: "none found, using the process environment"}
	}
	return checkResult{Name: "Env Files", Status: checkPass, Message: "loaded " + strings.Join(found, ", ")}
}

func checkBackupDir(dir string, fix bool) checkResult {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return checkResult{Name: "Backup Directory", Status: checkPass, Message: dir}
	}
	if err == nil {
		return checkResult{Name: "Backup Directory", Status: checkFail, Message: dir + " is not a directory", Hint: "Set STANDUP_BACKUP_DIR to a directory"}
	}
	if fix {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr == nil {
			return checkResult{Name: "Backup Directory", Status: checkPass, Message: dir + " (created)"}
		}
	}
	return checkResult{
		Name:    "Backup Directory",
		Status:  checkWarn,
		Message: dir + " does not exist",
		Hint:    "Run 'standup doctor --fix' or backups will create it on first use",
	}
}

func checkTemplates() checkResult {
	for _, name := range []string{prompt.DailyUpdate, prompt.InstallGuide} {
		if _, err := prompt.LoadTemplate(name); err != nil {
			return checkResult{
				Name:    "Prompt Templates",
				Status:  checkFail,
				Message: err.Error(),
				Hint:    "Fix or remove the override in " + filepath.Join(config.Dir(), "templates"),
			}
		}
	}
	return checkResult{Name: "Prompt Templates", Status: checkPass, Message: describeTemplates(prompt.ListTemplates())}
}

// describeTemplates lists the templates standup uses with where each comes
// from, e.g. "daily-update (built-in), install-guide (project)".
func describeTemplates(infos []prompt.TemplateInfo) string {
	var parts []string
	for _, info := range infos {
		if info.Name != prompt.DailyUpdate && info.Name != prompt.InstallGuide {
			continue
		}
		parts = append(parts, info.Name+" ("+info.Source+")")
	}
	return strings.Join(parts, ", ")
}

func runLLMChecks(cfg *config.Config) []checkResult {
	if err := cfg.RequireLLM(); err != nil {
		fail := checkResult{
			Name:    "Chat Provider",
			Status:  checkFail,
			Message: err.Error(),
			Hint:    "Set one of " + strings.Join(llm.APIKeyEnvVars(), ", ") + " or LOCAL_LLM_URL",
		}
		return []checkResult{fail, {Name: "Research Provider", Status: checkFail, Message: "no provider available"}}
	}

	chat := checkResult{
		Name:    "Chat Provider",
		Status:  checkPass,
		Message: fmt.Sprintf("%s (%s)", cfg.Chat.Provider, cfg.Chat.Model),
	}
	research := checkResult{Name: "Research Provider", Status: checkPass}
	if cfg.Research.Provider == llm.ProviderGoogle {
		research.Message = fmt.Sprintf("%s (%s) with search grounding", cfg.Research.Provider, cfg.Research.Model)
	} else {
		research.Status = checkWarn
		research.Message = fmt.Sprintf("%s (%s) with DuckDuckGo results", cfg.Research.Provider, cfg.Research.Model)
		research.Hint = "Set GOOGLE_API_KEY for grounded research"
	}
	return []checkResult{chat, research}
}

func runSheetChecks(ctx context.Context, cfg *config.Config, log *zap.Logger, flags *doctorFlags) []checkResult {
	checks := make([]checkResult, 0, 3)

	mgr := openSheet(ctx, cfg, log, io.Discard)
	if mgr.DevelopmentMode() {
		checks = append(checks, checkResult{
			Name:    "Connection",
			Status:  checkWarn,
			Message: "development mode: " + mgr.DevReason(),
			Hint:    "Set GOOGLE_SHEETS_ID and GOOGLE_SERVICE_ACCOUNT_JSON to write to Google Sheets",
		})
		checks = append(checks, checkLocalFile(cfg.Sheet.LocalFile, flags.fix))
	} else {
		checks = append(checks, checkResult{Name: "Connection", Status: checkPass, Message: mgr.Source()})
	}

	return append(checks, checkStructure(ctx, mgr))
}

func checkLocalFile(path string, fix bool) checkResult {
	if _, err := os.Stat(path); err == nil {
		return checkResult{Name: "Local File", Status: checkPass, Message: path}
	}
	if fix {
		if err := writeEmptySheet(path); err == nil {
			return checkResult{Name: "Local File", Status: checkPass, Message: path + " (created with header row)"}
		}
	}
	return checkResult{
		Name:    "Local File",
		Status:  checkWarn,
		Message: path + " not found; the sheet reads as empty",
		Hint:    "Run 'standup doctor --fix' to create it with the expected columns",
	}
}

func checkStructure(ctx context.Context, mgr *sheet.Manager) checkResult {
	missing, err := mgr.ValidateStructure(ctx)
	switch {
	case errors.Is(err, sheet.ErrNoHeaders):
		return checkResult{Name: "Structure", Status: checkWarn, Message: "no header row"}
	case err != nil:
		return checkResult{Name: "Structure", Status: checkFail, Message: err.Error()}
	case len(missing) > 0:
		return checkResult{
			Name:    "Structure",
			Status:  checkFail,
			Message: "missing columns: " + strings.Join(missing, ", "),
			Hint:    "Header row must contain: " + strings.Join(sheet.Columns, ", "),
		}
	default:
		return checkResult{Name: "Structure", Status: checkPass, Message: "all columns present"}
	}
}

// writeEmptySheet creates a CSV or XLSX file holding only the header row.
func writeEmptySheet(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()
		cols := make([]any, len(sheet.Columns))
		for i, c := range sheet.Columns {
			cols[i] = c
		}
		if err := f.SetSheetRow("Sheet1", "A1", &cols); err != nil {
			return err
		}
		return f.SaveAs(path)
	default:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		w := csv.NewWriter(f)
		if err := w.Write(sheet.Columns); err != nil {
			_ = f.Close()
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
}
