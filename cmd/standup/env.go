package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gorewood/standup/internal/config"
	"github.com/gorewood/standup/internal/llm"
	"github.com/gorewood/standup/internal/output"
	"github.com/gorewood/standup/internal/sheet"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return boolFlag(cmd, "json")
}

func boolFlag(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	return flag != nil && flag.Value.String() == "true"
}

func stringFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// useColor resolves --color against the stdout TTY state.
func useColor(cmd *cobra.Command) bool {
	return output.ResolveColorMode(stringFlag(cmd, "color"), output.IsTTY(cmd.OutOrStdout()))
}

func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

// newLogger logs to stderr: warnings by default, everything with --verbose.
func newLogger(cmd *cobra.Command) *zap.Logger {
	level := zapcore.WarnLevel
	if boolFlag(cmd, "verbose") {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(cmd.ErrOrStderr()), level)
	return zap.New(core)
}

// loadConfig loads --config (or the default file) plus the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(stringFlag(cmd, "config"))
	if err != nil {
		return nil, output.NewUserErrorWithCause("could not load configuration", err)
	}
	return cfg, nil
}

// openSheet connects to the configured spreadsheet, falling back to the local
// file. Development-mode previews go to out.
func openSheet(ctx context.Context, cfg *config.Config, log *zap.Logger, out io.Writer) *sheet.Manager {
	return sheet.Open(ctx, sheet.Options{
		SpreadsheetID:   cfg.Sheet.ID,
		CredentialsFile: cfg.Sheet.CredentialsFile,
		Worksheet:       cfg.Sheet.Worksheet,
		LocalFile:       cfg.Sheet.LocalFile,
	},
		sheet.WithLogger(log),
		sheet.WithOutput(out),
		sheet.WithBackupDir(cfg.BackupDir),
	)
}

// chatClient returns the client for daily-update classification.
func chatClient(cfg *config.Config) (*llm.Client, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	return llm.NewFromSelection(*cfg.Chat), nil
}

// researchClient returns the client for guide research.
func researchClient(cfg *config.Config) (*llm.Client, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	return llm.NewFromSelection(*cfg.Research), nil
}

// readInput joins the positional text, the --input file and piped stdin.
func readInput(cmd *cobra.Command, args []string, inputFile string) (string, error) {
	var parts []string

	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		parts = append(parts, args[0])
	}

	if inputFile != "" {
		content, err := os.ReadFile(inputFile)
		if err != nil {
			return "", output.NewUserError("failed to read input file: " + err.Error())
		}
		parts = append(parts, strings.TrimSpace(string(content)))
	}

	stdin, err := readStdinIfPiped(cmd)
	if err != nil {
		return "", err
	}
	if stdin != "" {
		parts = append(parts, stdin)
	}

	return strings.Join(parts, "\n\n"), nil
}

// readStdinIfPiped reads stdin unless it is a terminal.
func readStdinIfPiped(cmd *cobra.Command) (string, error) {
	stdin := cmd.InOrStdin()
	if output.IsInteractive(stdin) {
		return "", nil
	}
	if file, ok := stdin.(*os.File); ok {
		if _, err := file.Stat(); err != nil {
			return "", nil //nolint:nilerr // an unusable stdin is treated as empty
		}
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to read stdin", err)
	}
	return strings.TrimSpace(string(content)), nil
}
