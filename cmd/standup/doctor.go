package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/standup/internal/output"
)

// checkStatus represents the result of a health check.
type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult holds the result of a single health check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult holds all check results organized by category.
type doctorResult struct {
	Version string         `json:"version"`
	Config  []checkResult  `json:"config"`
	LLM     []checkResult  `json:"llm"`
	Sheet   []checkResult  `json:"sheet"`
	Summary *doctorSummary `json:"summary"`
}

// doctorSummary holds the counts of check results.
type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

type doctorFlags struct {
	fix   bool
	quiet bool
}

func newDoctorCmd() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration health and suggest fixes",
		Long: `Check standup configuration health and suggest fixes.

Runs a series of health checks across three categories:
  CONFIG - Config file, env files, backup directory, prompt templates
  LLM    - Chat and research provider selection
  SHEET  - Spreadsheet connection, local file and column structure

Examples:
  standup doctor              # Run all health checks
  standup doctor --fix        # Create the backup dir and an empty local sheet
  standup doctor --quiet      # Only show failures and warnings
  standup doctor --json       # Output results as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.fix, "fix", false, "Create missing directories and files")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Only show failures and warnings")

	return cmd
}

func runDoctor(cmd *cobra.Command, flags *doctorFlags) error {
	printer := newPrinter(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	log := newLogger(cmd)
	defer func() { _ = log.Sync() }()

	result := &doctorResult{
		Version: buildVersion(),
		Config:  runConfigChecks(cfg, flags),
		LLM:     runLLMChecks(cfg),
		Summary: &doctorSummary{},
	}
	result.Sheet = runSheetChecks(cmd.Context(), cfg, log, flags)

	for _, checks := range [][]checkResult{result.Config, result.LLM, result.Sheet} {
		for _, check := range checks {
			switch check.Status {
			case checkPass:
				result.Summary.Passed++
			case checkWarn:
				result.Summary.Warnings++
			case checkFail:
				result.Summary.Failed++
			}
		}
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	outputDoctorHuman(printer, result, flags.quiet)
	return nil
}

func outputDoctorHuman(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Println()
	printer.Print("standup doctor %s\n", result.Version)

	printCheckSection(printer, "CONFIG", result.Config, quiet)
	printCheckSection(printer, "LLM", result.LLM, quiet)
	printCheckSection(printer, "SHEET", result.Sheet, quiet)

	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		statusIcon(checkPass), result.Summary.Passed,
		statusIcon(checkWarn), result.Summary.Warnings,
		statusIcon(checkFail), result.Summary.Failed,
	)
}

func printCheckSection(printer *output.Printer, title string, checks []checkResult, quiet bool) {
	if quiet {
		hasNonPass := false
		for _, check := range checks {
			if check.Status != checkPass {
				hasNonPass = true
				break
			}
		}
		if !hasNonPass {
			return
		}
	}

	printer.Println()
	printer.Println(title)

	for _, check := range checks {
		if quiet && check.Status == checkPass {
			continue
		}
		printer.Print("  %s  %s %s\n", statusIcon(check.Status), check.Name, check.Message)
		if check.Hint != "" {
			printer.Print("     -> %s\n", check.Hint)
		}
	}
}

func statusIcon(status checkStatus) string {
	switch status {
	case checkPass:
		return "ok"
	case checkWarn:
		return "!!"
	case checkFail:
		return "XX"
	default:
		return "??"
	}
}
