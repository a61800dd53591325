// Package main provides the entry point for the standup CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gorewood/standup/internal/config"
	"github.com/gorewood/standup/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the standup CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standup",
		Short: "Turn daily updates into project-tracker changes",
		Long: `Standup - keep a project-tracking spreadsheet current from free-form daily updates.

Standup reads what you did today, asks a language model which tracker rows
it touches, fills in dates, effort and priority, and writes the changes to
Google Sheets after you approve them. Without a live sheet it runs in
development mode against a local CSV or XLSX file and only prints writes.

It also generates installation guides for software on a given device
configuration, as Word or Markdown documents.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'standup --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loadEnvFiles()
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details to stderr")
	cmd.PersistentFlags().String("config", "", "Config file (default: <config dir>/config.toml)")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads the dotenv files from config.EnvFiles. The first file
// that sets a variable wins and variables already in the environment are
// never overwritten. Missing files are ignored.
func loadEnvFiles() {
	for _, f := range config.EnvFiles() {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "serve", Title: "Server Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newUpdateCmd(), "core")
	addGroupedCommand(cmd, newSheetCmd(), "core")
	addGroupedCommand(cmd, newGuideCmd(), "core")
	addGroupedCommand(cmd, newGenerateCmd(), "core")

	addGroupedCommand(cmd, newWebCmd(), "serve")
	addGroupedCommand(cmd, newServeCmd(), "serve")

	addGroupedCommand(cmd, newDoctorCmd(), "admin")
}

func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
