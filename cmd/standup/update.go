package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/standup/internal/output"
	"github.com/gorewood/standup/internal/sheet"
	"github.com/gorewood/standup/internal/tracker"
)

type updateFlags struct {
	input  string
	yes    bool
	backup bool
}

func newUpdateCmd() *cobra.Command {
	var flags updateFlags

	cmd := &cobra.Command{
		Use:   "update [text]",
		Short: "Classify a daily update into tracker changes",
		Long: `Classify a free-form daily update into spreadsheet changes.

The update is matched against the current rows: work on an existing task
becomes an update of that row, new work becomes a new row. Missing dates,
effort and priority are filled in before the changes are shown.

Nothing is written until you confirm, or pass --yes. In development mode
(no live spreadsheet) the writes are printed instead.

Examples:
  standup update "Finished the login API, started on password reset"
  standup update --input today.txt --yes
  cat notes.md | standup update --backup --yes
  standup update "Reviewed PR 42" --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Read the update from a file")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Apply the changes without asking")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "Write a JSON backup of the sheet before applying")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string, flags updateFlags) error {
	printer := newPrinter(cmd)

	text, err := readInput(cmd, args, flags.input)
	if err != nil {
		printer.Error(err)
		return err
	}
	if strings.TrimSpace(text) == "" {
		err := output.NewUserError("no update provided. Use an argument, --input file, or pipe via stdin")
		printer.Error(err)
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	client, err := chatClient(cfg)
	if err != nil {
		printer.Error(err)
		return err
	}

	log := newLogger(cmd)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
	defer cancel()

	// Development-mode write previews must not mix with JSON output.
	previewOut := cmd.OutOrStdout()
	if printer.IsJSON() {
		previewOut = cmd.ErrOrStderr()
	}
	mgr := openSheet(ctx, cfg, log, previewOut)
	if mgr.DevelopmentMode() && !printer.IsJSON() {
		printer.Warn("development mode (%s); changes will be printed, not saved", mgr.DevReason())
	}

	classifier, err := tracker.NewClassifier(client, tracker.WithLogger(log))
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to load classifier", err)
		printer.Error(sysErr)
		return sysErr
	}

	changes, err := proposeChanges(ctx, mgr, classifier, text)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() && (!flags.yes || len(changes) == 0) {
		return printer.WriteJSON(map[string]any{
			"changes": nonNil(changes),
			"summary": tracker.Summarize(changes),
			"applied": false,
		})
	}
	if !printer.IsJSON() {
		printer.Markdown(tracker.Summarize(changes))
		if len(changes) > 0 {
			printer.Box("Proposed changes", tracker.Preview(changes))
		}
	}
	if len(changes) == 0 {
		return nil
	}

	if !flags.yes && !confirm(cmd, printer) {
		printer.Stderr("Changes rejected. Re-run with --yes to apply without asking.\n")
		return nil
	}

	return applyChanges(ctx, printer, mgr, changes, flags.backup)
}

// proposeChanges classifies text against the current rows and validates the
// result.
func proposeChanges(ctx context.Context, mgr *sheet.Manager, c *tracker.Classifier, text string) ([]sheet.Change, error) {
	rows, err := mgr.ReadRows(ctx)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read the sheet", err)
	}

	changes, err := c.Classify(ctx, text, rows)
	if err != nil {
		var perr *tracker.ParseError
		switch {
		case errors.As(err, &perr):
			return nil, output.NewParseError("could not read the model's proposed changes", err)
		case errors.Is(err, tracker.ErrEmptyUpdate):
			return nil, output.NewUserError(err.Error())
		case output.IsUserError(err):
			return nil, err
		default:
			return nil, output.NewSystemErrorWithCause("classification failed", err)
		}
	}

	return tracker.Validator{}.Validate(changes, rows), nil
}

func applyChanges(
	ctx context.Context, printer *output.Printer,
	mgr *sheet.Manager, changes []sheet.Change, backup bool,
) error {
	var backupPath string
	if backup {
		path, err := mgr.Backup(ctx)
		if err != nil {
			sysErr := output.NewSystemErrorWithCause("backup failed", err)
			printer.Error(sysErr)
			return sysErr
		}
		backupPath = path
	}

	res, err := mgr.WriteChanges(ctx, changes)
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to write changes", err)
		printer.Error(sysErr)
		return sysErr
	}

	if printer.IsJSON() {
		data := map[string]any{
			"changes": changes,
			"applied": true,
			"result":  res,
		}
		if backupPath != "" {
			data["backup"] = backupPath
		}
		return printer.WriteJSON(data)
	}

	if backupPath != "" {
		printer.KeyValue("Backup", backupPath)
	}
	printWriteResult(printer, res)
	return nil
}

func printWriteResult(printer *output.Printer, res sheet.WriteResult) {
	if res.DevelopmentMode {
		printer.Println("Development mode: changes were printed above, nothing was saved.")
		return
	}
	printer.Println(fmt.Sprintf("Applied %d change(s).", res.Applied))
	if res.Skipped > 0 {
		printer.Warn("%d change(s) skipped (no target row)", res.Skipped)
	}
	for _, f := range res.Failed {
		printer.Warn("change %d (%s) failed: %s", f.Index+1, f.Action, f.Error)
	}
}

// confirm asks "Apply these changes?" on an interactive stdin. Anything but
// y or yes declines.
func confirm(cmd *cobra.Command, printer *output.Printer) bool {
	in := cmd.InOrStdin()
	if !output.IsInteractive(in) {
		return false
	}
	printer.Stderr("Apply these changes? [y/N] ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func nonNil(changes []sheet.Change) []sheet.Change {
	if changes == nil {
		return []sheet.Change{}
	}
	return changes
}
