package main

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/standup/internal/output"
	"github.com/gorewood/standup/internal/sheet"
)

func newSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Inspect and back up the tracking spreadsheet",
		Long: `Inspect and back up the tracking spreadsheet.

The live Google Sheet is used when GOOGLE_SHEETS_ID and
GOOGLE_SERVICE_ACCOUNT_JSON are set; otherwise the local file
(STANDUP_LOCAL_SHEET, default tracker.csv) is read.`,
	}
	cmd.AddCommand(newSheetInfoCmd(), newSheetRowsCmd(), newSheetValidateCmd(), newSheetBackupCmd())
	return cmd
}

// sheetCommand loads config and opens the sheet, then calls fn.
func sheetCommand(fn func(cmd *cobra.Command, printer *output.Printer, mgr *sheet.Manager) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		printer := newPrinter(cmd)
		cfg, err := loadConfig(cmd)
		if err != nil {
			printer.Error(err)
			return err
		}
		log := newLogger(cmd)
		defer func() { _ = log.Sync() }()

		mgr := openSheet(cmd.Context(), cfg, log, cmd.ErrOrStderr())
		return fn(cmd, printer, mgr)
	}
}

func newSheetInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show row counts, workstreams and statuses",
		Args:  cobra.NoArgs,
		RunE: sheetCommand(func(cmd *cobra.Command, printer *output.Printer, mgr *sheet.Manager) error {
			info, err := mgr.Info(cmd.Context())
			if err != nil {
				sysErr := output.NewSystemErrorWithCause("failed to read the sheet", err)
				printer.Error(sysErr)
				return sysErr
			}

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"info":       info,
					"dev_reason": mgr.DevReason(),
				})
			}

			printer.Section("Sheet")
			printer.KeyValue("Source", info.Source)
			if info.DevelopmentMode {
				printer.KeyValue("Mode", "development ("+mgr.DevReason()+")")
			} else {
				printer.KeyValue("Mode", "live")
			}
			printer.KeyValue("Total tasks", strconv.Itoa(info.TotalRows))
			printer.KeyValue("Completed", strconv.Itoa(info.Completed))
			printer.KeyValue("Workstreams", joinOrNone(info.Workstreams))
			printer.KeyValue("Statuses", joinOrNone(info.Statuses))
			printer.KeyValue("Updated", info.LastUpdated.Format(time.DateTime))
			return nil
		}),
	}
}

type rowsFlags struct {
	workstream string
	status     string
	limit      int
}

func newSheetRowsCmd() *cobra.Command {
	var flags rowsFlags
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "List tracker rows",
		Long: `List tracker rows with their row ids.

Row ids are positions (1 = first row after the header) and are what
updates refer to.

Examples:
  standup sheet rows
  standup sheet rows --workstream Backend --status "In Progress"
  standup sheet rows --limit 20 --json`,
		Args: cobra.NoArgs,
		RunE: sheetCommand(func(cmd *cobra.Command, printer *output.Printer, mgr *sheet.Manager) error {
			rows, err := mgr.ReadRows(cmd.Context())
			if err != nil {
				sysErr := output.NewSystemErrorWithCause("failed to read the sheet", err)
				printer.Error(sysErr)
				return sysErr
			}
			return printRows(printer, filterRows(rows, flags))
		}),
	}
	cmd.Flags().StringVar(&flags.workstream, "workstream", "", "Only rows in this workstream")
	cmd.Flags().StringVar(&flags.status, "status", "", "Only rows with this status")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Show at most N rows (0 = all)")
	return cmd
}

type numberedRow struct {
	RowID int       `json:"row_id"`
	Row   sheet.Row `json:"row"`
}

func filterRows(rows []sheet.Row, flags rowsFlags) []numberedRow {
	out := []numberedRow{}
	for i, r := range rows {
		if flags.workstream != "" && !strings.EqualFold(r.Workstream, flags.workstream) {
			continue
		}
		if flags.status != "" && !strings.EqualFold(r.Status, flags.status) {
			continue
		}
		out = append(out, numberedRow{RowID: i + 1, Row: r})
		if flags.limit > 0 && len(out) == flags.limit {
			break
		}
	}
	return out
}

func printRows(printer *output.Printer, rows []numberedRow) error {
	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{"rows": rows})
	}
	if len(rows) == 0 {
		printer.Println("No rows.")
		return nil
	}

	headers := []string{"#", "Workstream", "Task", "Sub Task", "Status", "Start", "End", "Effort", "Priority"}
	table := make([][]string, 0, len(rows))
	for _, nr := range rows {
		r := nr.Row
		effort := ""
		if r.Effort > 0 {
			effort = r.Effort.String()
		}
		table = append(table, []string{
			strconv.Itoa(nr.RowID), r.Workstream, r.Task, r.SubTask,
			printer.StatusBadge(r.Status), r.StartDate, r.EndDate, effort, r.Priority,
		})
	}
	printer.Table(headers, table)
	return nil
}

func newSheetValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the header row for the expected columns",
		Args:  cobra.NoArgs,
		RunE: sheetCommand(func(cmd *cobra.Command, printer *output.Printer, mgr *sheet.Manager) error {
			missing, err := mgr.ValidateStructure(cmd.Context())
			if err != nil && !errors.Is(err, sheet.ErrNoHeaders) {
				sysErr := output.NewSystemErrorWithCause("failed to read the sheet", err)
				printer.Error(sysErr)
				return sysErr
			}

			if len(missing) == 0 {
				return printer.Success(map[string]any{
					"message":         "Sheet structure OK: all " + strconv.Itoa(len(sheet.Columns)) + " columns present",
					"valid":           true,
					"missing_columns": []string{},
				})
			}

			userErr := output.NewUserError("sheet is missing columns: " + strings.Join(missing, ", "))
			if errors.Is(err, sheet.ErrNoHeaders) {
				userErr = output.NewUserErrorWithCause("sheet has no header row; expected: "+strings.Join(sheet.Columns, ", "), err)
			}
			if printer.IsJSON() {
				if werr := printer.WriteJSON(map[string]any{"valid": false, "missing_columns": missing}); werr != nil {
					return werr
				}
				return userErr
			}
			printer.Error(userErr)
			return userErr
		}),
	}
}

func newSheetBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a JSON snapshot of the sheet",
		Long: `Write every row of the sheet to backup_sheet_YYYYMMDD_HHMMSS.json in the
backup directory (STANDUP_BACKUP_DIR, default the current directory).`,
		Args: cobra.NoArgs,
		RunE: sheetCommand(func(cmd *cobra.Command, printer *output.Printer, mgr *sheet.Manager) error {
			path, err := mgr.Backup(cmd.Context())
			if err != nil {
				sysErr := output.NewSystemErrorWithCause("backup failed", err)
				printer.Error(sysErr)
				return sysErr
			}
			return printer.Success(map[string]any{
				"message": "Backup written to " + path,
				"path":    path,
			})
		}),
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
