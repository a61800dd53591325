package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/standup/internal/export"
	"github.com/gorewood/standup/internal/guide"
	"github.com/gorewood/standup/internal/sheet"
	"github.com/gorewood/standup/internal/tracker"
)

var errNoLLM = errors.New("no language model configured")

// --- Shared types ---

// ChangeItem is a proposed change on the wire. RowID is omitted for creates.
type ChangeItem struct {
	Action    string    `json:"action"              jsonschema:"create or update"`
	RowID     int       `json:"row_id,omitempty"    jsonschema:"1-based row position to update (required for update)"`
	Data      sheet.Row `json:"data"                jsonschema:"cell values keyed by column name"`
	Reasoning string    `json:"reasoning,omitempty" jsonschema:"why this change was proposed"`
}

func toChangeItems(changes []sheet.Change) []ChangeItem {
	items := make([]ChangeItem, 0, len(changes))
	for _, c := range changes {
		items = append(items, ChangeItem{
			Action:    string(c.Action),
			RowID:     int(c.RowID),
			Data:      c.Data,
			Reasoning: c.Reasoning,
		})
	}
	return items
}

func fromChangeItems(items []ChangeItem) []sheet.Change {
	changes := make([]sheet.Change, 0, len(items))
	for _, it := range items {
		changes = append(changes, sheet.Change{
			Action:    sheet.Action(strings.ToLower(strings.TrimSpace(it.Action))),
			RowID:     sheet.RowRef(max(it.RowID, 0)),
			Data:      it.Data,
			Reasoning: it.Reasoning,
		})
	}
	return changes
}

// --- sheet_info ---

// SheetInfoInput is the input for the sheet_info tool (no parameters needed).
type SheetInfoInput struct{}

// SheetInfoOutput is the output for the sheet_info tool.
type SheetInfoOutput struct {
	TotalRows       int      `json:"total_rows"                jsonschema:"number of data rows"`
	Completed       int      `json:"completed"                 jsonschema:"rows with status Complete"`
	Workstreams     []string `json:"workstreams"               jsonschema:"distinct workstreams"`
	Statuses        []string `json:"statuses"                  jsonschema:"distinct statuses"`
	LastUpdated     string   `json:"last_updated"              jsonschema:"time the summary was taken (RFC 3339)"`
	Source          string   `json:"source"                    jsonschema:"where rows were read from"`
	DevelopmentMode bool     `json:"development_mode"          jsonschema:"true when writes are previewed instead of applied"`
	DevReason       string   `json:"dev_reason,omitempty"      jsonschema:"why development mode is on"`
	MissingColumns  []string `json:"missing_columns,omitempty" jsonschema:"expected columns absent from the header row"`
}

func handleSheetInfo(deps Deps) mcp.ToolHandlerFor[SheetInfoInput, SheetInfoOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SheetInfoInput) (*mcp.CallToolResult, SheetInfoOutput, error) {
		info, err := deps.Sheet.Info(ctx)
		if err != nil {
			return nil, SheetInfoOutput{}, fmt.Errorf("reading sheet: %w", err)
		}
		missing, err := deps.Sheet.ValidateStructure(ctx)
		if err != nil && !errors.Is(err, sheet.ErrNoHeaders) {
			return nil, SheetInfoOutput{}, err
		}
		return nil, SheetInfoOutput{
			TotalRows:       info.TotalRows,
			Completed:       info.Completed,
			Workstreams:     info.Workstreams,
			Statuses:        info.Statuses,
			LastUpdated:     info.LastUpdated.Format(time.RFC3339),
			Source:          info.Source,
			DevelopmentMode: info.DevelopmentMode,
			DevReason:       deps.Sheet.DevReason(),
			MissingColumns:  missing,
		}, nil
	}
}

// --- read_rows ---

// ReadRowsInput is the input for the read_rows tool.
type ReadRowsInput struct {
	Workstream string `json:"workstream,omitempty" jsonschema:"only rows in this workstream (case-insensitive)"`
	Status     string `json:"status,omitempty"     jsonschema:"only rows with this status (case-insensitive)"`
	Limit      int    `json:"limit,omitempty"      jsonschema:"maximum rows to return (default all)"`
}

// PositionedRow is a row with its position.
type PositionedRow struct {
	RowID int       `json:"row_id" jsonschema:"1-based row position"`
	Row   sheet.Row `json:"row"    jsonschema:"cell values"`
}

// ReadRowsOutput is the output for the read_rows tool.
type ReadRowsOutput struct {
	Total int             `json:"total" jsonschema:"rows in the sheet before filtering"`
	Rows  []PositionedRow `json:"rows"  jsonschema:"matching rows"`
}

func handleReadRows(deps Deps) mcp.ToolHandlerFor[ReadRowsInput, ReadRowsOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReadRowsInput) (*mcp.CallToolResult, ReadRowsOutput, error) {
		rows, err := deps.Sheet.ReadRows(ctx)
		if err != nil {
			return nil, ReadRowsOutput{}, err
		}

		out := ReadRowsOutput{Total: len(rows), Rows: []PositionedRow{}}
		for i, r := range rows {
			if input.Workstream != "" && !strings.EqualFold(r.Workstream, input.Workstream) {
				continue
			}
			if input.Status != "" && !strings.EqualFold(r.Status, input.Status) {
				continue
			}
			out.Rows = append(out.Rows, PositionedRow{RowID: i + 1, Row: r})
			if input.Limit > 0 && len(out.Rows) >= input.Limit {
				break
			}
		}
		return nil, out, nil
	}
}

// --- propose_changes ---

// ProposeInput is the input for the propose_changes tool.
type ProposeInput struct {
	Update string `json:"update" jsonschema:"the free-text daily update (required)"`
}

// ProposeOutput is the output for the propose_changes tool.
type ProposeOutput struct {
	Changes []ChangeItem `json:"changes" jsonschema:"validated proposed changes"`
	Preview string       `json:"preview" jsonschema:"human-readable preview of the changes"`
}

func handleProposeChanges(deps Deps) mcp.ToolHandlerFor[ProposeInput, ProposeOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProposeInput) (*mcp.CallToolResult, ProposeOutput, error) {
		if deps.Classifier == nil {
			return nil, ProposeOutput{}, llmError(deps)
		}
		if strings.TrimSpace(input.Update) == "" {
			return nil, ProposeOutput{}, errors.New("update is required")
		}

		rows, err := deps.Sheet.ReadRows(ctx)
		if err != nil {
			return nil, ProposeOutput{}, err
		}
		changes, err := deps.Classifier.Classify(ctx, input.Update, rows)
		if err != nil {
			return nil, ProposeOutput{}, err
		}
		changes = deps.Validator.Validate(changes, rows)

		return nil, ProposeOutput{Changes: toChangeItems(changes), Preview: tracker.Preview(changes)}, nil
	}
}

// --- apply_changes ---

// ApplyInput is the input for the apply_changes tool.
type ApplyInput struct {
	Changes []ChangeItem `json:"changes" jsonschema:"changes to write, usually from propose_changes (required)"`
}

// FailedChange is a change the sheet rejected.
type FailedChange struct {
	Index  int    `json:"index"            jsonschema:"position of the change in the input"`
	Action string `json:"action"           jsonschema:"create or update"`
	RowID  int    `json:"row_id,omitempty" jsonschema:"target row for updates"`
	Error  string `json:"error"            jsonschema:"why the write failed"`
}

// ApplyOutput is the output for the apply_changes tool.
type ApplyOutput struct {
	Applied         int            `json:"applied"          jsonschema:"changes written"`
	Skipped         int            `json:"skipped"          jsonschema:"updates without a row_id, not written"`
	Failed          []FailedChange `json:"failed,omitempty" jsonschema:"changes that could not be written"`
	DevelopmentMode bool           `json:"development_mode" jsonschema:"true when changes were only printed"`
}

func handleApplyChanges(deps Deps) mcp.ToolHandlerFor[ApplyInput, ApplyOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ApplyInput) (*mcp.CallToolResult, ApplyOutput, error) {
		if len(input.Changes) == 0 {
			return nil, ApplyOutput{}, errors.New("changes is required")
		}
		res, err := deps.Sheet.WriteChanges(ctx, fromChangeItems(input.Changes))
		if err != nil {
			return nil, ApplyOutput{}, err
		}

		out := ApplyOutput{Applied: res.Applied, Skipped: res.Skipped, DevelopmentMode: res.DevelopmentMode}
		for _, f := range res.Failed {
			out.Failed = append(out.Failed, FailedChange{
				Index: f.Index, Action: string(f.Action), RowID: int(f.RowID), Error: f.Error,
			})
		}
		return nil, out, nil
	}
}

// --- generate_guide ---

// GuideInput is the input for the generate_guide tool.
type GuideInput struct {
	Software string        `json:"software"         jsonschema:"software to research (required)"`
	Params   []guide.Param `json:"params,omitempty" jsonschema:"device configuration as ordered key/value pairs, e.g. OS then Ubuntu 22.04"`
	Output   string        `json:"output,omitempty" jsonschema:"base path to save the guide to; omit to only return it"`
	Format   string        `json:"format,omitempty" jsonschema:"docx or md (default docx)"`
}

// GuideOutput is the output for the generate_guide tool.
type GuideOutput struct {
	Title    string   `json:"title"             jsonschema:"document title"`
	Config   string   `json:"config"            jsonschema:"device configuration the guide targets"`
	Markdown string   `json:"markdown"          jsonschema:"the guide body in markdown"`
	Sources  []string `json:"sources,omitempty" jsonschema:"web pages the research was grounded on"`
	Path     string   `json:"path,omitempty"    jsonschema:"file the guide was saved to"`
}

func handleGenerateGuide(deps Deps) mcp.ToolHandlerFor[GuideInput, GuideOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GuideInput) (*mcp.CallToolResult, GuideOutput, error) {
		if deps.Guides == nil {
			return nil, GuideOutput{}, llmError(deps)
		}

		g, err := deps.Guides.Generate(ctx, guide.Request{Software: input.Software, Params: input.Params})
		if err != nil {
			return nil, GuideOutput{}, err
		}

		out := GuideOutput{Title: g.Title, Config: g.Config, Markdown: g.Markdown, Sources: g.Sources}
		if input.Output != "" {
			format := input.Format
			if format == "" {
				format = export.FormatDocx
			}
			out.Path, err = export.Render(g.Title, g.Markdown, input.Output, format)
			if err != nil {
				return nil, GuideOutput{}, err
			}
		}
		return nil, out, nil
	}
}

func llmError(deps Deps) error {
	if deps.LLMErr != nil {
		return deps.LLMErr
	}
	return errNoLLM
}
