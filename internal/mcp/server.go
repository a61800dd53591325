// Package mcp provides a Model Context Protocol server for standup.
// It exposes the tracking sheet and the guide generator as MCP tools.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/standup/internal/guide"
	"github.com/gorewood/standup/internal/sheet"
	"github.com/gorewood/standup/internal/tracker"
)

// Sheet is the spreadsheet surface the tools use. *sheet.Manager implements
// it.
type Sheet interface {
	Info(ctx context.Context) (sheet.Info, error)
	ReadRows(ctx context.Context) ([]sheet.Row, error)
	ValidateStructure(ctx context.Context) ([]string, error)
	WriteChanges(ctx context.Context, changes []sheet.Change) (sheet.WriteResult, error)
	DevReason() string
}

// Classifier proposes changes for a daily update.
type Classifier interface {
	Classify(ctx context.Context, updateText string, rows []sheet.Row) ([]sheet.Change, error)
}

// GuideWriter writes installation guides.
type GuideWriter interface {
	Generate(ctx context.Context, req guide.Request) (*guide.Guide, error)
}

// Deps are the collaborators behind the tools. Classifier and Guides may be
// nil when no language model is configured; their tools then return an
// error explaining why.
type Deps struct {
	Sheet      Sheet
	Classifier Classifier
	Guides     GuideWriter
	Validator  tracker.Validator
	// LLMErr is reported by model-backed tools when Classifier or Guides is
	// nil.
	LLMErr error
}

// NewServer creates an MCP server with all standup tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "standup",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for tools that only read the sheet.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// modelAnnotations returns annotations for tools that call a language model
// but write nothing to the sheet.
func modelAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:  true,
		OpenWorldHint: boolPtr(true),
	}
}

// writeAnnotations returns annotations for apply_changes, which overwrites
// cells.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "sheet_info",
		Description: "Summarise the tracking sheet: row count, completed tasks, workstreams, statuses, missing columns and whether writes are live or previewed (development mode).",
		Annotations: readOnlyAnnotations(),
	}, handleSheetInfo(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_rows",
		Description: "Read rows from the tracking sheet with their 1-based row positions. Positions are only valid until the sheet changes.",
		Annotations: readOnlyAnnotations(),
	}, handleReadRows(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "propose_changes",
		Description: "Turn a free-text daily update into proposed create/update changes for the sheet, with missing dates, effort and priority filled in. Nothing is written; pass the result to apply_changes after review.",
		Annotations: modelAnnotations(),
	}, handleProposeChanges(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_changes",
		Description: "Write reviewed changes to the sheet. Updates overwrite the given cells of row_id; creates append a row. In development mode the changes are only printed.",
		Annotations: writeAnnotations(),
	}, handleApplyChanges(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_guide",
		Description: "Research a software product and write an installation guide (What is it?, Installation Guide, Pros & Cons, Next Steps). Optionally saves it as docx or md.",
		Annotations: modelAnnotations(),
	}, handleGenerateGuide(deps))
}
