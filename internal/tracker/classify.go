package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/gorewood/standup/internal/llm"
	"github.com/gorewood/standup/internal/prompt"
	"github.com/gorewood/standup/internal/sheet"
)

// ErrEmptyUpdate is returned by Classify for blank input.
var ErrEmptyUpdate = errors.New("update text is empty")

// Completer is the text-generation call the classifier needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Classifier asks a language model to map daily updates onto sheet changes.
type Classifier struct {
	llm  Completer
	tmpl *prompt.Template
	log  *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTemplate replaces the daily-update prompt template.
func WithTemplate(t *prompt.Template) Option {
	return func(c *Classifier) { c.tmpl = t }
}

// WithLogger sets the logger. Nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClassifier loads the daily-update template unless one is supplied.
func NewClassifier(c Completer, opts ...Option) (*Classifier, error) {
	cl := &Classifier{llm: c, log: zap.NewNop()}
	for _, opt := range opts {
		opt(cl)
	}
	if cl.tmpl == nil {
		tmpl, err := prompt.LoadTemplate(prompt.DailyUpdate)
		if err != nil {
			return nil, fmt.Errorf("loading classifier prompt: %w", err)
		}
		cl.tmpl = tmpl
	}
	return cl, nil
}

// Classify proposes changes for updateText against the current rows. The
// result is unvalidated; run it through Validator.Validate before showing it.
func (c *Classifier) Classify(ctx context.Context, updateText string, rows []sheet.Row) ([]sheet.Change, error) {
	if strings.TrimSpace(updateText) == "" {
		return nil, ErrEmptyUpdate
	}

	text, err := prompt.Render(c.tmpl, map[string]string{
		"sheet_context": SheetContext(rows),
		"update_text":   updateText,
	})
	if err != nil {
		return nil, fmt.Errorf("classifying updates: %w", err)
	}

	c.log.Debug("classifying updates", zap.Int("rows", len(rows)), zap.Int("prompt_bytes", len(text)))
	resp, err := c.llm.Complete(ctx, llm.Request{
		Prompt:      text,
		Temperature: c.tmpl.Temperature,
		MaxTokens:   c.tmpl.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("classifying updates: %w", err)
	}

	changes, err := ParseChanges(resp.Content)
	if err != nil {
		c.log.Warn("unparseable classifier response", zap.String("model", resp.Model), zap.Error(err))
		return nil, err
	}
	c.log.Info("classified updates", zap.String("model", resp.Model), zap.Int("changes", len(changes)))
	return changes, nil
}

// SheetContext summarises the snapshot for the prompt: one line per row plus
// the workstream and tag vocabularies.
func SheetContext(rows []sheet.Row) string {
	if len(rows) == 0 {
		return "No existing data in sheet."
	}

	var b strings.Builder
	b.WriteString("CURRENT SHEET ROWS:\n")
	var workstreams, tags []string
	for i, r := range rows {
		fmt.Fprintf(&b, "Row %d: %s | %s | %s | %s\n", i+1, r.Workstream, r.Task, r.Status, r.Tags)
		if r.Workstream != "" && !slices.Contains(workstreams, r.Workstream) {
			workstreams = append(workstreams, r.Workstream)
		}
		for _, t := range r.TagList() {
			if !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
	}
	fmt.Fprintf(&b, "\nEXISTING WORKSTREAMS: %s\n", strings.Join(workstreams, ", "))
	fmt.Fprintf(&b, "EXISTING TAGS: %s\n", strings.Join(tags, ", "))
	return b.String()
}
