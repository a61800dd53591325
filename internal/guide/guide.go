// Package guide researches a software product and writes an installation
// guide in markdown.
//
// A research-capable model searches the web itself. Any other model gets
// search results fetched up front and pasted into the prompt.
package guide

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gorewood/standup/internal/llm"
	"github.com/gorewood/standup/internal/output"
	"github.com/gorewood/standup/internal/prompt"
	"github.com/gorewood/standup/internal/search"
)

// DefaultConfig describes an unspecified device.
const DefaultConfig = "Default configuration"

// Researcher is the model a Generator writes with.
type Researcher interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
	// Grounded reports whether the model can search the web itself.
	Grounded() bool
}

// Searcher pre-fetches web results for models that cannot search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// Param is one device configuration entry, such as OS=Ubuntu 22.04.
type Param struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// Request describes the guide to write. Params keep the order given and may
// repeat a key.
type Request struct {
	Software string  `json:"software" validate:"required,max=200"`
	Params   []Param `json:"params,omitempty" validate:"omitempty,dive"`
}

// Guide is a generated document.
type Guide struct {
	Title    string   `json:"title"`
	Config   string   `json:"config"`
	Markdown string   `json:"markdown"`
	Model    string   `json:"model,omitempty"`
	Sources  []string `json:"sources,omitempty"`
}

// Generator writes installation guides.
type Generator struct {
	llm      Researcher
	searcher Searcher
	tmpl     *prompt.Template
	validate *validator.Validate
	log      *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithSearcher sets the fallback web searcher.
func WithSearcher(s Searcher) Option {
	return func(g *Generator) { g.searcher = s }
}

// WithTemplate replaces the install-guide prompt template.
func WithTemplate(t *prompt.Template) Option {
	return func(g *Generator) { g.tmpl = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGenerator builds a Generator. Without WithSearcher, non-grounded models
// search DuckDuckGo.
func NewGenerator(r Researcher, opts ...Option) (*Generator, error) {
	g := &Generator{
		llm:      r,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.searcher == nil {
		g.searcher = search.New(search.WithLogger(g.log))
	}
	if g.tmpl == nil {
		tmpl, err := prompt.LoadTemplate(prompt.InstallGuide)
		if err != nil {
			return nil, fmt.Errorf("loading guide prompt: %w", err)
		}
		g.tmpl = tmpl
	}
	return g, nil
}

// Generate researches req.Software on the configured device and returns the
// guide. A leading "Final answer:" is stripped; the text is otherwise
// unchanged.
func (g *Generator) Generate(ctx context.Context, req Request) (*Guide, error) {
	req.Software = strings.TrimSpace(req.Software)
	if err := g.validate.Struct(req); err != nil {
		return nil, output.NewUserErrorWithCause("invalid guide request", err)
	}

	config := FormatDeviceConfig(req.Params)
	query := Query(req.Software, config)

	var results string
	if !g.llm.Grounded() {
		results = g.prefetch(ctx, query)
	}

	text, err := prompt.Render(g.tmpl, map[string]string{
		"search_results": results,
		"query":          query,
	})
	if err != nil {
		return nil, err
	}

	g.log.Info("researching guide", zap.String("query", query), zap.Bool("grounded", g.llm.Grounded()))
	resp, err := g.llm.Complete(ctx, llm.Request{
		Prompt:      text,
		Temperature: g.tmpl.Temperature,
		MaxTokens:   g.tmpl.MaxTokens,
		WebSearch:   g.llm.Grounded(),
	})
	if err != nil {
		return nil, fmt.Errorf("generating guide: %w", err)
	}
	for _, src := range resp.Sources {
		g.log.Debug("grounding source", zap.String("url", src))
	}

	return &Guide{
		Title:    Title(req.Software, config),
		Config:   config,
		Markdown: prompt.StripFinalAnswer(resp.Content),
		Model:    resp.Model,
		Sources:  resp.Sources,
	}, nil
}

// prefetch returns formatted search results, or "" if the search fails.
func (g *Generator) prefetch(ctx context.Context, query string) string {
	results, err := g.searcher.Search(ctx, query)
	if err != nil {
		g.log.Warn("web search failed, continuing without results", zap.Error(err))
		return ""
	}
	return search.Format(query, results)
}

// FormatDeviceConfig renders parameters as "KEY: VALUE, KEY: VALUE" in the
// order given, or DefaultConfig when there are none.
func FormatDeviceConfig(params []Param) string {
	if len(params) == 0 {
		return DefaultConfig
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Key+": "+p.Value)
	}
	return strings.Join(parts, ", ")
}

// Query is the research request appended to the prompt.
func Query(software, config string) string {
	return fmt.Sprintf("Research guide for %s installation on %s", software, config)
}

// Title is the document title.
func Title(software, config string) string {
	return fmt.Sprintf("%s Installation Guide for %s", software, config)
}

// ParseParams reads KEY=VALUE pairs in order. Keys are trimmed and must be
// non-empty; repeated keys are kept.
func ParseParams(pairs []string) ([]Param, error) {
	params := make([]Param, 0, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, output.NewUserError(fmt.Sprintf("invalid parameter %q (want KEY=VALUE)", p))
		}
		params = append(params, Param{Key: k, Value: strings.TrimSpace(v)})
	}
	return params, nil
}
