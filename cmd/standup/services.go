package main

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/gorewood/standup/internal/config"
	"github.com/gorewood/standup/internal/guide"
	"github.com/gorewood/standup/internal/mcp"
	"github.com/gorewood/standup/internal/output"
	"github.com/gorewood/standup/internal/search"
	"github.com/gorewood/standup/internal/sheet"
	"github.com/gorewood/standup/internal/tracker"
	"github.com/gorewood/standup/internal/web"
)

// newSearcher builds the web searcher used for non-grounded research.
var newSearcher = func(log *zap.Logger) guide.Searcher {
	return search.New(search.WithLogger(log))
}

// services are the collaborators shared by the long-running front ends.
// classifier and guides are nil when no language model is configured, with
// the reason in llmErr.
type services struct {
	sheet      *sheet.Manager
	classifier *tracker.Classifier
	guides     *guide.Generator
	llmErr     error
}

func newServices(ctx context.Context, cfg *config.Config, log *zap.Logger, previewOut io.Writer) (*services, error) {
	s := &services{sheet: openSheet(ctx, cfg, log, previewOut)}
	if s.sheet.DevelopmentMode() {
		log.Warn("development mode: writes are printed, not saved", zap.String("reason", s.sheet.DevReason()))
	}

	if err := cfg.RequireLLM(); err != nil {
		s.llmErr = err
		log.Warn("language model features disabled", zap.Error(err))
		return s, nil
	}

	chat, err := chatClient(cfg)
	if err != nil {
		return nil, err
	}
	if s.classifier, err = tracker.NewClassifier(chat, tracker.WithLogger(log)); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to load classifier", err)
	}

	research, err := researchClient(cfg)
	if err != nil {
		return nil, err
	}
	if s.guides, err = guide.NewGenerator(research, guide.WithLogger(log), guide.WithSearcher(newSearcher(log))); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to load guide prompt", err)
	}
	return s, nil
}

func (s *services) webDeps(guideDir string, log *zap.Logger) web.Deps {
	deps := web.Deps{
		Sheet:    s.sheet,
		LLMErr:   s.llmErr,
		GuideDir: guideDir,
		Logger:   log,
	}
	if s.classifier != nil {
		deps.Classifier = s.classifier
	}
	if s.guides != nil {
		deps.Guides = s.guides
	}
	return deps
}

func (s *services) mcpDeps() mcp.Deps {
	deps := mcp.Deps{
		Sheet:  s.sheet,
		LLMErr: s.llmErr,
	}
	if s.classifier != nil {
		deps.Classifier = s.classifier
	}
	if s.guides != nil {
		deps.Guides = s.guides
	}
	return deps
}
