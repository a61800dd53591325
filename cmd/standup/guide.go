package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/standup/internal/export"
	"github.com/gorewood/standup/internal/guide"
	"github.com/gorewood/standup/internal/output"
)

// previewChars is how much of a generated guide is echoed to the terminal.
const previewChars = 500

type guideFlags struct {
	software string
	params   []string
	format   string
	output   string
}

func newGuideCmd() *cobra.Command {
	var flags guideFlags

	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Generate an installation guide document",
		Long: `Research and write a step-by-step installation guide.

The device configuration is given as KEY=VALUE parameters. With a Google
API key the model searches the web itself; other providers are given
DuckDuckGo results gathered beforehand.

The guide is written to <output>.<format> and a short preview is printed.

Examples:
  standup guide --software Docker --param OS="Ubuntu 22.04" --param RAM=8GB
  standup guide --software nginx --format md --output nginx_guide
  standup guide --software PostgreSQL --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGuide(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.software, "software", "s", "", "Software to install (required)")
	cmd.Flags().StringArrayVarP(&flags.params, "param", "p", nil, "Device parameter as KEY=VALUE (repeatable)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Document format: "+strings.Join(export.Formats, ", ")+" (default from config: docx)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output path without extension (default from config: generated_guide)")
	_ = cmd.MarkFlagRequired("software")

	return cmd
}

func runGuide(cmd *cobra.Command, flags guideFlags) error {
	printer := newPrinter(cmd)

	params, err := guide.ParseParams(flags.params)
	if err != nil {
		printer.Error(err)
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	format := strings.ToLower(strings.TrimSpace(firstNonEmpty(flags.format, cfg.Guide.Format)))
	if !slices.Contains(export.Formats, format) {
		err := output.NewUserError(fmt.Sprintf("invalid --format %q (use %s)", format, strings.Join(export.Formats, " or ")))
		printer.Error(err)
		return err
	}
	base := firstNonEmpty(flags.output, cfg.Guide.Output)
	if ext := filepath.Ext(base); slices.Contains(export.Formats, strings.ToLower(strings.TrimPrefix(ext, "."))) {
		base = strings.TrimSuffix(base, ext)
	}

	client, err := researchClient(cfg)
	if err != nil {
		printer.Error(err)
		return err
	}

	log := newLogger(cmd)
	defer func() { _ = log.Sync() }()

	gen, err := guide.NewGenerator(client, guide.WithLogger(log), guide.WithSearcher(newSearcher(log)))
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to load guide prompt", err)
		printer.Error(sysErr)
		return sysErr
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout())
	defer cancel()

	printer.Stderr("Researching %s on %s...\n", flags.software, guide.FormatDeviceConfig(params))
	g, err := gen.Generate(ctx, guide.Request{Software: flags.software, Params: params})
	if err != nil {
		if !output.IsUserError(err) {
			err = output.NewSystemErrorWithCause("guide generation failed", err)
		}
		printer.Error(err)
		return err
	}

	path, err := export.Render(g.Title, g.Markdown, base, format)
	if err != nil {
		if !output.IsUserError(err) {
			err = output.NewSystemErrorWithCause("failed to write guide", err)
		}
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"title":    g.Title,
			"config":   g.Config,
			"model":    g.Model,
			"sources":  g.Sources,
			"path":     path,
			"markdown": g.Markdown,
		})
	}

	printer.KeyValue("Guide", path)
	printer.KeyValue("Model", g.Model)
	printer.Section("Preview")
	printer.Markdown(previewText(g.Markdown, previewChars))
	return nil
}

// previewText returns the first n characters of s, with "..." when cut.
func previewText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
