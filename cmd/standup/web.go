package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gorewood/standup/internal/output"
	"github.com/gorewood/standup/internal/web"
)

func newWebCmd() *cobra.Command {
	var (
		addr       string
		requireLLM bool
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Run the browser UI",
		Long: `Run the browser UI: a chat-style daily update flow with apply/reject,
a sheet overview, backups and the guide generator.

The address defaults to STANDUP_WEB_ADDR or the web.addr config value
(127.0.0.1:8501).

Examples:
  standup web
  standup web --addr :8080
  standup web --require-llm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				printer.Error(err)
				return err
			}
			if addr == "" {
				addr = cfg.Web.Addr
			}

			if requireLLM {
				if err := cfg.RequireLLM(); err != nil {
					printer.Error(err)
					return err
				}
			}

			log := newLogger(cmd)
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := newServices(ctx, cfg, log, cmd.ErrOrStderr())
			if err != nil {
				printer.Error(err)
				return err
			}

			guideDir, err := os.MkdirTemp("", "standup-guides-")
			if err != nil {
				sysErr := output.NewSystemErrorWithCause("failed to create guide directory", err)
				printer.Error(sysErr)
				return sysErr
			}
			defer func() { _ = os.RemoveAll(guideDir) }()

			printer.Stderr("Serving on http://%s (Ctrl+C to stop)\n", addr)
			if err := web.NewServer(svc.webDeps(guideDir, log)).Run(ctx, addr); err != nil {
				sysErr := output.NewSystemErrorWithCause("web server failed", err)
				printer.Error(sysErr)
				return sysErr
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (host:port)")
	cmd.Flags().BoolVar(&requireLLM, "require-llm", false, "Fail at startup when no language model is configured")
	return cmd
}
