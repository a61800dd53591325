package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	standupmcp "github.com/gorewood/standup/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	var requireLLM bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run standup as a Model Context Protocol (MCP) server over stdio.

This exposes the tracker and guide generator as MCP tools for any
MCP-capable agent.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "standup": {
        "command": "standup",
        "args": ["serve"]
      }
    }
  }

Available tools: sheet_info, read_rows, propose_changes, apply_changes,
generate_guide

Without language model credentials only the sheet tools work; pass
--require-llm to refuse to start instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if requireLLM {
				if err := cfg.RequireLLM(); err != nil {
					return err
				}
			}
			log := newLogger(cmd)
			defer func() { _ = log.Sync() }()

			// stdout carries the protocol; previews and logs go to stderr.
			svc, err := newServices(cmd.Context(), cfg, log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			server := standupmcp.NewServer(buildVersion(), svc.mcpDeps())
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
	cmd.Flags().BoolVar(&requireLLM, "require-llm", false, "Fail at startup when no language model is configured")
	return cmd
}
