package main

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/standup/internal/config"
	"github.com/gorewood/standup/internal/llm"
	"github.com/gorewood/standup/internal/output"
	"github.com/gorewood/standup/internal/prompt"
)

// generateFlags holds all flag values for the generate command.
type generateFlags struct {
	model       string
	system      string
	input       string
	temperature float64
	maxTokens   int
	timeout     int
	webSearch   bool
	clean       bool
}

func newGenerateCmd() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate an LLM completion",
		Long: `Send a prompt to the configured language model and print the reply.

This is a composable primitive for piping text through the same provider
the update and guide commands use. The provider is picked from the
available credentials (Google, OpenAI, Groq, Anthropic, local) unless
--model names one.

Examples:
  standup generate "Explain recursion"
  echo "Summarize this" | standup generate
  standup generate "Latest Go release?" --web-search
  standup generate "Draft a release note" --clean
  standup generate "Write tests" --model claude-haiku --system "You are a Go expert"

Environment variables:
  GOOGLE_API_KEY, OPENAI_API_KEY, GROQ_API_KEY, ANTHROPIC_API_KEY
  LOCAL_LLM_URL   OpenAI-compatible local server (LM Studio, Ollama)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Model name or alias (default: first configured provider)")
	cmd.Flags().StringVarP(&flags.system, "system", "s", "", "System prompt")
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input file (default: stdin if no prompt argument)")
	cmd.Flags().Float64Var(&flags.temperature, "temperature", 0, "Temperature (0.0-2.0, 0 uses model default)")
	cmd.Flags().IntVar(&flags.maxTokens, "max-tokens", 0, "Max tokens to generate (0 uses model default)")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 120, "Request timeout in seconds")
	cmd.Flags().BoolVar(&flags.webSearch, "web-search", false, "Use the research provider with web search grounding")
	cmd.Flags().BoolVar(&flags.clean, "clean", false, "Strip chatty lead-ins and sign-offs from the reply")

	return cmd
}

// validateGenerateFlags validates the LLM-related flags.
func validateGenerateFlags(flags generateFlags) error {
	if flags.temperature < 0 || flags.temperature > 2 {
		return output.NewUserError("temperature must be between 0 and 2, got " + strconv.FormatFloat(flags.temperature, 'f', -1, 64))
	}
	if flags.timeout <= 0 {
		return output.NewUserError("timeout must be positive, got " + strconv.Itoa(flags.timeout))
	}
	if flags.maxTokens < 0 {
		return output.NewUserError("max-tokens must be non-negative, got " + strconv.Itoa(flags.maxTokens))
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string, flags generateFlags) error {
	printer := newPrinter(cmd)

	if err := validateGenerateFlags(flags); err != nil {
		printer.Error(err)
		return err
	}

	promptText, err := readInput(cmd, args, flags.input)
	if err != nil {
		printer.Error(err)
		return err
	}
	if promptText == "" {
		err := output.NewUserError("no prompt provided. Use argument, --input file, or pipe via stdin")
		printer.Error(err)
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	sel, err := generateSelection(cfg, flags)
	if err != nil {
		printer.Error(err)
		return err
	}
	client := llm.NewFromSelection(sel)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(flags.timeout)*time.Second)
	defer cancel()

	resp, err := client.Complete(ctx, llm.Request{
		System:      flags.system,
		Prompt:      promptText,
		Temperature: flags.temperature,
		MaxTokens:   flags.maxTokens,
		WebSearch:   flags.webSearch && client.Grounded(),
	})
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("generation failed", err)
		printer.Error(sysErr)
		return sysErr
	}

	content := resp.Content
	if flags.clean {
		content = prompt.SanitizeLLMOutput(content)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"provider": resp.Provider,
			"model":    resp.Model,
			"content":  content,
			"sources":  resp.Sources,
		})
	}

	printer.Print("%s\n", content)
	return nil
}

// generateSelection resolves --model against the available credentials.
// Without it the configured chat (or research) selection is used.
func generateSelection(cfg *config.Config, flags generateFlags) (llm.Selection, error) {
	if flags.model != "" {
		return llm.Select(cfg.Credentials, llm.ChatPriority, flags.model)
	}
	if err := cfg.RequireLLM(); err != nil {
		return llm.Selection{}, err
	}
	if flags.webSearch {
		return *cfg.Research, nil
	}
	return *cfg.Chat, nil
}
