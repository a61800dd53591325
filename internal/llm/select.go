package llm

import (
	"errors"
	"os"
	"strings"

	"github.com/gorewood/standup/internal/output"
)

// ErrNoCredentials is returned when no provider in a priority list has
// credentials configured.
var ErrNoCredentials = errors.New("no LLM provider credentials configured")

// Credentials holds the API keys and endpoints a provider may be selected with.
// An empty field means the provider is unavailable.
type Credentials struct {
	Google    string
	OpenAI    string
	Groq      string
	Anthropic string
	LocalURL  string
}

// CredentialsFromEnv reads provider credentials from the environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		Google:    os.Getenv(envVarForProvider[ProviderGoogle]),
		OpenAI:    os.Getenv(envVarForProvider[ProviderOpenAI]),
		Groq:      os.Getenv(envVarForProvider[ProviderGroq]),
		Anthropic: os.Getenv(envVarForProvider[ProviderAnthropic]),
		LocalURL:  os.Getenv("LOCAL_LLM_URL"),
	}
}

func (c Credentials) key(p Provider) string {
	switch p {
	case ProviderGoogle:
		return c.Google
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderGroq:
		return c.Groq
	case ProviderAnthropic:
		return c.Anthropic
	case ProviderLocal:
		if c.LocalURL != "" {
			return "not-needed"
		}
	}
	return ""
}

// Available lists the providers that have credentials, in chat priority order.
func (c Credentials) Available() []Provider {
	var out []Provider
	for _, p := range ChatPriority {
		if c.key(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Selection is a resolved provider, model and credential.
type Selection struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
	APIKey   string   `json:"-"`
	BaseURL  string   `json:"base_url,omitempty"`
}

// ChatPriority is the provider order for plain completions.
var ChatPriority = []Provider{ProviderGoogle, ProviderOpenAI, ProviderGroq, ProviderAnthropic, ProviderLocal}

// ResearchPriority is the provider order for web-grounded research. Google
// comes first because it is the only provider with native search grounding.
var ResearchPriority = []Provider{ProviderGoogle, ProviderOpenAI, ProviderGroq, ProviderAnthropic, ProviderLocal}

var defaultModels = map[Provider]string{
	ProviderGoogle:    "gemini-2.5-pro",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGroq:      "llama3-8b-8192",
	ProviderAnthropic: "claude-haiku-4-5-20251001",
	ProviderLocal:     "default",
}

var baseURLs = map[Provider]string{
	ProviderOpenAI: "https://api.openai.com/v1",
	ProviderGroq:   "https://api.groq.com/openai/v1",
}

// Select picks the first provider in priority that has credentials.
//
// modelOverride, when set, may name a provider explicitly ("claude-haiku",
// "groq-llama3-70b-8192") or imply one ("gpt-4o"); that provider is then used
// if it has credentials, otherwise selection fails rather than silently
// switching provider.
func Select(creds Credentials, priority []Provider, modelOverride string) (Selection, error) {
	if modelOverride != "" {
		provider, model := parseProviderPrefix(modelOverride)
		if provider == "" {
			provider = inferProvider(model)
		}
		key := creds.key(provider)
		if key == "" {
			return Selection{}, output.NewUserErrorWithCause(
				"model "+modelOverride+" needs "+credentialHint(provider), ErrNoCredentials)
		}
		return newSelection(creds, provider, resolveModelAlias(model, provider)), nil
	}

	for _, p := range priority {
		if creds.key(p) != "" {
			return newSelection(creds, p, defaultModels[p]), nil
		}
	}

	return Selection{}, output.NewUserErrorWithCause(
		"no LLM provider configured; set one of "+strings.Join(APIKeyEnvVars(), ", ")+" or LOCAL_LLM_URL",
		ErrNoCredentials)
}

func newSelection(creds Credentials, p Provider, model string) Selection {
	sel := Selection{Provider: p, Model: model, APIKey: creds.key(p), BaseURL: baseURLs[p]}
	if p == ProviderLocal {
		sel.BaseURL = strings.TrimRight(creds.LocalURL, "/")
	}
	return sel
}

func credentialHint(p Provider) string {
	if p == ProviderLocal {
		return "LOCAL_LLM_URL"
	}
	if v := envVarForProvider[p]; v != "" {
		return v
	}
	return "credentials for " + string(p)
}

// providerPrefixes maps explicit prefixes to providers for combined format parsing.
var providerPrefixes = map[string]Provider{
	"claude-":    ProviderAnthropic,
	"anthropic-": ProviderAnthropic,
	"gemini-":    ProviderGoogle,
	"google-":    ProviderGoogle,
	"openai-":    ProviderOpenAI,
	"groq-":      ProviderGroq,
	"local-":     ProviderLocal,
}

// parseProviderPrefix extracts provider from combined format like "claude-haiku".
// Returns empty provider if no prefix matches.
func parseProviderPrefix(model string) (Provider, string) {
	modelLower := strings.ToLower(model)
	for prefix, provider := range providerPrefixes {
		if strings.HasPrefix(modelLower, prefix) {
			return provider, model[len(prefix):]
		}
	}
	return "", model
}

type providerPattern struct {
	substring string
	provider  Provider
}

// providerPatterns checked in order; first match wins.
var providerPatterns = []providerPattern{
	{"claude", ProviderAnthropic},
	{"haiku", ProviderAnthropic},
	{"sonnet", ProviderAnthropic},
	{"gpt", ProviderOpenAI},
	{"o3", ProviderOpenAI},
	{"o4", ProviderOpenAI},
	{"gemini", ProviderGoogle},
	{"flash", ProviderGoogle},
	{"llama", ProviderGroq},
	{"mixtral", ProviderGroq},
	{"gemma", ProviderGroq},
	{"qwen", ProviderLocal},
	{"mistral", ProviderLocal},
}

// inferProvider guesses the provider from the model name, defaulting to Google.
func inferProvider(model string) Provider {
	modelLower := strings.ToLower(model)
	for _, p := range providerPatterns {
		if strings.Contains(modelLower, p.substring) {
			return p.provider
		}
	}
	return ProviderGoogle
}

var modelAliases = map[Provider]map[string]string{
	ProviderGoogle: {
		"pro":   "gemini-2.5-pro",
		"flash": "gemini-2.5-flash",
	},
	ProviderOpenAI: {
		"mini": "gpt-4o-mini",
		"gpt":  "gpt-4o",
	},
	ProviderGroq: {
		"llama":  "llama3-8b-8192",
		"llama3": "llama3-8b-8192",
	},
	ProviderAnthropic: {
		"haiku":  "claude-haiku-4-5-20251001",
		"sonnet": "claude-sonnet-4-5-20250929",
	},
	ProviderLocal: {
		"local": "default",
	},
}

// resolveModelAlias expands shorthand aliases, passes through unknown names.
func resolveModelAlias(model string, provider Provider) string {
	if aliases, ok := modelAliases[provider]; ok {
		if resolved, ok := aliases[strings.ToLower(model)]; ok {
			return resolved
		}
	}
	return model
}

var envVarForProvider = map[Provider]string{
	ProviderGoogle:    "GOOGLE_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderGroq:      "GROQ_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// SupportedProviders returns the provider names in chat priority order.
func SupportedProviders() []string {
	out := make([]string, 0, len(ChatPriority))
	for _, p := range ChatPriority {
		out = append(out, string(p))
	}
	return out
}

// APIKeyEnvVars returns the API key environment variables in priority order.
func APIKeyEnvVars() []string {
	var vars []string
	for _, p := range ChatPriority {
		if v := envVarForProvider[p]; v != "" {
			vars = append(vars, v)
		}
	}
	return vars
}
