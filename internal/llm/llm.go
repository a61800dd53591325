package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorewood/standup/internal/output"
)

// Provider represents an LLM provider.
type Provider string

// Supported LLM providers.
const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderGroq      Provider = "groq"
	ProviderAnthropic Provider = "anthropic"
	ProviderLocal     Provider = "local"
)

// Request represents an LLM completion request.
type Request struct {
	System      string  // System prompt
	Prompt      string  // User prompt
	Temperature float64 // Temperature (0 uses default)
	MaxTokens   int     // Max tokens (0 uses default)
	WebSearch   bool    // Ground the answer in live search results (Google only)
	JSON        bool    // Ask for a single JSON object as the reply
}

// Response represents an LLM completion response.
type Response struct {
	Content  string
	Model    string
	Provider Provider
	Sources  []string // Grounding URLs, when the provider reports them
}

// HTTPDoer defines the HTTP operations required by Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a provider-agnostic LLM client bound to one Selection.
type Client struct {
	provider   Provider
	model      string
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	models     contentGenerator
}

// NewFromSelection creates a client for a resolved provider selection.
func NewFromSelection(sel Selection) *Client {
	return &Client{
		provider: sel.Provider,
		model:    sel.Model,
		apiKey:   sel.APIKey,
		baseURL:  sel.BaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Provider returns the provider the client talks to.
func (c *Client) Provider() Provider { return c.provider }

// Model returns the model name sent to the provider.
func (c *Client) Model() string { return c.model }

// Grounded reports whether the client can serve WebSearch requests natively.
func (c *Client) Grounded() bool { return c.provider == ProviderGoogle }

// Complete generates a completion for the given request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	var (
		resp *Response
		err  error
	)
	switch c.provider {
	case ProviderGoogle:
		if req.WebSearch {
			resp, err = c.completeGrounded(ctx, req)
		} else {
			resp, err = c.completeGoogle(ctx, req)
		}
	case ProviderOpenAI, ProviderGroq:
		resp, err = c.completeOpenAI(ctx, req)
	case ProviderAnthropic:
		resp, err = c.completeAnthropic(ctx, req)
	case ProviderLocal:
		resp, err = c.completeLocal(ctx, req)
	default:
		return nil, output.NewUserError(fmt.Sprintf("unsupported provider: %s", c.provider))
	}
	if err != nil {
		return nil, err
	}
	resp.Provider = c.provider
	return resp, nil
}

// doRequest performs an HTTP POST request with JSON body.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause(string(c.provider)+" request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Truncated so provider error pages don't flood the terminal.
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, output.NewSystemError(fmt.Sprintf("%s API error (status %d): %s", c.provider, resp.StatusCode, errBody))
	}

	return respBody, nil
}
