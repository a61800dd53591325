//nolint:bodyclose // Test file uses mock responses with NopCloser bodies
package llm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gorewood/standup/internal/output"
)

// mockHTTPDoer implements HTTPDoer for testing.
type mockHTTPDoer struct {
	response *http.Response
	err      error
}

func (m *mockHTTPDoer) Do(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// mockResponse creates a mock HTTP response with the given status and body.
func mockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// capturingHTTPDoer records the request and its body.
type capturingHTTPDoer struct {
	req      *http.Request
	body     string
	response *http.Response
}

func (c *capturingHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	c.req = req
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		c.body = string(b)
	}
	return c.response, nil
}

func TestParseProviderPrefix(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider Provider
		wantModel    string
	}{
		{"claude-haiku", ProviderAnthropic, "haiku"},
		{"anthropic-sonnet", ProviderAnthropic, "sonnet"},
		{"gemini-flash", ProviderGoogle, "flash"},
		{"google-pro", ProviderGoogle, "pro"},
		{"openai-gpt-4o", ProviderOpenAI, "gpt-4o"},
		{"groq-llama3-70b-8192", ProviderGroq, "llama3-70b-8192"},
		{"local-qwen", ProviderLocal, "qwen"},
		{"gpt-4o-mini", "", "gpt-4o-mini"},
		{"GROQ-llama3", ProviderGroq, "llama3"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			provider, model := parseProviderPrefix(tt.model)
			if provider != tt.wantProvider {
				t.Errorf("provider = %q, want %q", provider, tt.wantProvider)
			}
			if model != tt.wantModel {
				t.Errorf("model = %q, want %q", model, tt.wantModel)
			}
		})
	}
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		model string
		want  Provider
	}{
		{"gpt-4o-mini", ProviderOpenAI},
		{"o3-mini", ProviderOpenAI},
		{"gemini-2.5-pro", ProviderGoogle},
		{"flash", ProviderGoogle},
		{"llama3-8b-8192", ProviderGroq},
		{"mixtral-8x7b", ProviderGroq},
		{"haiku", ProviderAnthropic},
		{"qwen2.5-coder", ProviderLocal},
		{"something-unknown", ProviderGoogle},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := inferProvider(tt.model); got != tt.want {
				t.Errorf("inferProvider(%q) = %q, want %q", tt.model, got, tt.want)
			}
		})
	}
}

func TestResolveModelAlias(t *testing.T) {
	tests := []struct {
		model    string
		provider Provider
		want     string
	}{
		{"pro", ProviderGoogle, "gemini-2.5-pro"},
		{"FLASH", ProviderGoogle, "gemini-2.5-flash"},
		{"mini", ProviderOpenAI, "gpt-4o-mini"},
		{"llama3", ProviderGroq, "llama3-8b-8192"},
		{"haiku", ProviderAnthropic, "claude-haiku-4-5-20251001"},
		{"gpt-4.1", ProviderOpenAI, "gpt-4.1"},
		{"pro", ProviderOpenAI, "pro"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider)+"/"+tt.model, func(t *testing.T) {
			if got := resolveModelAlias(tt.model, tt.provider); got != tt.want {
				t.Errorf("resolveModelAlias(%q, %q) = %q, want %q", tt.model, tt.provider, got, tt.want)
			}
		})
	}
}

func TestSelect_Priority(t *testing.T) {
	tests := []struct {
		name         string
		creds        Credentials
		wantProvider Provider
		wantModel    string
		wantBaseURL  string
	}{
		{
			name:         "google wins when present",
			creds:        Credentials{Google: "g", OpenAI: "o", Groq: "q", Anthropic: "a"},
			wantProvider: ProviderGoogle,
			wantModel:    "gemini-2.5-pro",
		},
		{
			name:         "openai before groq",
			creds:        Credentials{OpenAI: "o", Groq: "q"},
			wantProvider: ProviderOpenAI,
			wantModel:    "gpt-4o-mini",
			wantBaseURL:  "https://api.openai.com/v1",
		},
		{
			name:         "groq uses openai-compatible endpoint",
			creds:        Credentials{Groq: "q", Anthropic: "a"},
			wantProvider: ProviderGroq,
			wantModel:    "llama3-8b-8192",
			wantBaseURL:  "https://api.groq.com/openai/v1",
		},
		{
			name:         "anthropic before local",
			creds:        Credentials{Anthropic: "a", LocalURL: "http://localhost:1234/v1"},
			wantProvider: ProviderAnthropic,
			wantModel:    "claude-haiku-4-5-20251001",
		},
		{
			name:         "local only when configured",
			creds:        Credentials{LocalURL: "http://localhost:11434/v1/"},
			wantProvider: ProviderLocal,
			wantModel:    "default",
			wantBaseURL:  "http://localhost:11434/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(tt.creds, ChatPriority, "")
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if sel.Provider != tt.wantProvider {
				t.Errorf("Provider = %q, want %q", sel.Provider, tt.wantProvider)
			}
			if sel.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", sel.Model, tt.wantModel)
			}
			if sel.BaseURL != tt.wantBaseURL {
				t.Errorf("BaseURL = %q, want %q", sel.BaseURL, tt.wantBaseURL)
			}
		})
	}
}

func TestSelect_NoCredentials(t *testing.T) {
	_, err := Select(Credentials{}, ResearchPriority, "")
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("Select() error = %v, want ErrNoCredentials", err)
	}
	if output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitUserError)
	}
	if !strings.Contains(err.Error(), "GOOGLE_API_KEY") {
		t.Errorf("error should list env vars: %q", err.Error())
	}
}

func TestSelect_ModelOverride(t *testing.T) {
	creds := Credentials{Google: "g", Groq: "q"}

	sel, err := Select(creds, ChatPriority, "groq-llama3")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Provider != ProviderGroq || sel.Model != "llama3-8b-8192" {
		t.Errorf("got %+v", sel)
	}

	sel, err = Select(creds, ChatPriority, "gemini-flash")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Provider != ProviderGoogle || sel.Model != "gemini-2.5-flash" {
		t.Errorf("got %+v", sel)
	}

	_, err = Select(creds, ChatPriority, "gpt-4o")
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("override without key should fail, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error should name the missing variable: %q", err.Error())
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("LOCAL_LLM_URL", "")

	creds := CredentialsFromEnv()
	if creds.OpenAI != "sk-test" || creds.Groq != "gsk-test" {
		t.Errorf("creds = %+v", creds)
	}

	got := creds.Available()
	if len(got) != 2 || got[0] != ProviderOpenAI || got[1] != ProviderGroq {
		t.Errorf("Available() = %v", got)
	}
}

func TestAPIKeyEnvVars(t *testing.T) {
	want := []string{"GOOGLE_API_KEY", "OPENAI_API_KEY", "GROQ_API_KEY", "ANTHROPIC_API_KEY"}
	got := APIKeyEnvVars()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("APIKeyEnvVars() = %v, want %v", got, want)
	}
}

func TestSupportedProviders(t *testing.T) {
	got := SupportedProviders()
	if len(got) != 5 || got[0] != "google" || got[4] != "local" {
		t.Errorf("SupportedProviders() = %v", got)
	}
}

func TestDoRequest_Success(t *testing.T) {
	client := &Client{
		httpClient: &mockHTTPDoer{
			response: mockResponse(http.StatusOK, `{"result": "success"}`),
		},
	}

	body, err := client.doRequest(context.Background(), "https://example.com/api", map[string]string{"key": "value"}, nil)
	if err != nil {
		t.Fatalf("doRequest() error = %v", err)
	}
	if string(body) != `{"result": "success"}` {
		t.Errorf("body = %q", string(body))
	}
}

func TestDoRequest_ErrorStatus(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			client := &Client{
				provider:   ProviderGroq,
				httpClient: &mockHTTPDoer{response: mockResponse(code, `{"error": "nope"}`)},
			}

			_, err := client.doRequest(context.Background(), "https://example.com/api", nil, nil)
			if err == nil {
				t.Fatal("doRequest() expected error")
			}
			if !strings.Contains(err.Error(), "groq API error (status") {
				t.Errorf("error = %q", err.Error())
			}
			if output.GetExitCode(err) != output.ExitSystemError {
				t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitSystemError)
			}
		})
	}
}

func TestDoRequest_NetworkError(t *testing.T) {
	client := &Client{
		provider:   ProviderOpenAI,
		httpClient: &mockHTTPDoer{err: errors.New("connection refused")},
	}

	_, err := client.doRequest(context.Background(), "https://example.com/api", nil, nil)
	if err == nil {
		t.Fatal("doRequest() expected error")
	}
	if !strings.Contains(err.Error(), "openai request failed") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestDoRequest_ErrorTruncation(t *testing.T) {
	client := &Client{
		httpClient: &mockHTTPDoer{
			response: mockResponse(http.StatusBadRequest, strings.Repeat("x", 600)),
		},
	}

	_, err := client.doRequest(context.Background(), "https://example.com/api", nil, nil)
	if err == nil {
		t.Fatal("doRequest() expected error")
	}
	if strings.Count(err.Error(), "x") >= 600 {
		t.Error("error body not truncated")
	}
}

func TestDoRequest_Headers(t *testing.T) {
	doer := &capturingHTTPDoer{response: mockResponse(http.StatusOK, `{}`)}
	client := &Client{httpClient: doer}

	_, err := client.doRequest(context.Background(), "https://example.com/api", nil, map[string]string{
		"Authorization": "Bearer test-token",
	})
	if err != nil {
		t.Fatalf("doRequest() error = %v", err)
	}
	if ct := doer.req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if auth := doer.req.Header.Get("Authorization"); auth != "Bearer test-token" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestComplete_StampsProvider(t *testing.T) {
	client := &Client{
		provider: ProviderGroq,
		model:    "llama3-8b-8192",
		apiKey:   "gsk",
		baseURL:  "https://api.groq.com/openai/v1",
		httpClient: &mockHTTPDoer{
			response: mockResponse(http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`),
		},
	}

	resp, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Provider != ProviderGroq || resp.Content != "ok" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestComplete_UnsupportedProvider(t *testing.T) {
	client := &Client{provider: Provider("cohere")}

	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	if err == nil || !strings.Contains(err.Error(), "unsupported provider") {
		t.Errorf("Complete() error = %v", err)
	}
}

func TestNewFromSelection(t *testing.T) {
	client := NewFromSelection(Selection{Provider: ProviderGoogle, Model: "gemini-2.5-pro", APIKey: "g"})
	if client.Provider() != ProviderGoogle || client.Model() != "gemini-2.5-pro" {
		t.Errorf("client = %+v", client)
	}
	if !client.Grounded() {
		t.Error("google client should be grounded")
	}
	if NewFromSelection(Selection{Provider: ProviderOpenAI}).Grounded() {
		t.Error("openai client should not be grounded")
	}
}
