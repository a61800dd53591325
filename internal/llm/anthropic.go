package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gorewood/standup/internal/output"
)

const (
	anthropicDefaultURL       = "https://api.anthropic.com/v1"
	anthropicVersion          = "2023-06-01"
	anthropicDefaultMaxTokens = 4096
)

// jsonPrefill starts the assistant turn so the model continues a JSON
// object. Anthropic has no response format switch.
const jsonPrefill = "{"

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func buildAnthropicRequest(model string, req Request) anthropicRequest {
	body := anthropicRequest{
		Model:     model,
		MaxTokens: req.MaxTokens,
		System:    req.System,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}
	if body.MaxTokens <= 0 {
		body.MaxTokens = anthropicDefaultMaxTokens
	}
	if req.Temperature > 0 {
		// Anthropic caps temperature at 1.0.
		body.Temperature = min(req.Temperature, 1.0)
	}
	if req.JSON {
		body.Messages = append(body.Messages, anthropicMessage{Role: "assistant", Content: jsonPrefill})
	}
	return body
}

func (c *Client) completeAnthropic(ctx context.Context, req Request) (*Response, error) {
	base := c.baseURL
	if base == "" {
		base = anthropicDefaultURL
	}

	respBody, err := c.doRequest(ctx, base+"/messages", buildAnthropicRequest(c.model, req), map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return nil, err
	}

	text, err := parseAnthropicResponse(respBody)
	if err != nil {
		return nil, err
	}
	if req.JSON {
		text = jsonPrefill + text
	}
	return &Response{Content: text, Model: c.model}, nil
}

// parseAnthropicResponse joins the text blocks of a messages reply.
func parseAnthropicResponse(respBody []byte) (string, error) {
	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", output.NewSystemErrorWithCause("failed to parse response", err)
	}
	if result.Error != nil {
		return "", output.NewSystemError("API error: " + result.Error.Message)
	}
	if len(result.Content) == 0 {
		return "", output.NewSystemError("empty response from API")
	}

	var content strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return "", output.NewSystemError("response contained no text content")
	}
	if result.StopReason == "max_tokens" {
		return "", output.NewSystemError("response was cut off at the max_tokens limit; raise max_tokens in the prompt template")
	}
	return content.String(), nil
}
