package llm

import (
	"context"
	"encoding/json"

	"github.com/gorewood/standup/internal/output"
)

// OpenAI-compatible chat completion types, shared by OpenAI, Groq and local
// servers (LM Studio, Ollama).
type chatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func buildChatRequest(model string, req Request) chatRequest {
	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	return chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

func (c *Client) completeOpenAI(ctx context.Context, req Request) (*Response, error) {
	base := c.baseURL
	if base == "" {
		base = baseURLs[c.provider]
	}

	body := buildChatRequest(c.model, req)
	// Local servers differ in what they accept, so JSON mode is only asked of
	// hosted APIs.
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	respBody, err := c.doRequest(ctx, base+"/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	return parseChatResponse(respBody, c.model)
}

func parseChatResponse(respBody []byte, model string) (*Response, error) {
	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse response", err)
	}

	if result.Error != nil {
		return nil, output.NewSystemError("API error: " + result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return nil, output.NewSystemError("empty response from API")
	}

	return &Response{Content: result.Choices[0].Message.Content, Model: model}, nil
}
