package llm

import (
	"context"
)

const defaultLocalURL = "http://localhost:1234/v1"

// completeLocal talks to an OpenAI-compatible server at LOCAL_LLM_URL.
// The model is left blank for "default" so the server uses whatever it has
// loaded.
func (c *Client) completeLocal(ctx context.Context, req Request) (*Response, error) {
	model := c.model
	if model == "default" || model == "local" {
		model = ""
	}

	base := c.baseURL
	if base == "" {
		base = defaultLocalURL
	}

	respBody, err := c.doRequest(ctx, base+"/chat/completions", buildChatRequest(model, req), nil)
	if err != nil {
		return nil, err
	}

	resp, err := parseChatResponse(respBody, model)
	if err != nil {
		return nil, err
	}
	if resp.Model == "" {
		resp.Model = "local"
	}
	return resp, nil
}
