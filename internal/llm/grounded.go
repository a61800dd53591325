package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/gorewood/standup/internal/output"
)

// contentGenerator is the part of genai.Models used for grounded requests.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// completeGrounded asks Gemini with the Google Search tool enabled, so the
// model can research before answering. The grounding URLs are returned in
// Response.Sources.
func (c *Client) completeGrounded(ctx context.Context, req Request) (*Response, error) {
	models, err := c.genaiModels(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	result, err := models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("grounded request failed", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, output.NewSystemError("empty response from API")
	}

	return &Response{Content: text, Model: c.model, Sources: groundingSources(result)}, nil
}

func (c *Client) genaiModels(ctx context.Context) (contentGenerator, error) {
	if c.models != nil {
		return c.models, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create genai client", err)
	}
	c.models = client.Models
	return c.models, nil
}

// groundingSources collects the distinct web URIs the answer was grounded on.
func groundingSources(result *genai.GenerateContentResponse) []string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	seen := map[string]bool{}
	var sources []string
	for _, chunk := range result.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		sources = append(sources, chunk.Web.URI)
	}
	return sources
}
