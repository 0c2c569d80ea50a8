package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"hiring-backend/internal/llm"
	"hiring-backend/internal/shared/telemetry"
)

const defaultMaxOutputTokens = 4096

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client implements llm.Client on the Gemini API.
type Client struct {
	model    string
	generate generateFunc
}

// NewClient creates a Gemini-backed client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("LLM_MODEL is required for Gemini")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		model: model,
		generate: func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return gc.Models.GenerateContent(ctx, model, contents, cfg)
		},
	}, nil
}

func (c *Client) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	user := strings.TrimSpace(prompt.User)
	if user == "" {
		return "", errors.New("prompt must not be empty")
	}
	temp := prompt.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
	if strings.TrimSpace(prompt.System) != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: prompt.System}}}
	}

	resp, err := c.generate(ctx, c.model, genai.Text(user), cfg)
	if err != nil {
		return "", wrapError(err)
	}
	if resp == nil {
		return "", errors.New("gemini api returned nil response")
	}

	output := collectText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	if resp.UsageMetadata != nil {
		telemetry.Info("gemini.response", map[string]any{
			"model":        c.model,
			"total_tokens": resp.UsageMetadata.TotalTokenCount,
		})
	}
	return output, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(text)
		}
	}
	return strings.TrimSpace(b.String())
}

// wrapError keeps the HTTP status in the message so llm.ShouldRetry can classify it.
func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini %s http status %d: %w", apiErr.Status, apiErr.Code, err)
	}
	return fmt.Errorf("gemini generate content: %w", err)
}

var _ llm.Client = (*Client)(nil)
