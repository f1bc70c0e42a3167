package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"sales-analytics/internal/service/insight"
)

const DefaultModel = "gemini-2.0-flash"

var (
	ErrMissingAPIKey = errors.New("gemini api key is required")
	ErrEmptyResponse = errors.New("gemini returned no text")
)

// Client completes prompts with a Gemini model.
type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	const op = "llm.gemini.New"

	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingAPIKey)
	}

	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create client: %w", op, err)
	}

	return &Client{client: client, model: model}, nil
}

func (c *Client) Complete(ctx context.Context, p insight.Prompt) (string, error) {
	const op = "llm.gemini.Complete"

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.Temperature),
		MaxOutputTokens: p.MaxTokens,
	}
	if p.System != "" {
		config.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(p.User, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%s: model=%s: %w", op, c.model, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}

	return text, nil
}
