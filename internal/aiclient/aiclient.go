// Package aiclient wraps the Gemini generative-language API behind a small
// text-in/text-out surface. Handlers depend on the TextGenerator interface
// declared in the handlers package, so tests can substitute a stub.
package aiclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Model identifiers are pinned per use case.
const (
	ModelIdeas     = "gemini-1.5-flash"
	ModelScript    = "gemini-pro"
	ModelMetadata  = "gemini-1.5-flash-lite"
	ModelThumbnail = "gemini-1.5-flash"
)

// Client talks to the Gemini API.
type Client struct {
	genai  *genai.Client
	logger *logrus.Logger
}

// New creates a Client authenticated with the given API key.
func New(ctx context.Context, apiKey string, logger *logrus.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}

	return &Client{genai: client, logger: logger}, nil
}

// GenerateText sends prompt to the named model and returns the trimmed text of
// the first candidate. Latency, rate limiting and model versioning are the
// upstream service's concern; errors are passed through for the handler to map.
func (c *Client) GenerateText(ctx context.Context, model string, prompt string) (string, error) {
	resp, err := c.genai.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.WithFields(logrus.Fields{"model": model}).WithError(err).Error("Gemini call failed")
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model %s returned an empty response", model)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("model %s returned no text parts", model)
	}

	return text, nil
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.genai.Close()
}
