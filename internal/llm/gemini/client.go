package gemini

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"mockmate/internal/llm"
)

// Client represents a Gemini LLM client
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// GenerateJSON asks the model for a JSON completion of the prompt. A hung
// provider call is cut off by the configured timeout so a single slow
// request cannot block an analysis run forever.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.config.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.2)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		code := llm.ErrCodeServiceDown
		if errors.Is(err, context.DeadlineExceeded) {
			code = llm.ErrCodeTimeout
		}
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     code,
			Message:  "Failed to generate content",
			Err:      err,
		}
	}

	if result == nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}

	text := result.Text()
	if text == "" {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}
	return text, nil
}

func (c *Client) GetProviderName() string {
	return "gemini"
}
