package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Transcriber turns recorded audio into text. The handler forwards bytes and
// returns the transcript verbatim; persistence is the caller's decision.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// WhisperClient posts audio to an OpenAI-compatible transcription endpoint.
type WhisperClient struct {
	client   *resty.Client
	endpoint string
	model    string
}

func NewWhisperClient(endpoint, apiKey, model string) *WhisperClient {
	return &WhisperClient{
		client: resty.New().
			SetTimeout(2 * time.Minute).
			SetAuthToken(apiKey),
		endpoint: endpoint,
		model:    model,
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("empty audio payload")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		SetFormData(map[string]string{"model": c.model}).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("transcription provider returned %s", resp.Status())
	}

	text := gjson.GetBytes(resp.Body(), "text")
	if !text.Exists() {
		return "", errors.New("transcription response is missing the text key")
	}
	return text.String(), nil
}
