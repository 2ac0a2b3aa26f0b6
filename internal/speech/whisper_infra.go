package speech

import (
	"bytes"
	"context"

	openai "github.com/sashabaranov/go-openai"
)

type WhisperClient struct {
	client *openai.Client
}

func NewWhisperClient(apiKey string) *WhisperClient {
	return &WhisperClient{
		client: openai.NewClient(apiKey),
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, wav []byte, opts PassOptions) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       openai.Whisper1,
		FilePath:    "command.wav",
		Reader:      bytes.NewReader(wav),
		Language:    opts.Language,
		Temperature: opts.Temperature,
		Prompt:      opts.Prompt,
		Format:      openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
