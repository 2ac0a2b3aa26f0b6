package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type KokoroClient struct {
	baseURL string
	httpCli *http.Client
}

func NewKokoroClient(baseURL string) *KokoroClient {
	return &KokoroClient{
		baseURL: baseURL,
		httpCli: &http.Client{Timeout: 30 * time.Second},
	}
}

// TEXT → SPEECH
func (c *KokoroClient) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{
		"model":           "kokoro",
		"input":           text,
		"voice":           voice,
		"response_format": "mp3",
		"speed":           speed,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed: status %d: %s", resp.StatusCode, b)
	}

	return io.ReadAll(resp.Body)
}

func (c *KokoroClient) Voices(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v1/audio/voices", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("voices request failed: status %d", resp.StatusCode)
	}

	var parsed struct {
		Voices []string `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode voices: %w", err)
	}
	return parsed.Voices, nil
}

func (c *KokoroClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v1/audio/voices", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("kokoro returned status %d", resp.StatusCode)
	}
	return nil
}
