package tts

import "context"

type Client interface {
	Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error)
	Voices(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
