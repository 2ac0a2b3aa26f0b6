package speech

import "context"

// PassOptions — decoding parameters for one recognition pass
type PassOptions struct {
	Language    string // "" — автоопределение языка
	Temperature float32
	Prompt      string // priming phrase steering the decoder vocabulary
}

type STTClient interface {
	// Transcribe принимает готовый WAV (16 kHz mono PCM16)
	Transcribe(ctx context.Context, wav []byte, opts PassOptions) (string, error)
}
