package speech

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Vovarama1992/voice_tasker/internal/audio"
	"github.com/Vovarama1992/voice_tasker/internal/metrics"
)

// ErrUnavailable — модель не сконструирована или оба прохода упали
var ErrUnavailable = errors.New("speech: transcription unavailable")

const defaultPrimingPrompt = "Task list commands: add buy milk, complete the groceries, show my tasks, clear completed tasks."

// Whisper silence/noise artifacts. A first-pass result from this set is
// treated as a failed recognition and triggers the permissive retry.
var degenerateOutputs = map[string]struct{}{
	"you":                 {},
	"thank you":           {},
	"thanks for watching": {},
	"bye":                 {},
	"uh":                  {},
	"hmm":                 {},
}

// Transcriber runs a cheap deterministic pass first and a permissive,
// vocabulary-primed pass only when the first looks like a misrecognition.
type Transcriber struct {
	client  STTClient
	locale  string
	priming string
}

func NewTranscriber(client STTClient) *Transcriber {
	locale := os.Getenv("STT_LANGUAGE")
	if locale == "" {
		locale = "en"
	}
	priming := os.Getenv("STT_PRIMING_PROMPT")
	if priming == "" {
		priming = defaultPrimingPrompt
	}
	return &Transcriber{client: client, locale: locale, priming: priming}
}

// Transcribe converts a canonical waveform to text. The only error it
// returns is ErrUnavailable; silence legitimately yields an empty string.
func (t *Transcriber) Transcribe(ctx context.Context, wave []float32) (string, error) {
	if t.client == nil {
		return "", ErrUnavailable
	}

	wav, err := audio.EncodeWAV(wave, audio.TargetSampleRate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	first, firstErr := t.client.Transcribe(ctx, wav, PassOptions{
		Language:    t.locale,
		Temperature: 0,
	})
	first = strings.TrimSpace(first)

	if firstErr == nil && !isDegenerate(first) {
		return first, nil
	}
	if firstErr != nil {
		log.Printf("[stt] first pass failed: %v", firstErr)
	} else {
		log.Printf("[stt] first pass degenerate: %q, retrying", first)
	}

	metrics.TranscriptionRetries.Inc()

	second, secondErr := t.client.Transcribe(ctx, wav, PassOptions{
		Language:    "", // auto-detect
		Temperature: 0.2,
		Prompt:      t.priming,
	})
	second = strings.TrimSpace(second)

	if firstErr != nil && secondErr != nil {
		log.Printf("[stt] second pass failed: %v", secondErr)
		return "", ErrUnavailable
	}

	// longer trimmed output wins
	if len(second) > len(first) {
		return second, nil
	}
	return first, nil
}

func isDegenerate(text string) bool {
	if text == "" {
		return true
	}
	normalized := strings.ToLower(strings.TrimRight(text, ".,!?… "))
	_, found := degenerateOutputs[normalized]
	return found
}
