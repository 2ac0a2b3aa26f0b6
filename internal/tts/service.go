package tts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Vovarama1992/voice_tasker/internal/metrics"
)

var (
	// ErrUnavailable — upstream не отвечает или вернул ошибку
	ErrUnavailable = errors.New("tts: synthesis unavailable")
	ErrEmptyText   = errors.New("tts: empty text")
)

// Known Kokoro voices; requests with anything else silently use the default.
var availableVoices = []string{
	"af_bella",
	"af_sarah",
	"af_nicole",
	"af_sky",
	"am_adam",
	"am_michael",
	"bf_emma",
	"bf_isabella",
	"bm_george",
	"bm_lewis",
}

// Service owns the synthesis lifecycle: explicitly constructed in main and
// injected where needed, shut down with the process.
type Service struct {
	client       Client
	cache        *Cache
	defaultVoice string

	// availability probe, computed once per service lifetime
	mu        sync.Mutex
	available *bool
}

func NewService(client Client, cache *Cache) *Service {
	voice := os.Getenv("TTS_DEFAULT_VOICE")
	if voice == "" {
		voice = "af_bella"
	}
	return &Service{
		client:       client,
		cache:        cache,
		defaultVoice: voice,
	}
}

// Synthesize converts text to encoded audio. Any failure is recoverable at
// the caller: the response text still goes out, just without audio.
func (s *Service) Synthesize(ctx context.Context, text, voice string, speed float64, useCache bool) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	voice = s.resolveVoice(voice)
	speed = clampSpeed(speed)

	key := s.cache.Key(text, voice, speed)
	if useCache {
		if audio, ok := s.cache.Load(key); ok {
			metrics.TTSCacheHits.Inc()
			return audio, nil
		}
	}
	metrics.TTSCacheMisses.Inc()

	if !s.checkAvailability(ctx) {
		return nil, ErrUnavailable
	}

	log.Printf("[tts] synthesizing %d chars, voice=%s speed=%.1f", len(text), voice, speed)
	audio, err := s.client.Synthesize(ctx, text, voice, speed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if useCache {
		if err := s.cache.Save(key, audio); err != nil {
			log.Printf("[tts] cache save failed: %v", err)
		}
	}
	return audio, nil
}

func (s *Service) resolveVoice(voice string) string {
	if voice == "" {
		return s.defaultVoice
	}
	for _, known := range availableVoices {
		if voice == known {
			return voice
		}
	}
	log.Printf("[tts] unknown voice %q, using default %q", voice, s.defaultVoice)
	return s.defaultVoice
}

func clampSpeed(speed float64) float64 {
	if speed == 0 {
		return 1.0
	}
	if speed < 0.5 {
		return 0.5
	}
	if speed > 2.0 {
		return 2.0
	}
	return speed
}

// checkAvailability probes the upstream once and reuses the result for the
// service lifetime. Concurrent first callers may each probe once; the probe
// is idempotent, so the race is harmless.
func (s *Service) checkAvailability(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.available != nil {
		return *s.available
	}

	ok := s.client.Ping(ctx) == nil
	if !ok {
		log.Printf("[tts] upstream unavailable")
	}
	s.available = &ok
	return ok
}

// AvailableVoices never fails: on upstream trouble it answers with the
// static list and marks the source as fallback.
func (s *Service) AvailableVoices(ctx context.Context) (voices []string, source string) {
	if s.checkAvailability(ctx) {
		if remote, err := s.client.Voices(ctx); err == nil && len(remote) > 0 {
			return remote, "service"
		}
	}
	return availableVoices, "fallback"
}

func (s *Service) DefaultVoice() string {
	return s.defaultVoice
}

func (s *Service) Available(ctx context.Context) bool {
	return s.checkAvailability(ctx)
}

// CleanupCache — background job hook, never on the synthesis path
func (s *Service) CleanupCache(maxAge time.Duration) {
	removed, err := s.cache.Cleanup(maxAge)
	if err != nil {
		log.Printf("[tts] cache cleanup error: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[tts] cleaned up %d cached files", removed)
	}
}
