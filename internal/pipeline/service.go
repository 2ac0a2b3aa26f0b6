package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Vovarama1992/voice_tasker/internal/audio"
	"github.com/Vovarama1992/voice_tasker/internal/error_notificator"
	"github.com/Vovarama1992/voice_tasker/internal/intent"
	"github.com/Vovarama1992/voice_tasker/internal/metrics"
	"github.com/Vovarama1992/voice_tasker/internal/ports"
	"github.com/Vovarama1992/voice_tasker/internal/speech"
	"github.com/Vovarama1992/voice_tasker/internal/tts"
)

// ErrNoSpeech — в аудио не нашлось распознаваемой речи
var ErrNoSpeech = errors.New("pipeline: could not transcribe audio")

// Result — single coherent outcome of one command, even under partial failure
type Result struct {
	Action     intent.TaskAction `json:"action"`
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Transcript string            `json:"transcript,omitempty"`
	AudioData  string            `json:"audio_data,omitempty"` // base64 mp3
}

// Service chains the voice command stages strictly in order: normalize →
// transcribe → resolve → execute → synthesize. Only the first two stages may
// reject a request; everything after degrades into the response.
type Service struct {
	normalizer  *audio.Normalizer
	transcriber *speech.Transcriber
	resolver    *intent.Resolver
	tasks       ports.TaskService
	tts         *tts.Service
	archive     ports.ArchiveService
	notifier    error_notificator.Notificator
	onChange    func()
}

func NewService(
	normalizer *audio.Normalizer,
	transcriber *speech.Transcriber,
	resolver *intent.Resolver,
	tasks ports.TaskService,
	ttsService *tts.Service,
	archive ports.ArchiveService,
	notifier error_notificator.Notificator,
) *Service {
	return &Service{
		normalizer:  normalizer,
		transcriber: transcriber,
		resolver:    resolver,
		tasks:       tasks,
		tts:         ttsService,
		archive:     archive,
		notifier:    notifier,
	}
}

// SetOnTasksChanged registers a hook fired after every successful store
// mutation (used to push websocket updates).
func (s *Service) SetOnTasksChanged(fn func()) {
	s.onChange = fn
}

// ProcessVoiceCommand runs the full pipeline on base64-encoded audio.
func (s *Service) ProcessVoiceCommand(ctx context.Context, audioB64, voice string, speed float64) (*Result, error) {
	raw, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil || len(raw) == 0 {
		metrics.CommandsTotal.WithLabelValues("unsupported_audio").Inc()
		return nil, audio.ErrUnsupportedAudio
	}

	s.archiveRecording(raw)

	start := time.Now()
	wave, stats, err := s.normalizer.Normalize(ctx, raw)
	metrics.StageDuration.WithLabelValues("normalize").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("unsupported_audio").Inc()
		return nil, err
	}
	if stats.NearMute {
		log.Printf("[pipeline] signal looks near-silent, transcribing anyway")
	}

	start = time.Now()
	text, err := s.transcriber.Transcribe(ctx, wave)
	metrics.StageDuration.WithLabelValues("transcribe").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("no_speech").Inc()
		return nil, fmt.Errorf("%w: %v", ErrNoSpeech, err)
	}
	if strings.TrimSpace(text) == "" {
		metrics.CommandsTotal.WithLabelValues("no_speech").Inc()
		return nil, ErrNoSpeech
	}
	log.Printf("[pipeline] transcript: %q", text)

	return s.processTranscript(ctx, text, voice, speed, true)
}

// ProcessTextCommand resolves and executes raw transcript text, bypassing
// normalization and transcription. No audio is synthesized.
func (s *Service) ProcessTextCommand(ctx context.Context, text string) (*Result, error) {
	return s.processTranscript(ctx, text, "", 1.0, false)
}

// SpeechToText exposes the first two stages alone.
func (s *Service) SpeechToText(ctx context.Context, audioB64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil || len(raw) == 0 {
		return "", audio.ErrUnsupportedAudio
	}

	wave, _, err := s.normalizer.Normalize(ctx, raw)
	if err != nil {
		return "", err
	}

	text, err := s.transcriber.Transcribe(ctx, wave)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSpeech, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

func (s *Service) processTranscript(ctx context.Context, text, voice string, speed float64, synthesize bool) (*Result, error) {
	snapshot, err := s.tasks.Snapshot(ctx)
	if err != nil {
		// резолвер переживёт пустой контекст, команда важнее снапшота
		log.Printf("[pipeline] snapshot failed: %v", err)
		snapshot = nil
	}

	start := time.Now()
	action := s.resolver.Resolve(ctx, text, snapshot)
	metrics.StageDuration.WithLabelValues("resolve").Observe(time.Since(start).Seconds())

	start = time.Now()
	success := s.executeAction(ctx, action)
	metrics.StageDuration.WithLabelValues("execute").Observe(time.Since(start).Seconds())

	result := &Result{
		Action:     action,
		Success:    success,
		Message:    action.ResponseMessage,
		Transcript: text,
	}

	if synthesize {
		start = time.Now()
		audioBytes, err := s.tts.Synthesize(ctx, result.Message, voice, speed, true)
		metrics.StageDuration.WithLabelValues("synthesize").Observe(time.Since(start).Seconds())
		if err != nil {
			// text-only response is a valid outcome
			log.Printf("[pipeline] synthesis skipped: %v", err)
		} else {
			result.AudioData = base64.StdEncoding.EncodeToString(audioBytes)
		}
	}

	if success {
		metrics.CommandsTotal.WithLabelValues("success").Inc()
	} else {
		metrics.CommandsTotal.WithLabelValues("action_failed").Inc()
	}
	return result, nil
}

// archiveRecording uploads the raw command audio in the background,
// best-effort: an archive outage must never delay or fail a command.
func (s *Service) archiveRecording(raw []byte) {
	if s.archive == nil {
		return
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.archive.SaveRecording(ctx, buf, "application/octet-stream"); err != nil {
			log.Printf("[pipeline] archive upload failed: %v", err)
		}
	}()
}

func (s *Service) notifyAnomaly(ctx context.Context, action intent.TaskAction) {
	if s.notifier == nil {
		return
	}
	err := fmt.Errorf("unrecognized action tag %q", action.Action)
	_ = s.notifier.Notify(ctx, "executor", err, "intent: "+action.ResponseMessage)
}
