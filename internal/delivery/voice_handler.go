package delivery

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_tasker/internal/audio"
	"github.com/Vovarama1992/voice_tasker/internal/pipeline"
	"github.com/Vovarama1992/voice_tasker/internal/tts"
)

type VoiceHandler struct {
	pipeline *pipeline.Service
	tts      *tts.Service
	log      *logger.ZapLogger
}

func NewVoiceHandler(p *pipeline.Service, ttsService *tts.Service, log *logger.ZapLogger) *VoiceHandler {
	return &VoiceHandler{
		pipeline: p,
		tts:      ttsService,
		log:      log,
	}
}

// ProcessCommand — полный пайплайн: аудио → текст → интент → действие → озвучка
func (h *VoiceHandler) ProcessCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AudioData string  `json:"audio_data"`
		Voice     string  `json:"voice"`
		Speed     float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.AudioData == "" {
		http.Error(w, "missing audio_data", http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.ProcessVoiceCommand(r.Context(), req.AudioData, req.Voice, req.Speed)
	if err != nil {
		if errors.Is(err, audio.ErrUnsupportedAudio) || errors.Is(err, pipeline.ErrNoSpeech) {
			http.Error(w, "could not transcribe audio", http.StatusBadRequest)
			return
		}
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "process-command failed: " + err.Error(),
			Service: "voice_tasker",
		})
		http.Error(w, "failed to process voice command", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(result)
}

func (h *VoiceHandler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AudioData string `json:"audio_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	text, err := h.pipeline.SpeechToText(r.Context(), req.AudioData)
	if err != nil {
		http.Error(w, "could not transcribe audio", http.StatusBadRequest)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"text": text, "success": true})
}

func (h *VoiceHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text  string  `json:"text"`
		Voice string  `json:"voice"`
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	audioBytes, err := h.tts.Synthesize(r.Context(), req.Text, req.Voice, req.Speed, true)
	if err != nil {
		if errors.Is(err, tts.ErrEmptyText) {
			http.Error(w, "missing text", http.StatusBadRequest)
			return
		}
		// озвучка недоступна — это не 500, фронт покажет текст без звука
		_ = json.NewEncoder(w).Encode(map[string]any{"audio_data": "", "success": false})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"audio_data": base64.StdEncoding.EncodeToString(audioBytes),
		"success":    true,
	})
}

// ProcessText — текстовая команда без аудио (для тестов фронта)
func (h *VoiceHandler) ProcessText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	result, err := h.pipeline.ProcessTextCommand(r.Context(), req.Text)
	if err != nil {
		http.Error(w, "failed to process text command", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(result)
}

// Voices — read-only diagnostics, never fails the calling request
func (h *VoiceHandler) Voices(w http.ResponseWriter, r *http.Request) {
	voices, source := h.tts.AvailableVoices(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"voices":        voices,
		"default_voice": h.tts.DefaultVoice(),
		"source":        source,
	})
}

func (h *VoiceHandler) Status(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"tts_available": h.tts.Available(r.Context()),
		"default_voice": h.tts.DefaultVoice(),
	})
}
