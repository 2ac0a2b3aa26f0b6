package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics, registered on the default registry and served via /metrics.
var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_commands_total",
		Help: "Voice commands processed, by outcome",
	}, []string{"outcome"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voice_stage_duration_seconds",
		Help:    "Duration of each pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	TranscriptionRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_transcription_retries_total",
		Help: "Second-pass transcription attempts after a degenerate first pass",
	})

	IntentFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_intent_fallbacks_total",
		Help: "Commands resolved by the keyword fallback instead of the LLM",
	})

	ExecutorAnomalies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_executor_anomalies_total",
		Help: "Intents with an unrecognized action tag",
	})

	TTSCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_tts_cache_hits_total",
		Help: "Synthesis requests served from the local cache",
	})

	TTSCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_tts_cache_misses_total",
		Help: "Synthesis requests that required an upstream call",
	})
)
