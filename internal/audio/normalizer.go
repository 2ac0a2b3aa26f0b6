package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// TargetSampleRate — канонический sample rate для распознавания
const TargetSampleRate = 16000

// ErrUnsupportedAudio — все варианты декодирования исчерпаны
var ErrUnsupportedAudio = errors.New("audio: unsupported format")

const silenceFloor = 0.01

// SignalStats carries diagnostic amplitude metrics for one waveform.
// Near-silent input is a quality hint for the caller, not a failure.
type SignalStats struct {
	Min      float32 `json:"min"`
	Max      float32 `json:"max"`
	MeanAbs  float64 `json:"mean_abs"`
	Samples  int     `json:"samples"`
	NearMute bool    `json:"near_mute"`
}

type Normalizer struct {
	transcoder *Transcoder
}

func NewNormalizer(transcoder *Transcoder) *Normalizer {
	return &Normalizer{transcoder: transcoder}
}

// Normalize decodes encoded audio into a mono float32 waveform at
// TargetSampleRate. Decode order: WAV header parse, ffmpeg transcode
// round trip, raw PCM16 reinterpretation as the last resort.
func (n *Normalizer) Normalize(ctx context.Context, raw []byte) ([]float32, SignalStats, error) {
	if samples, rate, err := decodeWAV(raw); err == nil {
		samples, err = n.toTargetRate(samples, rate)
		if err == nil {
			return samples, computeStats(samples), nil
		}
		log.Printf("[audio] resample from %d Hz failed: %v", rate, err)
	}

	if n.transcoder != nil {
		converted, err := n.transcoder.ToCanonicalWAV(ctx, raw)
		if err == nil {
			if samples, _, perr := decodeWAV(converted); perr == nil {
				return samples, computeStats(samples), nil
			} else {
				log.Printf("[audio] parse of transcoded output failed: %v", perr)
			}
		} else {
			log.Printf("[audio] transcode failed: %v", err)
		}
	}

	samples, err := decodeRawPCM16(raw)
	if err != nil {
		return nil, SignalStats{}, ErrUnsupportedAudio
	}
	log.Printf("[audio] fell back to raw pcm16 interpretation (%d samples)", len(samples))
	return samples, computeStats(samples), nil
}

// toTargetRate converts an already-decoded waveform to the canonical rate.
func (n *Normalizer) toTargetRate(samples []float32, rate int) ([]float32, error) {
	if rate == TargetSampleRate {
		return samples, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(rate),
		OutputRate: float64(TargetSampleRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("init resampler: %w", err)
	}

	input := make([]float64, len(samples))
	for i, s := range samples {
		input[i] = float64(s)
	}

	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("resampler produced no samples")
	}

	out := make([]float32, len(output))
	for i, s := range output {
		out[i] = float32(s)
	}
	return out, nil
}

func computeStats(samples []float32) SignalStats {
	stats := SignalStats{Samples: len(samples)}
	if len(samples) == 0 {
		return stats
	}

	stats.Min = samples[0]
	stats.Max = samples[0]
	var sumAbs float64
	for _, s := range samples {
		if s < stats.Min {
			stats.Min = s
		}
		if s > stats.Max {
			stats.Max = s
		}
		sumAbs += math.Abs(float64(s))
	}
	stats.MeanAbs = sumAbs / float64(len(samples))

	peak := math.Max(math.Abs(float64(stats.Min)), math.Abs(float64(stats.Max)))
	stats.NearMute = peak < silenceFloor

	if stats.NearMute {
		log.Printf("[audio] near-silent input: peak=%.4f mean=%.5f samples=%d", peak, stats.MeanAbs, stats.Samples)
	}
	return stats
}
