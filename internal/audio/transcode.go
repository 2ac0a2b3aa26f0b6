package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Transcoder re-encodes arbitrary audio into canonical 16-bit PCM WAV
// (16 kHz mono) through an ffmpeg temp-file round trip. The subprocess runs
// under a hard deadline; a hung ffmpeg is killed, not waited on.
type Transcoder struct {
	bin     string
	timeout time.Duration
}

func NewTranscoder() *Transcoder {
	timeout := 30 * time.Second
	if raw := os.Getenv("FFMPEG_TIMEOUT_SECONDS"); raw != "" {
		if sec, err := strconv.Atoi(raw); err == nil && sec > 0 {
			timeout = time.Duration(sec) * time.Second
		}
	}
	return &Transcoder{bin: "ffmpeg", timeout: timeout}
}

// ToCanonicalWAV returns the transcoded bytes. Both temp files are removed
// on every exit path.
func (t *Transcoder) ToCanonicalWAV(ctx context.Context, raw []byte) ([]byte, error) {
	in, err := os.CreateTemp("", "voice-in-*")
	if err != nil {
		return nil, fmt.Errorf("create temp input: %w", err)
	}
	inPath := in.Name()
	defer os.Remove(inPath)

	if _, err := in.Write(raw); err != nil {
		in.Close()
		return nil, fmt.Errorf("write temp input: %w", err)
	}
	in.Close()

	outPath := filepath.Join(os.TempDir(), "voice-out-"+uuid.NewString()+".wav")
	defer os.Remove(outPath)

	tctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, t.bin,
		"-y",
		"-i", inPath,
		"-ar", strconv.Itoa(TargetSampleRate),
		"-ac", "1",
		"-sample_fmt", "s16",
		"-f", "wav",
		outPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if tctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("ffmpeg timed out after %s", t.timeout)
		}
		return nil, fmt.Errorf("ffmpeg failed: %v: %s", err, out)
	}

	converted, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read transcoded output: %w", err)
	}
	return converted, nil
}
