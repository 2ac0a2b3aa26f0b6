package archive

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

// Service keeps raw command recordings for diagnostics. Uploads are
// best-effort: the voice pipeline never waits on or fails because of S3.
type Service struct {
	client ports.S3Client
}

func NewService(client ports.S3Client) *Service {
	return &Service{client: client}
}

func (s *Service) objectKey(contentType string) string {
	ext := ".bin"
	switch contentType {
	case "audio/wav", "audio/x-wav":
		ext = ".wav"
	case "audio/ogg":
		ext = ".ogg"
	case "audio/mpeg":
		ext = ".mp3"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("voice-commands/%s/%s%s", date, uuid.NewString(), ext)
}

func (s *Service) SaveRecording(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty recording")
	}

	key := s.objectKey(contentType)
	url, err := s.client.PutObject(ctx, key, bytes.NewReader(audio), int64(len(audio)), contentType)
	if err != nil {
		return "", err
	}

	log.Printf("[archive] stored recording %s (%d bytes)", key, len(audio))
	return url, nil
}
