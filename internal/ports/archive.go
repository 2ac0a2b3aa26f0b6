package ports

import (
	"context"
	"io"
)

// Низкоуровневый клиент к S3
type S3Client interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (location string, err error)
}

// ArchiveService — best-effort хранилище сырых голосовых команд
type ArchiveService interface {
	SaveRecording(ctx context.Context, audio []byte, contentType string) (string, error)
}
