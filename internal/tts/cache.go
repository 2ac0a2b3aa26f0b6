package tts

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Cache — content-addressed file cache for synthesized audio. Entries are
// immutable once written; distinct keys never collide, so writes need no
// locking, only idempotent overwrite semantics.
type Cache struct {
	dir string
}

func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "tts_cache")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Key — digest of the semantic inputs of one synthesis request. Speed is
// rendered at full precision: any distinct value must get its own entry.
func (c *Cache) Key(text, voice string, speed float64) string {
	content := text + "_" + voice + "_" + strconv.FormatFloat(speed, 'f', -1, 64)
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".mp3")
}

func (c *Cache) Load(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Save(key string, audio []byte) error {
	return os.WriteFile(c.path(key), audio, 0644)
}

// Cleanup removes entries older than maxAge and reports how many were removed.
func (c *Cache) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := filepath.Glob(filepath.Join(c.dir, "*.mp3"))
	if err != nil {
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, path := range entries {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}
