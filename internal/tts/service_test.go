package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T, client Client) *Service {
	t.Helper()
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	return &Service{client: client, cache: cache, defaultVoice: "af_bella"}
}

// kokoroStub serves the two upstream endpoints and counts synthesis calls.
func kokoroStub(t *testing.T, synthCalls *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/audio/voices", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"voices": []string{"af_bella", "am_adam"}})
	})
	mux.HandleFunc("/v1/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		*synthCalls++
		var req struct {
			Input string  `json:"input"`
			Voice string  `json:"voice"`
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		w.Write([]byte("mp3:" + req.Input + ":" + req.Voice))
	})
	return httptest.NewServer(mux)
}

func TestSynthesizeCachesResult(t *testing.T) {
	calls := 0
	upstream := kokoroStub(t, &calls)
	defer upstream.Close()

	svc := newTestService(t, NewKokoroClient(upstream.URL))

	first, err := svc.Synthesize(context.Background(), "hello there", "", 1.0, true)
	if err != nil {
		t.Fatalf("first synthesis: %v", err)
	}
	second, err := svc.Synthesize(context.Background(), "hello there", "", 1.0, true)
	if err != nil {
		t.Fatalf("second synthesis: %v", err)
	}

	if calls != 1 {
		t.Fatalf("upstream called %d times, want 1", calls)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("cached audio differs from the original")
	}
}

func TestSynthesizeCacheBypass(t *testing.T) {
	calls := 0
	upstream := kokoroStub(t, &calls)
	defer upstream.Close()

	svc := newTestService(t, NewKokoroClient(upstream.URL))

	for i := 0; i < 2; i++ {
		if _, err := svc.Synthesize(context.Background(), "hello", "", 1.0, false); err != nil {
			t.Fatalf("synthesis %d: %v", i, err)
		}
	}
	if calls != 2 {
		t.Fatalf("upstream called %d times, want 2 with cache off", calls)
	}
}

func TestSynthesizeUnknownVoiceFallsBackToDefault(t *testing.T) {
	calls := 0
	upstream := kokoroStub(t, &calls)
	defer upstream.Close()

	svc := newTestService(t, NewKokoroClient(upstream.URL))

	audio, err := svc.Synthesize(context.Background(), "hi", "klingon_warrior", 1.0, false)
	if err != nil {
		t.Fatalf("synthesis: %v", err)
	}
	if string(audio) != "mp3:hi:af_bella" {
		t.Fatalf("got %q, want default voice used", audio)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	svc := newTestService(t, NewKokoroClient("http://127.0.0.1:1"))

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Synthesize(context.Background(), text, "", 1.0, true); !errors.Is(err, ErrEmptyText) {
			t.Errorf("text %q: err = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1.0},
		{0.1, 0.5},
		{0.5, 0.5},
		{1.3, 1.3},
		{2.0, 2.0},
		{9.9, 2.0},
	}
	for _, tt := range tests {
		if got := clampSpeed(tt.in); got != tt.want {
			t.Errorf("clampSpeed(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

type deadClient struct{ pings int }

func (d *deadClient) Synthesize(context.Context, string, string, float64) ([]byte, error) {
	return nil, errors.New("unreachable")
}
func (d *deadClient) Voices(context.Context) ([]string, error) { return nil, errors.New("unreachable") }
func (d *deadClient) Ping(context.Context) error {
	d.pings++
	return errors.New("unreachable")
}

func TestSynthesizeUnavailableUpstream(t *testing.T) {
	client := &deadClient{}
	svc := newTestService(t, client)

	for i := 0; i < 3; i++ {
		if _, err := svc.Synthesize(context.Background(), "hello", "", 1.0, true); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("err = %v, want ErrUnavailable", err)
		}
	}
	// probe result is reused for the service lifetime
	if client.pings != 1 {
		t.Fatalf("pinged %d times, want 1", client.pings)
	}
}

func TestAvailableVoicesNeverFails(t *testing.T) {
	svc := newTestService(t, &deadClient{})

	voices, source := svc.AvailableVoices(context.Background())
	if source != "fallback" {
		t.Fatalf("source = %q, want fallback", source)
	}
	if len(voices) != len(availableVoices) {
		t.Fatalf("got %d voices, want the static list", len(voices))
	}
}

func TestAvailableVoicesFromService(t *testing.T) {
	calls := 0
	upstream := kokoroStub(t, &calls)
	defer upstream.Close()

	svc := newTestService(t, NewKokoroClient(upstream.URL))

	voices, source := svc.AvailableVoices(context.Background())
	if source != "service" {
		t.Fatalf("source = %q, want service", source)
	}
	if len(voices) != 2 {
		t.Fatalf("got %v", voices)
	}
}

func TestCacheKeyDistinguishesInputs(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}

	base := cache.Key("hello", "af_bella", 1.0)
	variants := []string{
		cache.Key("hello!", "af_bella", 1.0),
		cache.Key("hello", "am_adam", 1.0),
		cache.Key("hello", "af_bella", 1.5),
		cache.Key("hello", "af_bella", 1.05),
	}
	for i, key := range variants {
		if key == base {
			t.Errorf("variant %d collides with base key", i)
		}
	}

	if cache.Key("hello", "af_bella", 1.0) != base {
		t.Error("key is not deterministic")
	}

	// speeds closer than one decimal still address separate entries
	if cache.Key("hello", "af_bella", 1.21) == cache.Key("hello", "af_bella", 1.24) {
		t.Error("nearby speeds share a cache key")
	}
}

func TestCacheCleanup(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}

	if err := cache.Save("fresh", []byte("a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := cache.Save("stale", []byte("b")); err != nil {
		t.Fatalf("save: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "stale.mp3"), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed, err := cache.Cleanup(24 * time.Hour)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed %d, want 1", removed)
	}
	if _, ok := cache.Load("fresh"); !ok {
		t.Fatal("fresh entry was removed")
	}
	if _, ok := cache.Load("stale"); ok {
		t.Fatal("stale entry survived")
	}
}
