package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_tasker/internal/archive"
	"github.com/Vovarama1992/voice_tasker/internal/audio"
	"github.com/Vovarama1992/voice_tasker/internal/delivery"
	"github.com/Vovarama1992/voice_tasker/internal/error_notificator"
	"github.com/Vovarama1992/voice_tasker/internal/intent"
	"github.com/Vovarama1992/voice_tasker/internal/pipeline"
	"github.com/Vovarama1992/voice_tasker/internal/ports"
	"github.com/Vovarama1992/voice_tasker/internal/speech"
	"github.com/Vovarama1992/voice_tasker/internal/tasks"
	"github.com/Vovarama1992/voice_tasker/internal/tts"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	defer db.Close()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// REPOSITORIES / DOMAIN SERVICES
	// =========================================================================

	taskRepo := tasks.NewTaskRepo(db)
	taskService := tasks.NewService(taskRepo)

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errInfra := error_notificator.NewInfra()
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// CLIENTS (STT / LLM / TTS / S3)
	// =========================================================================

	openAIKey := os.Getenv("OPENAI_API_KEY")

	// без ключа сервис стартует, распознавание отвечает per-request ошибкой
	var sttClient speech.STTClient
	switch os.Getenv("STT_PROVIDER") {
	case "deepgram":
		if dgKey := os.Getenv("DEEPGRAM_API_KEY"); dgKey != "" {
			sttClient = speech.NewDeepgramClient(dgKey)
		} else {
			log.Printf("[main] STT_PROVIDER=deepgram but no DEEPGRAM_API_KEY, transcription disabled")
		}
	default:
		if openAIKey != "" {
			sttClient = speech.NewWhisperClient(openAIKey)
		} else {
			log.Printf("[main] no OPENAI_API_KEY, transcription disabled")
		}
	}

	var llmClient *openai.Client
	if openAIKey != "" {
		llmClient = openai.NewClient(openAIKey)
	} else {
		log.Printf("[main] no OPENAI_API_KEY, intent resolution runs on keyword fallback only")
	}

	ttsBaseURL := os.Getenv("KOKORO_BASE_URL")
	if ttsBaseURL == "" {
		ttsBaseURL = "http://localhost:8880"
	}
	kokoroClient := tts.NewKokoroClient(ttsBaseURL)

	ttsCache, err := tts.NewCache(os.Getenv("TTS_CACHE_DIR"))
	if err != nil {
		log.Fatalf("failed to init tts cache: %v", err)
	}

	var archiveService ports.ArchiveService
	if os.Getenv("S3_ENDPOINT") != "" {
		s3Client, err := archive.NewS3Client()
		if err != nil {
			log.Printf("[main] s3 unavailable, recordings will not be archived: %v", err)
		} else {
			archiveService = archive.NewService(s3Client)
		}
	}

	// =========================================================================
	// VOICE PIPELINE
	// =========================================================================

	transcoder := audio.NewTranscoder()
	normalizer := audio.NewNormalizer(transcoder)
	transcriber := speech.NewTranscriber(sttClient)
	resolver := intent.NewResolver(llmClient)
	ttsService := tts.NewService(kokoroClient, ttsCache)

	pipelineService := pipeline.NewService(
		normalizer,
		transcriber,
		resolver,
		taskService,
		ttsService,
		archiveService,
		errService,
	)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// HANDLERS
	hub := delivery.NewHub(taskService)
	voiceHandler := delivery.NewVoiceHandler(pipelineService, ttsService, zl)
	taskHandler := delivery.NewTaskHandler(taskService, hub)

	pipelineService.SetOnTasksChanged(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.BroadcastTasks(ctx)
	})

	// ROUTES
	delivery.RegisterRoutes(r, voiceHandler, taskHandler, hub)

	r.Handle("/metrics", promhttp.Handler())

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	cacheMaxAge := 24 * time.Hour
	if raw := os.Getenv("TTS_CACHE_MAX_AGE_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			cacheMaxAge = time.Duration(hours) * time.Hour
		}
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			ttsService.CleanupCache(cacheMaxAge)
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "voice_tasker",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
