package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, voice *VoiceHandler, tasks *TaskHandler, hub *Hub) {
	r.Route("/api/voice", func(vr chi.Router) {
		// STT/LLM вызовы дорогие, держим лимит пожёстче
		vr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(30, time.Minute),
		)

		vr.Post("/process-command", voice.ProcessCommand)
		vr.Post("/process-text", voice.ProcessText)
		vr.Post("/speech-to-text", voice.SpeechToText)
		vr.Post("/text-to-speech", voice.TextToSpeech)
		vr.Get("/voices", voice.Voices)
		vr.Get("/status", voice.Status)
	})

	r.Route("/api/tasks", func(tr chi.Router) {
		tr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(120, time.Minute),
		)

		tr.Post("/", tasks.Create)
		tr.Get("/", tasks.List)
		tr.Delete("/completed/clear", tasks.ClearCompleted)
		tr.Get("/{id}", tasks.Get)
		tr.Patch("/{id}", tasks.Update)
		tr.Delete("/{id}", tasks.Delete)
		tr.Post("/{id}/complete", tasks.Complete)
	})

	r.Get("/ws", hub.ServeWS)
}
