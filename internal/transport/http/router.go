package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the REST API and the websocket endpoint.
func NewRouter(h *Handler, ws *WSHandler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Healthz)
	if ws != nil {
		// Long-lived; kept outside the request timeout.
		r.Get("/ws", ws.ServeWS)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/banks/{kind}", func(r chi.Router) {
			r.Get("/stats", h.BankStats)
			r.Get("/categories", h.BankCategories)
			r.Post("/reload", h.ReloadBank)
		})

		r.Post("/tests", h.StartTest)
		r.Post("/practice", h.StartPractice)
		r.Post("/attempts/{attemptID}/submit", h.SubmitAttempt)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/progress", h.Progress)
			r.Delete("/exposure", h.ResetExposure)
			r.Get("/history", h.History)
			r.Delete("/history", h.ClearHistory)
			r.Get("/achievements", h.Achievements)
			r.Get("/stats", h.UserStats)
		})

		r.Get("/daily", h.DailyQuestion)
		r.Route("/daily/{userID}", func(r chi.Router) {
			r.Get("/", h.DailyStatus)
			r.Post("/answer", h.DailyAnswer)
			r.Get("/stats", h.DailyStats)
		})
	})
	return r
}
