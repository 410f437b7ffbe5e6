package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, db *sql.DB, baseURL, spaDir string) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("TriviYay API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimitMiddleware(50, 100))

		r.Post("/games", handleCreateGame(store))
		r.Route("/games/{code}", func(r chi.Router) {
			r.Get("/", handleGameInfo(store))
			r.Get("/metadata", handleGameMetadata(baseURL))
			r.Post("/join", handleJoin(store, broker))
			r.Get("/state", handleGameState(store))
			r.Post("/start", handleStartGame(store, broker))
			r.Post("/advance", handleAdvanceQuestion(store, broker))
			r.Get("/events", handleEvents(store, broker))
		})

		// Answer submission endpoint used by embedded and cross-origin
		// clients, hence the permissive CORS on both verbs.
		r.Post("/simulate-submit-answer", handleSubmitAnswer(store, broker))
		r.Options("/simulate-submit-answer", handleSubmitAnswerPreflight())
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
