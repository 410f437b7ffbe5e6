package server

import (
	"errors"
	"net/http"
)

const hostKeyHeader = "X-Host-Key"

type StartGameResponse struct {
	Status string `json:"status"`
}

func handleStartGame(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gameCode(r)

		key := r.Header.Get(hostKeyHeader)
		if key == "" {
			writeError(w, http.StatusUnauthorized, "missing host key")
			return
		}

		err := store.StartGame(r.Context(), code, key)
		if !writeHostError(w, err) {
			return
		}

		broker.Publish(code, Event{Type: "game_started", QuestionNumber: 1})
		writeJSON(w, http.StatusOK, StartGameResponse{Status: "active"})
	}
}

func handleAdvanceQuestion(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gameCode(r)

		key := r.Header.Get(hostKeyHeader)
		if key == "" {
			writeError(w, http.StatusUnauthorized, "missing host key")
			return
		}

		result, err := store.AdvanceQuestion(r.Context(), code, key)
		if !writeHostError(w, err) {
			return
		}

		if result.GameComplete {
			broker.Publish(code, Event{Type: "game_complete"})
		} else {
			broker.Publish(code, Event{
				Type:           "question_advanced",
				QuestionNumber: result.QuestionNumber,
			})
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// writeHostError maps host-operation store errors to responses. Returns
// true when err was nil and the handler should continue.
func writeHostError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, ErrBadHostKey):
		writeError(w, http.StatusForbidden, "invalid host key")
	case errors.Is(err, ErrAlreadyStarted):
		writeError(w, http.StatusConflict, "game already started")
	case errors.Is(err, ErrGameOver):
		writeError(w, http.StatusConflict, "game has ended")
	case errors.Is(err, ErrGameNotActive):
		writeError(w, http.StatusConflict, "game is not active")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
	return false
}
