package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type CreateGameRequest struct {
	Name      string          `json:"name"`
	HostName  string          `json:"hostName"`
	Questions []QuestionInput `json:"questions"`
}

func handleCreateGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if len(req.Questions) == 0 {
			writeError(w, http.StatusBadRequest, "at least one question is required")
			return
		}
		for i, q := range req.Questions {
			if strings.TrimSpace(q.Prompt) == "" {
				writeError(w, http.StatusBadRequest, "question prompt is required")
				return
			}
			if q.CorrectIndex != nil && (*q.CorrectIndex < 0 || *q.CorrectIndex >= len(q.Options)) {
				writeError(w, http.StatusBadRequest, "correctIndex out of range")
				return
			}
			if q.Points < 0 {
				writeError(w, http.StatusBadRequest, "points must not be negative")
				return
			}
			req.Questions[i].Prompt = strings.TrimSpace(q.Prompt)
		}

		created, err := store.CreateGame(r.Context(), req.Name, strings.TrimSpace(req.HostName), req.Questions)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func handleGameInfo(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gameCode(r)

		info, err := store.GameInfo(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, info)
	}
}

func handleGameState(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gameCode(r)

		state, err := store.GameState(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

// gameCode reads the {code} path parameter. Codes are stored upper-case;
// players type them in whatever case they like.
func gameCode(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "code"))
}
