package server

import (
	"errors"
	"net/http"
	"strings"
)

type JoinRequest struct {
	PlayerName string `json:"playerName"`
}

type JoinResponse struct {
	PlayerID string `json:"playerId"`
	Code     string `json:"code"`
}

func handleJoin(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gameCode(r)

		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "playerName is required")
			return
		}

		playerID, err := store.JoinGame(r.Context(), code, req.PlayerName)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "game not found")
			return
		case errors.Is(err, ErrGameOver):
			writeError(w, http.StatusConflict, "game has ended")
			return
		case errors.Is(err, ErrNameTaken):
			writeError(w, http.StatusConflict, "player name already taken")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(code, Event{
			Type:       "player_joined",
			PlayerID:   playerID,
			PlayerName: req.PlayerName,
		})

		writeJSON(w, http.StatusOK, JoinResponse{
			PlayerID: playerID,
			Code:     code,
		})
	}
}
