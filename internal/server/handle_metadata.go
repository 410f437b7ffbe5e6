package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GameMetadata is the link-preview payload for a game code: everything a
// share card needs, templated from the code and the configured base URL.
// No game lookup happens here; previews must render even for codes that
// don't resolve yet.
type GameMetadata struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	SiteName    string        `json:"siteName"`
	Card        string        `json:"card"`
	Image       MetadataImage `json:"image"`
}

type MetadataImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

func handleGameMetadata(baseURL string) http.HandlerFunc {
	base := strings.TrimRight(baseURL, "/")

	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(chi.URLParam(r, "code"))

		writeJSON(w, http.StatusOK, GameMetadata{
			Title:       fmt.Sprintf("Join my TriviYay game! Code: %s", code),
			Description: "Tap to join the trivia game and play along in real time.",
			URL:         fmt.Sprintf("%s/play/%s", base, code),
			SiteName:    "TriviYay",
			Card:        "summary_large_image",
			Image: MetadataImage{
				URL:    fmt.Sprintf("%s/api/games/%s/og.png", base, code),
				Width:  1200,
				Height: 630,
				Alt:    fmt.Sprintf("TriviYay game %s", code),
			},
		})
	}
}
