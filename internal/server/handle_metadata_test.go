package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestGameMetadata(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/games/{code}/metadata", handleGameMetadata("https://triviyay.example/"))

	req := httptest.NewRequest(http.MethodGet, "/api/games/abcd/metadata", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var meta GameMetadata
	if err := json.NewDecoder(rec.Body).Decode(&meta); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	// The code is upper-cased and the trailing slash on the base URL is dropped.
	if !strings.Contains(meta.Title, "ABCD") {
		t.Errorf("title = %q, want the game code", meta.Title)
	}
	if meta.URL != "https://triviyay.example/play/ABCD" {
		t.Errorf("url = %q", meta.URL)
	}
	if meta.Image.URL != "https://triviyay.example/api/games/ABCD/og.png" {
		t.Errorf("image url = %q", meta.Image.URL)
	}
	if meta.Image.Width != 1200 || meta.Image.Height != 630 {
		t.Errorf("image size = %dx%d, want 1200x630", meta.Image.Width, meta.Image.Height)
	}
	if meta.SiteName != "TriviYay" {
		t.Errorf("siteName = %q", meta.SiteName)
	}
	if meta.Card != "summary_large_image" {
		t.Errorf("card = %q", meta.Card)
	}
}

func TestGameMetadataNeedsNoGame(t *testing.T) {
	// Metadata is pure templating: a code that has no game behind it still
	// renders a preview.
	r := chi.NewRouter()
	r.Get("/api/games/{code}/metadata", handleGameMetadata("https://triviyay.example"))

	req := httptest.NewRequest(http.MethodGet, "/api/games/ZZZZ/metadata", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
