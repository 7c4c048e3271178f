package server

import (
	"bytes"
	"encoding/json"
	"image/gif"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gh-space-shooter/internal/config"
	"github.com/vovakirdan/gh-space-shooter/internal/game"
	"github.com/vovakirdan/gh-space-shooter/internal/storage"
)

func testApp(t *testing.T) *App {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	// Small frames keep the GIF palettization cheap.
	cfg := config.Default()
	cfg.Theme.CellSize = 4
	cfg.Theme.Padding = 4
	cfg.Theme.Gap = 1
	cfg.Game.Starfield = 0
	cfg.Game.TrailingFrames = 2

	return &App{
		Store:       store,
		Config:      cfg,
		Logger:      log.New(io.Discard),
		CacheMaxAge: time.Hour,
	}
}

func errDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body["detail"]
}

func TestHealthz(t *testing.T) {
	app := testApp(t)
	rec := httptest.NewRecorder()
	app.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestIndex(t *testing.T) {
	app := testApp(t)
	rec := httptest.NewRecorder()
	app.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}

	rec = httptest.NewRecorder()
	app.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestGenerateValidation(t *testing.T) {
	app := testApp(t)
	cases := []struct {
		name string
		url  string
	}{
		{"missing username", "/api/generate"},
		{"bad policy", "/api/generate?username=octocat&policy=spiral"},
		{"bad format", "/api/generate?username=octocat&format=mp4"},
		{"bad seed", "/api/generate?username=octocat&seed=abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Routes().ServeHTTP(rec, httptest.NewRequest("GET", tc.url, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if errDetail(t, rec) == "" {
				t.Error("expected an error detail")
			}
		})
	}
}

func TestGenerateFromCache(t *testing.T) {
	app := testApp(t)

	// Seed the cache so no upstream call happens.
	var counts [game.NumWeeks][game.NumDays]int
	counts[0][6] = 1
	counts[1][6] = 2
	grid, err := game.NewGrid(counts)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if err := app.Store.SaveGrid("octocat", grid); err != nil {
		t.Fatalf("SaveGrid: %v", err)
	}

	rec := httptest.NewRecorder()
	app.Routes().ServeHTTP(rec, httptest.NewRequest("GET",
		"/api/generate?username=octocat&policy=column&seed=7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/gif" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "inline; filename=octocat-space-shooter.gif" {
		t.Errorf("unexpected disposition %q", cd)
	}

	decoded, err := gif.DecodeAll(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(decoded.Image) == 0 {
		t.Fatal("expected at least one frame")
	}

	// The run lands in the history.
	entries, err := app.Store.RecentRenders("octocat", 10)
	if err != nil {
		t.Fatalf("RecentRenders: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Policy != "column" || !entries[0].Cleared {
		t.Errorf("unexpected history entry %+v", entries[0])
	}
	if entries[0].FrameCount != len(decoded.Image) {
		t.Errorf("history frame count %d does not match output %d",
			entries[0].FrameCount, len(decoded.Image))
	}
}

func TestGenerateSameSeedSameBytes(t *testing.T) {
	app := testApp(t)

	var counts [game.NumWeeks][game.NumDays]int
	counts[2][3] = 4
	counts[5][5] = 1
	grid, err := game.NewGrid(counts)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if err := app.Store.SaveGrid("octocat", grid); err != nil {
		t.Fatalf("SaveGrid: %v", err)
	}

	fetch := func() []byte {
		rec := httptest.NewRecorder()
		app.Routes().ServeHTTP(rec, httptest.NewRequest("GET",
			"/api/generate?username=octocat&policy=random&seed=42", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		return rec.Body.Bytes()
	}

	if !bytes.Equal(fetch(), fetch()) {
		t.Error("pinned seed must produce identical output")
	}
}
