// Package server exposes animation generation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gh-space-shooter/internal/config"
	"github.com/vovakirdan/gh-space-shooter/internal/encode"
	"github.com/vovakirdan/gh-space-shooter/internal/game"
	"github.com/vovakirdan/gh-space-shooter/internal/github"
	"github.com/vovakirdan/gh-space-shooter/internal/storage"
)

// App holds what the handlers depend on. Store may be nil; the server
// then fetches on every request and records no history.
type App struct {
	Client      *github.Client
	Store       *storage.Store
	Config      config.Config
	Logger      *log.Logger
	CacheMaxAge time.Duration
}

// Routes builds the HTTP mux.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleIndex)
	mux.HandleFunc("GET /healthz", a.handleHealth)
	mux.HandleFunc("GET /api/generate", a.handleGenerate)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

const indexHTML = `<!doctype html>
<html>
<head><title>GitHub Space Shooter</title></head>
<body style="background:#0d1117;color:#c9d1d9;font-family:monospace">
<h1>GitHub Space Shooter</h1>
<p>GET /api/generate?username=&lt;login&gt;&amp;policy=column|row|random&amp;format=gif</p>
</body>
</html>
`

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleGenerate(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	policyName := r.URL.Query().Get("policy")
	if policyName == "" {
		policyName = "random"
	}
	// Server runs are not reproducible by default; each request gets
	// a time-derived seed unless the caller pins one.
	seed := time.Now().UnixNano()
	if s := r.URL.Query().Get("seed"); s != "" {
		if _, err := fmt.Sscanf(s, "%d", &seed); err != nil {
			writeError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
	}

	policy, err := game.PolicyByName(policyName, seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "gif"
	}
	provider, err := encode.Resolve("output." + format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grid, err := a.LookupGrid(r.Context(), username)
	if err != nil {
		var apiErr *github.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, apiErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := a.runJob(grid, policy, seed)
	if err != nil {
		a.Logger.Error("run failed", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate animation: %v", err))
		return
	}

	data, err := provider.Encode(result.Frames, result.FrameDuration)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if a.Store != nil {
		// Best-effort history record
		if _, err := a.Store.SaveRender(storage.RenderEntry{
			Username:   username,
			Policy:     policy.Name(),
			FrameCount: len(result.Frames),
			Ticks:      result.Ticks,
			Cleared:    result.Cleared,
		}); err != nil {
			a.Logger.Warn("could not record render", "username", username, "error", err)
		}
	}

	a.Logger.Info("animation generated",
		"username", username,
		"policy", policy.Name(),
		"frames", len(result.Frames),
		"bytes", len(data),
	)

	w.Header().Set("Content-Type", provider.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("inline; filename=%s-space-shooter.%s", username, format))
	_, _ = w.Write(data)
}

// LookupGrid serves the grid from cache when fresh enough, fetching
// and re-caching otherwise.
func (a *App) LookupGrid(ctx context.Context, username string) (*game.Grid, error) {
	if a.Store != nil {
		grid, hit, err := a.Store.CachedGrid(username, a.CacheMaxAge)
		if err != nil {
			a.Logger.Warn("cache lookup failed", "username", username, "error", err)
		} else if hit {
			return grid, nil
		}
	}

	grid, err := a.Client.ContributionGrid(ctx, username)
	if err != nil {
		return nil, err
	}

	if a.Store != nil {
		if err := a.Store.SaveGrid(username, grid); err != nil {
			a.Logger.Warn("cache save failed", "username", username, "error", err)
		}
	}
	return grid, nil
}

// runJob builds a fresh world and animator for one request and runs it
// to completion. Jobs share no state and may run concurrently.
func (a *App) runJob(grid *game.Grid, policy game.Policy, seed int64) (*game.RunResult, error) {
	core, err := a.Config.Core(seed, 0)
	if err != nil {
		return nil, err
	}
	theme, err := a.Config.CoreTheme()
	if err != nil {
		return nil, err
	}
	rc, err := game.NewRenderContext(theme)
	if err != nil {
		return nil, err
	}
	world, err := game.NewWorld(grid, core)
	if err != nil {
		return nil, err
	}
	return game.NewAnimator(world, policy, rc).Run()
}
