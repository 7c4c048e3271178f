package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gh-space-shooter/internal/config"
	"github.com/vovakirdan/gh-space-shooter/internal/game"
	"github.com/vovakirdan/gh-space-shooter/internal/github"
	"github.com/vovakirdan/gh-space-shooter/internal/platform/tui"
	"github.com/vovakirdan/gh-space-shooter/internal/server"
)

var (
	flagHTTPAddr    string
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server. Animations are generated on demand:

  GET /api/generate?username=<login>&policy=column|row|random&seed=<n>&format=gif

With --ssh a second listener serves the live terminal preview over SSH;
connecting as a GitHub login previews that login's run:

  ssh -p 23235 torvalds@localhost

Examples:
  ghshooter serve
  ghshooter serve --http :9000
  ghshooter serve --ssh :23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH preview listen address (empty = disabled)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "SSH host key path (default: ~/.ghshooter/host_key)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "SSH idle connection timeout")
}

func runServe(cmd *cobra.Command, args []string) {
	logger := newLogger("ghshooter-api")

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	token, err := githubToken()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	client := github.NewClient(token)

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	app := &server.App{
		Client:      client,
		Store:       store,
		Config:      cfg,
		Logger:      logger,
		CacheMaxAge: cacheMaxAge,
	}

	httpServer := &http.Server{
		Addr:         flagHTTPAddr,
		Handler:      app.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("HTTP server listening", "address", flagHTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var sshServer *tui.SSHServer
	if flagSSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = flagSSHAddr
		sshCfg.HostKeyPath = flagHostKey
		sshCfg.IdleTimeout = flagIdleTimeout
		if flagFPS > 0 {
			sshCfg.FPS = flagFPS
		}

		loader := sessionLoader(cfg, app)
		sshServer, err = tui.NewSSHServer(sshCfg, loader)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		go func() {
			if err := sshServer.ListenAndServe(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown", "error", err)
	}
	if sshServer != nil {
		if err := sshServer.Shutdown(); err != nil {
			logger.Warn("SSH shutdown", "error", err)
		}
	}
}

// sessionLoader builds per-session animator loaders for the SSH
// preview, sharing the HTTP app's grid cache.
func sessionLoader(cfg config.Config, app *server.App) tui.SessionLoader {
	return func(username string) tui.AnimatorLoader {
		return func() (*game.Animator, error) {
			seed := flagSeed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			core, err := cfg.Core(seed, flagFPS)
			if err != nil {
				return nil, err
			}
			theme, err := cfg.CoreTheme()
			if err != nil {
				return nil, err
			}
			rc, err := game.NewRenderContext(theme)
			if err != nil {
				return nil, err
			}
			policy, err := game.PolicyByName("random", seed)
			if err != nil {
				return nil, err
			}

			grid, err := app.LookupGrid(context.Background(), username)
			if err != nil {
				return nil, err
			}
			world, err := game.NewWorld(grid, core)
			if err != nil {
				return nil, err
			}
			return game.NewAnimator(world, policy, rc), nil
		}
	}
}
