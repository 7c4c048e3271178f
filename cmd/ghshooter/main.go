// ghshooter renders a GitHub contribution graph as an animated space
// shooter clearing one enemy per active day.
//
// Usage:
//
//	ghshooter generate <username>   - Render an animated GIF
//	ghshooter preview <username>    - Play the run live in the terminal
//	ghshooter serve                 - Start the HTTP API (and optional SSH preview)
//	ghshooter history <username>    - Show past renders
//
// Global flags:
//
//	--config <path>  - Custom config YAML
//	--fps <rate>     - Override frame rate (default from config: 40)
//	--seed <value>   - RNG seed for reproducible runs (0 = random based on time)
//	--token <token>  - GitHub token (default: GH_TOKEN env var)
//	--cache <path>   - Cache/history database path (default: ~/.ghshooter/cache.db)
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gh-space-shooter/internal/config"
	"github.com/vovakirdan/gh-space-shooter/internal/game"
	"github.com/vovakirdan/gh-space-shooter/internal/github"
	"github.com/vovakirdan/gh-space-shooter/internal/storage"
)

// cacheMaxAge is how long a cached contribution grid stays fresh.
const cacheMaxAge = 6 * time.Hour

var (
	// Global flags
	flagConfig string
	flagFPS    int
	flagSeed   int64
	flagToken  string
	flagCache  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ghshooter",
	Short: "Render GitHub contribution graphs as space shooter animations",
	Long: `ghshooter fetches a GitHub user's contribution calendar and renders
a deterministic space shooter run over it: every active day becomes an
enemy, and a small scripted ship clears them all.

Available commands:
  generate - Render an animated GIF for a user
  preview  - Play the run live in the terminal
  serve    - Start the HTTP API server (optionally with SSH preview)
  history  - Show past renders for a user

Examples:
  ghshooter generate torvalds
  ghshooter generate torvalds --policy column --out torvalds.gif
  ghshooter preview torvalds --policy random --seed 42
  ghshooter serve --http :8080 --ssh :23235
  ghshooter history torvalds`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate override (0 = use config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "GitHub token (default: GH_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&flagCache, "cache", "~/.ghshooter/cache.db", "Path to cache database")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// githubToken resolves the token from the flag or the environment.
func githubToken() (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("GitHub token not configured: pass --token or set GH_TOKEN")
}

// openStore opens the cache database. A failure is not fatal; callers
// get nil and work without caching or history.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagCache)
	if err != nil {
		logger.Warn("could not open cache database", "error", err)
		return nil
	}
	return store
}

// lookupGrid serves the contribution grid from cache when fresh,
// fetching and re-caching otherwise.
func lookupGrid(ctx context.Context, client *github.Client, store *storage.Store, logger *log.Logger, username string, noCache bool) (*game.Grid, error) {
	if store != nil && !noCache {
		grid, hit, err := store.CachedGrid(username, cacheMaxAge)
		if err != nil {
			logger.Warn("cache lookup failed", "username", username, "error", err)
		} else if hit {
			logger.Debug("cache hit", "username", username)
			return grid, nil
		}
	}

	grid, err := client.ContributionGrid(ctx, username)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.SaveGrid(username, grid); err != nil {
			logger.Warn("cache save failed", "username", username, "error", err)
		}
	}
	return grid, nil
}

// jobSetup resolves everything a run needs from config and flags.
type jobSetup struct {
	cfg    config.Config
	core   game.Config
	rc     *game.RenderContext
	seed   int64
	policy game.Policy
}

// newJobSetup validates config, theme and policy before any run starts.
func newJobSetup(policyName string) (*jobSetup, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

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
	policy, err := game.PolicyByName(policyName, seed)
	if err != nil {
		return nil, err
	}

	return &jobSetup{cfg: cfg, core: core, rc: rc, seed: seed, policy: policy}, nil
}

// newAnimator builds a fresh world and animator for one run.
func (j *jobSetup) newAnimator(grid *game.Grid) (*game.Animator, error) {
	world, err := game.NewWorld(grid, j.core)
	if err != nil {
		return nil, err
	}
	return game.NewAnimator(world, j.policy, j.rc), nil
}
