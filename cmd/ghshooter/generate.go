package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gh-space-shooter/internal/encode"
	"github.com/vovakirdan/gh-space-shooter/internal/github"
	"github.com/vovakirdan/gh-space-shooter/internal/storage"
)

var (
	flagPolicy  string
	flagOut     string
	flagNoCache bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <username>",
	Short: "Render an animated GIF for a GitHub user",
	Long: `Fetch the user's contribution calendar, run the shooter simulation
over it and write the resulting animation.

Policies:
  column - Clear columns left to right
  row    - Clear rows top to bottom
  random - Clear enemies in a random order (see --seed)

Examples:
  ghshooter generate torvalds
  ghshooter generate torvalds --policy column
  ghshooter generate torvalds --policy random --seed 42 --out torvalds.gif`,
	Args: cobra.ExactArgs(1),
	Run:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagPolicy, "policy", "random", "Targeting policy: column, row, random")
	generateCmd.Flags().StringVar(&flagOut, "out", "", "Output path (default: <username>-space-shooter.gif)")
	generateCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Skip the contribution cache")
}

func runGenerate(cmd *cobra.Command, args []string) {
	username := args[0]
	logger := newLogger("ghshooter")

	out := flagOut
	if out == "" {
		out = fmt.Sprintf("%s-space-shooter.gif", username)
	}

	// Resolve the provider first so a bad extension fails before any
	// network or simulation work.
	provider, err := encode.Resolve(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	job, err := newJobSetup(flagPolicy)
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

	grid, err := lookupGrid(context.Background(), client, store, logger, username, flagNoCache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("contributions fetched", "username", username, "enemies", grid.ActiveCount())

	anim, err := job.newAnimator(grid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result, err := anim.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: simulation failed: %v\n", err)
		os.Exit(1)
	}

	data, err := provider.Encode(result.Frames, result.FrameDuration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := encode.Write(out, data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if store != nil {
		// History is best effort; a failed insert never fails the render.
		_, _ = store.SaveRender(storage.RenderEntry{
			Username:   username,
			Policy:     job.policy.Name(),
			FrameCount: len(result.Frames),
			Ticks:      result.Ticks,
			Cleared:    result.Cleared,
		})
	}

	logger.Info("animation written",
		"path", out,
		"policy", job.policy.Name(),
		"frames", len(result.Frames),
		"ticks", result.Ticks,
		"bytes", len(data),
	)
}
