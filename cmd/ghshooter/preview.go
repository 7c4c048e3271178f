package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gh-space-shooter/internal/game"
	"github.com/vovakirdan/gh-space-shooter/internal/github"
	"github.com/vovakirdan/gh-space-shooter/internal/platform/tui"
)

var flagPreviewPolicy string

var previewCmd = &cobra.Command{
	Use:   "preview <username>",
	Short: "Play the run live in the terminal",
	Long: `Fetch the user's contribution calendar and play the shooter run as
a terminal animation instead of writing a file.

Press q or Esc to quit.

Examples:
  ghshooter preview torvalds
  ghshooter preview torvalds --policy row --fps 20`,
	Args: cobra.ExactArgs(1),
	Run:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&flagPreviewPolicy, "policy", "random", "Targeting policy: column, row, random")
}

func runPreview(cmd *cobra.Command, args []string) {
	username := args[0]
	logger := newLogger("ghshooter")

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: preview needs an interactive terminal, use generate instead")
		os.Exit(1)
	}

	job, err := newJobSetup(flagPreviewPolicy)
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

	loader := func() (*game.Animator, error) {
		grid, err := lookupGrid(context.Background(), client, store, logger, username, false)
		if err != nil {
			return nil, err
		}
		return job.newAnimator(grid)
	}

	model := tui.NewPreviewModel(username, job.core.FPS, loader)
	if err := tui.RunPreview(model); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
