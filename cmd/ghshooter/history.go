package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history <username>",
	Short: "Show past renders for a user",
	Long: `List renders recorded in the local database, newest first.

Examples:
  ghshooter history torvalds
  ghshooter history torvalds --limit 5`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	username := args[0]
	logger := newLogger("ghshooter")

	store := openStore(logger)
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: history database unavailable")
		os.Exit(1)
	}
	defer store.Close()

	entries, err := store.RecentRenders(username, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Printf("No renders recorded for %s\n", username)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPOLICY\tFRAMES\tTICKS\tCLEARED")
	for _, e := range entries {
		cleared := "no"
		if e.Cleared {
			cleared = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Policy, e.FrameCount, e.Ticks, cleared)
	}
	w.Flush()
}
