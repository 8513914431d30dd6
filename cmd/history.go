package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"deebee/internal/config"
	"deebee/internal/history"
	"deebee/internal/media"
	"deebee/internal/ui"
)

var (
	flagHistoryCount int
	flagHistoryRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently executed renames",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryCount, "number", "n", 20, "Number of entries to show (0 = all)")
	historyCmd.Flags().StringVar(&flagHistoryRun, "run", "", "Only show renames from the run whose ID starts with this")
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.HistoryPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No history entries found.")
		return nil
	}

	store, err := history.Open(path, logger.WithComponent("history"))
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	var entries []media.JournalEntry
	if flagHistoryRun != "" {
		entries, err = store.Run(cmd.Context(), flagHistoryRun)
	} else {
		entries, err = store.Recent(cmd.Context(), flagHistoryCount)
	}
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history entries found.")
		return nil
	}
	debugf("loaded %d history entries from %s", len(entries), path)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		target := filepath.Base(e.TargetPath)
		if e.Adjusted {
			target += " (adjusted)"
		}
		rows = append(rows, []string{
			e.RenamedAt.Format("2006-01-02 15:04"),
			filepath.Base(e.OriginalPath),
			target,
			e.MetadataID,
			shortRunID(e.RunID),
		})
	}

	console := ui.NewConsole(os.Stdout, ui.IsTerminal(os.Stdout))
	fmt.Fprintln(cmd.OutOrStdout(), console.Table([]string{"When", "Original", "Renamed to", "ID", "Run"}, rows))
	return nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
