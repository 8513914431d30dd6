package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deebee/internal/format"
	"deebee/internal/media"
	"deebee/internal/ui"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the filename formats for the current mode",
	Args:  cobra.NoArgs,
	RunE:  formatsRun,
}

// Sample contexts used to preview each format.
var (
	sampleMovie = format.Context{SeriesTitle: "The Matrix", Year: "1999"}
	sampleShow  = format.Context{
		SeriesTitle:  "The Expanse",
		EpisodeTitle: "Dulcinea",
		Year:         "2015",
		Episode:      &media.EpisodeNumber{Season: 1, Episode: 1},
	}
)

func formatsRun(cmd *cobra.Command, args []string) error {
	mode, err := media.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	reg := format.Builtin()
	sample := sampleMovie
	if mode == media.TV {
		sample = sampleShow
	}

	var rows [][]string
	for _, spec := range reg.List(mode) {
		key := spec.Key
		if key == reg.Default(mode) {
			key += " *"
		}
		rows = append(rows, []string{key, spec.Label, spec.ModeNames(), spec.Render(sample)})
	}

	console := ui.NewConsole(os.Stdout, ui.IsTerminal(os.Stdout))
	fmt.Fprintln(cmd.OutOrStdout(), console.Table([]string{"Key", "Label", "Modes", "Example"}, rows))
	fmt.Fprintf(cmd.OutOrStdout(), "* default for %s mode\n", mode)
	return nil
}
