// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deebee/internal/config"
	"deebee/internal/logging"
	"deebee/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagMode      string
	flagFormat    string
	flagLimit     int
	flagProvider  string
	flagChooser   string
	flagExecute   bool
	flagNoHistory bool
	flagDebug     bool
	flagLogFile   string
)

// cfg holds the loaded configuration (merged: defaults < config file < env < flags).
var cfg *config.Config

// logger is the diagnostic logger, built once the configuration is known.
var logger = logging.Nop()

var rootCmd = &cobra.Command{
	Use:   "deebee [directory]",
	Short: "Rename movie and TV files from online metadata",
	Long: `deebee scans a directory for video files, guesses a search query from
each filename, looks it up on IMDb or TheTVDB and renames the file after the
match you pick. Nothing is renamed unless --execute is given.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              renameRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagMode, "mode", "m", "", "Media mode: movie | tv")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Filename format key (see 'deebee formats')")
	rootCmd.PersistentFlags().IntVarP(&flagLimit, "limit", "l", 0, "Maximum matches per file (1-50)")
	rootCmd.PersistentFlags().StringVarP(&flagProvider, "provider", "p", "", "Metadata provider: imdb | tvdb | imdbweb")
	rootCmd.PersistentFlags().StringVar(&flagChooser, "chooser", "", "Match chooser: auto | fzf | tui | first")
	rootCmd.PersistentFlags().BoolVar(&flagExecute, "execute", false, "Rename files instead of printing a dry run")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record renames in the history journal")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < env < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagMode != "" {
		cfg.Mode = flagMode
	}
	if flagFormat != "" {
		cfg.Format = flagFormat
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = flagLimit
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagChooser != "" {
		cfg.Chooser = flagChooser
	}
	if flagExecute {
		cfg.DryRun = false
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.Debug = true
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := "warn"
	if cfg.Debug {
		level = "debug"
	}
	logger = logging.New(logging.Config{
		Level:   level,
		File:    cfg.LogFile,
		NoColor: !ui.IsTerminal(os.Stderr),
	})

	debugf("config loaded: mode=%s provider=%s chooser=%s dry_run=%t", cfg.Mode, cfg.Provider, cfg.Chooser, cfg.DryRun)
	return nil
}

// debugf logs a message at debug level.
func debugf(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the deebee version",
	Args:  cobra.NoArgs,
	// No config needed to print a version.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "deebee %s\n", Version)
	},
}
