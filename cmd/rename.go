package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"deebee/internal/config"
	"deebee/internal/format"
	"deebee/internal/history"
	"deebee/internal/httputil"
	"deebee/internal/media"
	"deebee/internal/pipeline"
	"deebee/internal/provider"
	"deebee/internal/ui"
)

func renameRun(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}

	mode, err := media.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	spec, err := format.Builtin().ResolveOrDefault(cfg.Format, mode)
	if err != nil {
		return err
	}

	p, err := newProvider()
	if err != nil {
		return err
	}

	chooser, err := ui.NewChooser(cfg.Chooser, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	console := ui.NewConsole(os.Stdout, ui.IsTerminal(os.Stdout))
	options := []pipeline.Option{
		pipeline.WithReporter(console),
		pipeline.WithLogger(logger.Logger),
	}

	if cfg.History && !cfg.DryRun {
		if store := openHistory(); store != nil {
			defer store.Close()
			options = append(options, pipeline.WithJournal(store))
		}
	}

	debugf("renaming in %s: provider=%s format=%s limit=%d", abs, p.Name(), spec.Key, cfg.Limit)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.New(p, chooser, pipeline.Options{
		Mode:   mode,
		Format: spec,
		Limit:  cfg.Limit,
		DryRun: cfg.DryRun,
	}, options...)

	res, err := runner.Run(ctx, abs)
	if err != nil {
		return err
	}

	if res.Stats.Total > 0 {
		console.Summary(res.Stats)
	}
	if res.Stats.Renamed > 0 {
		console.Info("Run %s (see 'deebee history --run %s')", res.RunID, shortRunID(res.RunID))
	}
	if cfg.DryRun && res.Stats.DryRun > 0 {
		console.Info("Dry run only. Re-run with --execute to rename files.")
	}
	return nil
}

// newProvider builds the configured metadata provider with a shared rate limiter.
func newProvider() (provider.Provider, error) {
	opts := provider.Options{
		Limiter: httputil.NewLimiter(cfg.RateLimit),
		Logger:  logger.Logger,
	}
	switch cfg.Provider {
	case "imdb":
		opts.APIKey = cfg.IMDb.APIKey
		opts.BaseURL = cfg.IMDb.BaseURL
	case "tvdb":
		opts.APIKey = cfg.TVDB.APIKey
		opts.PIN = cfg.TVDB.PIN
		opts.BaseURL = cfg.TVDB.BaseURL
	case "imdbweb":
		opts.BaseURL = cfg.IMDbWeb.BaseURL
	}
	return provider.New(cfg.Provider, opts)
}

// openHistory opens the rename journal. Failures are logged and the run
// continues without a journal.
func openHistory() *history.Store {
	path, err := config.HistoryPath()
	if err != nil {
		logger.Warn().Err(err).Msg("history disabled")
		return nil
	}
	store, err := history.Open(path, logger.WithComponent("history"))
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("history disabled")
		return nil
	}
	return store
}
