// Package pipeline drives a directory run: discovery, per-file search and
// selection, rename planning and execution, and run statistics.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"deebee/internal/format"
	"deebee/internal/media"
	"deebee/internal/naming"
	"deebee/internal/provider"
	"deebee/internal/rename"
)

// DefaultLimit is the number of matches requested per file when Options.Limit
// is not set.
const DefaultLimit = 10

// ErrNoFormat is returned by Run when Options.Format has no renderer.
var ErrNoFormat = errors.New("pipeline: no filename format configured")

// Options configures a run.
type Options struct {
	Mode media.Mode
	// Format must be resolved from a registry; a zero Spec fails Run.
	Format format.Spec
	Limit  int
	DryRun bool
}

// Result is what a run produced. Candidates holds every accepted selection
// in processing order, whether or not it was renamed.
type Result struct {
	RunID      string
	Candidates []rename.Candidate
	Stats      RunStats
}

// Runner processes the media files of one directory sequentially.
type Runner struct {
	provider provider.Provider
	chooser  Chooser
	opts     Options

	reporter Reporter
	journal  Journal
	planner  *rename.Planner
	logger   zerolog.Logger
	now      func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithReporter sets where progress lines go. The default discards them.
func WithReporter(rep Reporter) Option { return func(r *Runner) { r.reporter = rep } }

// WithJournal records every executed rename.
func WithJournal(j Journal) Option { return func(r *Runner) { r.journal = j } }

// WithPlanner replaces the OS-backed rename planner.
func WithPlanner(p *rename.Planner) Option { return func(r *Runner) { r.planner = p } }

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.logger = l.With().Str("component", "pipeline").Logger() }
}

// New creates a Runner. The format in opts must already be resolved for
// opts.Mode.
func New(p provider.Provider, chooser Chooser, opts Options, options ...Option) *Runner {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	r := &Runner{
		provider: p,
		chooser:  chooser,
		opts:     opts,
		reporter: nopReporter{},
		planner:  rename.NewPlanner(nil),
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// Run processes every media file directly inside dir. Only a missing format
// or a discovery failure is returned as an error; per-file problems are
// reported and the run continues. A Stop decision or a cancelled ctx ends
// the run after the current file.
func (r *Runner) Run(ctx context.Context, dir string) (*Result, error) {
	if r.opts.Format.Renderer == nil {
		return nil, ErrNoFormat
	}

	files, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString()}
	res.Stats.Total = len(files)

	r.logger.Debug().
		Str("dir", dir).
		Str("run", res.RunID).
		Int("files", len(files)).
		Str("mode", r.opts.Mode.String()).
		Str("format", r.opts.Format.Key).
		Bool("dry_run", r.opts.DryRun).
		Msg("Starting run")

	if len(files) == 0 {
		r.reporter.Warn("No media files found in %s", dir)
		return res, nil
	}
	r.reporter.Info("Scanning %s (%d file(s))", dir, len(files))

	for i, path := range files {
		if ctx.Err() != nil {
			r.reporter.Warn("Interrupted")
			res.Stats.Stopped = true
			break
		}
		res.Stats.Current = i + 1

		if !r.processFile(ctx, path, res) {
			r.reporter.Warn("Processing stopped by user.")
			res.Stats.Stopped = true
			break
		}
	}

	return res, nil
}

// processFile runs one file through parse → search → choose → plan →
// execute. It returns false when the run must stop.
func (r *Runner) processFile(ctx context.Context, path string, res *Result) bool {
	name := filepath.Base(path)
	log := r.logger.With().Str("file", name).Logger()

	query := naming.ParseFile(path)
	ev := log.Debug().Str("query", query.Query)
	if query.Episode != nil {
		ev = ev.Str("episode", query.Episode.Marker())
	}
	ev.Msg("Parsed filename")

	if query.Query == "" {
		r.reporter.Warn("No searchable query for %s", name)
		res.Stats.NoMatches++
		return true
	}

	matches := r.search(ctx, log, query)
	if len(matches) == 0 {
		r.reporter.Warn("No matches found for %s", name)
		res.Stats.NoMatches++
		return true
	}

	decision, err := r.chooser.Choose(ctx, path, matches)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.reporter.Error("Selection failed for %s: %v", name, err)
		res.Stats.Skipped++
		return true
	}
	log.Debug().Str("action", decision.Action.String()).Int("index", decision.Index).Msg("Chooser decided")

	switch decision.Action {
	case Stop:
		return false
	case Skip:
		r.reporter.Info("Skipped %s", name)
		res.Stats.Skipped++
		return true
	}
	if decision.Index < 0 || decision.Index >= len(matches) {
		r.reporter.Error("Invalid selection %d for %s", decision.Index, name)
		res.Stats.Skipped++
		return true
	}

	c := rename.Candidate{
		OriginalPath: path,
		Metadata:     matches[decision.Index],
		Format:       r.opts.Format,
		Episode:      query.Episode,
	}
	if c.AlreadyNamed() {
		r.reporter.Success("Already matches target format: %s", name)
		res.Stats.AlreadyNamed++
		return true
	}
	if naming.SanitizeTitle(c.Metadata.Title) == "" {
		r.reporter.Warn("No usable title for %s: %q", name, c.Metadata.Title)
		res.Stats.Skipped++
		return true
	}
	res.Candidates = append(res.Candidates, c)

	target, adjusted := r.planner.ResolveTarget(c)
	if adjusted {
		res.Stats.Adjusted++
	}
	log.Debug().Str("target", target).Bool("adjusted", adjusted).Msg("Resolved target")

	if r.opts.DryRun {
		r.reporter.Info("DRY RUN: %s -> %s", name, filepath.Base(target))
		if adjusted {
			r.reporter.Warn("Note: %s already exists. Would use %s instead.", c.ProposedFilename(), filepath.Base(target))
		}
		res.Stats.DryRun++
		return true
	}

	if adjusted {
		r.reporter.Warn("Adjusted target to avoid overwrite: %s -> %s", c.ProposedFilename(), filepath.Base(target))
	}
	r.reporter.Info("Renaming %s -> %s", name, filepath.Base(target))
	if err := r.planner.Execute(c, target); err != nil {
		r.reporter.Error("Failed to rename %s: %v", name, err)
		res.Stats.Failed++
		return true
	}
	r.reporter.Success("Renamed %s", filepath.Base(target))
	res.Stats.Renamed++
	r.record(ctx, res.RunID, c, target, adjusted)
	return true
}

// search prefers an episode lookup in TV mode and falls back to a plain
// search when that fails or finds nothing.
func (r *Runner) search(ctx context.Context, log zerolog.Logger, q media.SearchQuery) []media.Metadata {
	if r.opts.Mode == media.TV && q.Episode != nil {
		matches, err := r.provider.SearchEpisode(ctx, q.Query, *q.Episode, r.opts.Limit)
		switch {
		case err == nil && len(matches) > 0:
			log.Debug().Int("matches", len(matches)).Msg("Episode search succeeded")
			return matches
		case err != nil && !errors.Is(err, provider.ErrUnsupported):
			log.Debug().Err(err).Msg("Episode search failed, falling back to plain search")
		}
	}

	matches, err := r.provider.Search(ctx, q.Query, r.opts.Limit)
	if err != nil {
		r.reporter.Warn("Search failed for %q: %v", q.Query, err)
		return nil
	}
	log.Debug().Int("matches", len(matches)).Msg("Search completed")
	return matches
}

func (r *Runner) record(ctx context.Context, runID string, c rename.Candidate, target string, adjusted bool) {
	if r.journal == nil {
		return
	}
	entry := media.JournalEntry{
		RunID:        runID,
		OriginalPath: c.OriginalPath,
		TargetPath:   target,
		MetadataID:   c.Metadata.ID,
		Title:        c.Metadata.Title,
		Format:       c.Format.Key,
		Adjusted:     adjusted,
		RenamedAt:    r.now(),
	}
	// Record even when the run was just interrupted.
	if err := r.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn().Err(err).Str("target", target).Msg("Failed to record rename in journal")
	}
}
