package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"deebee/internal/format"
	"deebee/internal/media"
	"deebee/internal/provider"
	"deebee/internal/rename"
)

// --- Helpers and fakes ---

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type searchCall struct {
	query   string
	episode *media.EpisodeNumber
	limit   int
}

type fakeProvider struct {
	results        map[string][]media.Metadata
	episodeResults map[string][]media.Metadata
	episodeErr     error
	searchErr      error
	calls          []searchCall
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Search(ctx context.Context, query string, limit int) ([]media.Metadata, error) {
	p.calls = append(p.calls, searchCall{query: query, limit: limit})
	if p.searchErr != nil {
		return nil, p.searchErr
	}
	return p.results[query], nil
}

func (p *fakeProvider) SearchEpisode(ctx context.Context, query string, ep media.EpisodeNumber, limit int) ([]media.Metadata, error) {
	p.calls = append(p.calls, searchCall{query: query, episode: &ep, limit: limit})
	if p.episodeErr != nil {
		return nil, p.episodeErr
	}
	return p.episodeResults[query], nil
}

type scriptedChooser struct {
	decisions []Decision
	files     []string
}

func (c *scriptedChooser) Choose(ctx context.Context, file string, matches []media.Metadata) (Decision, error) {
	c.files = append(c.files, filepath.Base(file))
	if len(c.decisions) == 0 {
		return Selected(0), nil
	}
	d := c.decisions[0]
	c.decisions = c.decisions[1:]
	return d, nil
}

type recordingReporter struct {
	lines []string
}

func (r *recordingReporter) add(level, format string, args ...any) {
	r.lines = append(r.lines, level+": "+fmt.Sprintf(format, args...))
}
func (r *recordingReporter) Info(f string, a ...any)    { r.add("info", f, a...) }
func (r *recordingReporter) Success(f string, a ...any) { r.add("success", f, a...) }
func (r *recordingReporter) Warn(f string, a ...any)    { r.add("warn", f, a...) }
func (r *recordingReporter) Error(f string, a ...any)   { r.add("error", f, a...) }

func (r *recordingReporter) contains(substr string) bool {
	for _, l := range r.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

type recordingFS struct {
	rename.OSFilesystem
	renames []string
	fail    map[string]error
}

func (f *recordingFS) Rename(oldpath, newpath string) error {
	f.renames = append(f.renames, filepath.Base(oldpath)+" -> "+filepath.Base(newpath))
	if err := f.fail[filepath.Base(oldpath)]; err != nil {
		return err
	}
	return f.OSFilesystem.Rename(oldpath, newpath)
}

type memoryJournal struct {
	entries []media.JournalEntry
	err     error
}

func (j *memoryJournal) Record(ctx context.Context, e media.JournalEntry) error {
	j.entries = append(j.entries, e)
	return j.err
}

func resolve(t *testing.T, key string, mode media.Mode) format.Spec {
	t.Helper()
	s, err := format.Builtin().Resolve(key, mode)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

var matrix = media.Metadata{ID: "tt0133093", Title: "The Matrix", Year: "1999"}

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "movie.mkv")
	touch(t, dir, "show.mp4")
	touch(t, dir, "anime.AVI")
	touch(t, dir, "music.mp3")
	touch(t, dir, "readme.txt")
	touch(t, dir, "clip.m4v")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"anime.AVI", "movie.mkv", "show.mp4"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_NotRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mkv")
	touch(t, dir, "a.mkv")
	os.MkdirAll(filepath.Join(dir, "Season 01"), 0o755)
	touch(t, filepath.Join(dir, "Season 01"), "nested.mkv")
	os.MkdirAll(filepath.Join(dir, "folder.mkv"), 0o755)

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"a.mkv", "b.mkv"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

// --- Run tests ---

func TestRun_DryRunNeverRenames(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "The.Matrix.1999.mkv")
	touch(t, dir, "The Matrix (1999).mkv")

	fs := &recordingFS{}
	rep := &recordingReporter{}
	p := &fakeProvider{results: map[string][]media.Metadata{"The Matrix 1999": {matrix}}}
	r := New(p, &scriptedChooser{}, Options{
		Mode:   media.Movie,
		Format: resolve(t, format.MovieTitleYear, media.Movie),
		DryRun: true,
	}, WithReporter(rep), WithPlanner(rename.NewPlanner(fs)))

	res, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(fs.renames) != 0 {
		t.Errorf("dry run renamed files: %v", fs.renames)
	}
	if want := []string{"The Matrix (1999).mkv", "The.Matrix.1999.mkv"}; !sliceEqual(listDir(t, dir), want) {
		t.Errorf("directory changed: %v", listDir(t, dir))
	}
	if len(res.Candidates) != 1 || res.Candidates[0].ProposedFilename() != "The Matrix (1999).mkv" {
		t.Errorf("candidates = %+v", res.Candidates)
	}
	if !rep.contains("DRY RUN: The.Matrix.1999.mkv -> The Matrix (1999) (1).mkv") {
		t.Errorf("missing dry-run line in %v", rep.lines)
	}
	if !rep.contains("Would use The Matrix (1999) (1).mkv instead") {
		t.Errorf("missing adjustment note in %v", rep.lines)
	}
	if res.Stats.DryRun != 1 || res.Stats.Adjusted != 1 || res.Stats.AlreadyNamed != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRun_SearchUsesQueryAndLimit(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "The.Matrix.1999.mkv")

	p := &fakeProvider{results: map[string][]media.Metadata{"The Matrix 1999": {matrix}}}
	r := New(p, &scriptedChooser{}, Options{
		Mode:   media.Movie,
		Format: resolve(t, format.MovieTitle, media.Movie),
		Limit:  5,
		DryRun: true,
	})

	if _, err := r.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(p.calls) != 1 {
		t.Fatalf("calls = %+v", p.calls)
	}
	if c := p.calls[0]; c.query != "The Matrix 1999" || c.limit != 5 || c.episode != nil {
		t.Errorf("search call = %+v, want (The Matrix 1999, 5)", c)
	}
}

func TestRun_DefaultLimit(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Heat.1995.mkv")

	p := &fakeProvider{}
	r := New(p, &scriptedChooser{}, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)})
	r.Run(context.Background(), dir)

	if len(p.calls) != 1 || p.calls[0].limit != DefaultLimit {
		t.Errorf("calls = %+v, want limit %d", p.calls, DefaultLimit)
	}
}

func TestRun_ExecutesAndJournals(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "The.Matrix.1999.mkv")
	touch(t, dir, "The Matrix (1999).mkv")

	journal := &memoryJournal{}
	p := &fakeProvider{results: map[string][]media.Metadata{"The Matrix 1999": {matrix}}}
	r := New(p, &scriptedChooser{}, Options{
		Mode:   media.Movie,
		Format: resolve(t, format.MovieTitleYear, media.Movie),
	}, WithJournal(journal))

	res, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"The Matrix (1999) (1).mkv", "The Matrix (1999).mkv"}
	if got := listDir(t, dir); !sliceEqual(got, want) {
		t.Errorf("directory = %v, want %v", got, want)
	}
	if res.Stats.Renamed != 1 || res.Stats.Adjusted != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(journal.entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(journal.entries))
	}
	e := journal.entries[0]
	if e.RunID != res.RunID || e.RunID == "" {
		t.Errorf("RunID = %q, result RunID = %q", e.RunID, res.RunID)
	}
	if e.MetadataID != "tt0133093" || e.Format != format.MovieTitleYear || !e.Adjusted {
		t.Errorf("entry = %+v", e)
	}
	if filepath.Base(e.TargetPath) != "The Matrix (1999) (1).mkv" {
		t.Errorf("TargetPath = %q", e.TargetPath)
	}
}

func TestRun_JournalFailureDoesNotStopRun(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Alien.1979.mkv")
	touch(t, dir, "Heat.1995.mkv")

	journal := &memoryJournal{err: errors.New("disk full")}
	p := &fakeProvider{results: map[string][]media.Metadata{
		"Alien 1979": {{ID: "tt0078748", Title: "Alien"}},
		"Heat 1995":  {{ID: "tt0113277", Title: "Heat"}},
	}}
	r := New(p, &scriptedChooser{}, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)}, WithJournal(journal))

	res, _ := r.Run(context.Background(), dir)
	if res.Stats.Renamed != 2 {
		t.Errorf("Renamed = %d, want 2", res.Stats.Renamed)
	}
}

func TestRun_AlreadyNamedIsNotACandidate(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "The Matrix.mkv")

	fs := &recordingFS{}
	rep := &recordingReporter{}
	p := &fakeProvider{results: map[string][]media.Metadata{"The Matrix": {matrix}}}
	r := New(p, &scriptedChooser{}, Options{
		Mode:   media.Movie,
		Format: resolve(t, format.MovieTitle, media.Movie),
	}, WithReporter(rep), WithPlanner(rename.NewPlanner(fs)))

	res, _ := r.Run(context.Background(), dir)
	if len(res.Candidates) != 0 {
		t.Errorf("candidates = %+v, want none", res.Candidates)
	}
	if len(fs.renames) != 0 {
		t.Errorf("renamed an already-named file: %v", fs.renames)
	}
	if !rep.contains("Already matches target format: The Matrix.mkv") {
		t.Errorf("missing already-matches line in %v", rep.lines)
	}
}

func TestRun_SkipAndStop(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.Alien.1979.mkv")
	touch(t, dir, "b.Heat.1995.mkv")
	touch(t, dir, "c.Ran.1985.mkv")

	p := &fakeProvider{results: map[string][]media.Metadata{
		"a Alien 1979": {{Title: "Alien"}},
		"b Heat 1995":  {{Title: "Heat"}},
		"c Ran 1985":   {{Title: "Ran"}},
	}}
	chooser := &scriptedChooser{decisions: []Decision{SkipFile(), StopRun()}}
	fs := &recordingFS{}
	rep := &recordingReporter{}
	r := New(p, chooser, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)},
		WithReporter(rep), WithPlanner(rename.NewPlanner(fs)))

	res, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := []string{"a.Alien.1979.mkv", "b.Heat.1995.mkv"}; !sliceEqual(chooser.files, want) {
		t.Errorf("chooser saw %v, want %v", chooser.files, want)
	}
	if len(p.calls) != 2 {
		t.Errorf("third file was searched after stop: %+v", p.calls)
	}
	if len(fs.renames) != 0 || len(res.Candidates) != 0 {
		t.Errorf("renames = %v, candidates = %v", fs.renames, res.Candidates)
	}
	if !res.Stats.Stopped || res.Stats.Skipped != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if !rep.contains("Processing stopped by user.") {
		t.Errorf("missing stop line in %v", rep.lines)
	}
}

func TestRun_NoMatches(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Obscure.Film.2001.mkv")
	touch(t, dir, "1080p.x264.mkv")

	chooser := &scriptedChooser{}
	rep := &recordingReporter{}
	p := &fakeProvider{}
	r := New(p, chooser, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)}, WithReporter(rep))

	res, _ := r.Run(context.Background(), dir)
	if len(chooser.files) != 0 {
		t.Errorf("chooser called without matches: %v", chooser.files)
	}
	if len(p.calls) != 1 {
		t.Errorf("empty query should not be searched: %+v", p.calls)
	}
	if !rep.contains("No matches found for Obscure.Film.2001.mkv") || !rep.contains("No searchable query for 1080p.x264.mkv") {
		t.Errorf("lines = %v", rep.lines)
	}
	if res.Stats.NoMatches != 2 {
		t.Errorf("NoMatches = %d, want 2", res.Stats.NoMatches)
	}
}

func TestRun_SearchErrorContinues(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Heat.1995.mkv")

	rep := &recordingReporter{}
	p := &fakeProvider{searchErr: provider.ErrRateLimited}
	r := New(p, &scriptedChooser{}, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)}, WithReporter(rep))

	res, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rep.contains("Search failed") || res.Stats.NoMatches != 1 {
		t.Errorf("lines = %v, stats = %+v", rep.lines, res.Stats)
	}
}

func TestRun_TVPrefersEpisodeSearch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "The.Expanse.S02E03.1080p.mkv")

	p := &fakeProvider{
		results:        map[string][]media.Metadata{"The Expanse": {{ID: "280619", Title: "The Expanse"}}},
		episodeResults: map[string][]media.Metadata{"The Expanse": {{ID: "280619", Title: "The Expanse", EpisodeTitle: "Static"}}},
	}
	r := New(p, &scriptedChooser{}, Options{Mode: media.TV, Format: resolve(t, format.ShowEpisodeNumbers, media.TV)})

	res, _ := r.Run(context.Background(), dir)
	if len(p.calls) != 1 || p.calls[0].episode == nil || *p.calls[0].episode != (media.EpisodeNumber{Season: 2, Episode: 3}) {
		t.Fatalf("calls = %+v, want one episode search", p.calls)
	}
	if got := listDir(t, dir); !sliceEqual(got, []string{"The Expanse - Static - S02E03.mkv"}) {
		t.Errorf("directory = %v", got)
	}
	if len(res.Candidates) != 1 {
		t.Errorf("candidates = %d", len(res.Candidates))
	}
}

func TestRun_TVFallsBackToPlainSearch(t *testing.T) {
	tests := []struct {
		name       string
		episodeErr error
	}{
		{"unsupported", provider.ErrUnsupported},
		{"failure", errors.New("boom")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, "The.Expanse.S02E03.mkv")

			p := &fakeProvider{
				results:    map[string][]media.Metadata{"The Expanse": {{Title: "The Expanse"}}},
				episodeErr: tt.episodeErr,
			}
			r := New(p, &scriptedChooser{}, Options{Mode: media.TV, Format: resolve(t, format.ShowNumbers, media.TV), DryRun: true})

			res, _ := r.Run(context.Background(), dir)
			if len(p.calls) != 2 || p.calls[1].episode != nil {
				t.Fatalf("calls = %+v, want episode then plain search", p.calls)
			}
			if len(res.Candidates) != 1 || res.Candidates[0].ProposedFilename() != "The Expanse - S02E03.mkv" {
				t.Errorf("candidates = %+v", res.Candidates)
			}
		})
	}
}

func TestRun_MovieModeSkipsEpisodeSearch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "The.Expanse.S02E03.mkv")

	p := &fakeProvider{}
	r := New(p, &scriptedChooser{}, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)})
	r.Run(context.Background(), dir)

	if len(p.calls) != 1 || p.calls[0].episode != nil {
		t.Errorf("calls = %+v, want a single plain search", p.calls)
	}
}

func TestRun_RenameFailureContinues(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Alien.1979.mkv")
	touch(t, dir, "Heat.1995.mkv")

	fs := &recordingFS{fail: map[string]error{"Alien.1979.mkv": os.ErrPermission}}
	rep := &recordingReporter{}
	p := &fakeProvider{results: map[string][]media.Metadata{
		"Alien 1979": {{Title: "Alien"}},
		"Heat 1995":  {{Title: "Heat"}},
	}}
	r := New(p, &scriptedChooser{}, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)},
		WithReporter(rep), WithPlanner(rename.NewPlanner(fs)))

	res, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stats.Failed != 1 || res.Stats.Renamed != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.Candidates) != 2 {
		t.Errorf("failed rename should still be an accepted candidate, got %d", len(res.Candidates))
	}
	if !rep.contains("Failed to rename Alien.1979.mkv") {
		t.Errorf("lines = %v", rep.lines)
	}
	if got := listDir(t, dir); !sliceEqual(got, []string{"Alien.1979.mkv", "Heat.mkv"}) {
		t.Errorf("directory = %v", got)
	}
}

func TestRun_InvalidSelectionSkips(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Heat.1995.mkv")

	p := &fakeProvider{results: map[string][]media.Metadata{"Heat 1995": {{Title: "Heat"}}}}
	r := New(p, &scriptedChooser{decisions: []Decision{Selected(4)}}, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)})

	res, _ := r.Run(context.Background(), dir)
	if res.Stats.Skipped != 1 || len(res.Candidates) != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRun_ChooserErrorSkips(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Alien.1979.mkv")
	touch(t, dir, "Heat.1995.mkv")

	calls := 0
	chooser := ChooserFunc(func(ctx context.Context, file string, matches []media.Metadata) (Decision, error) {
		calls++
		if calls == 1 {
			return Decision{}, errors.New("terminal went away")
		}
		return Selected(0), nil
	})
	p := &fakeProvider{results: map[string][]media.Metadata{
		"Alien 1979": {{Title: "Alien"}},
		"Heat 1995":  {{Title: "Heat"}},
	}}
	r := New(p, chooser, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie), DryRun: true})

	res, _ := r.Run(context.Background(), dir)
	if res.Stats.Skipped != 1 || res.Stats.DryRun != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Alien.1979.mkv")
	touch(t, dir, "Heat.1995.mkv")

	ctx, cancel := context.WithCancel(context.Background())
	chooser := ChooserFunc(func(context.Context, string, []media.Metadata) (Decision, error) {
		cancel()
		return SkipFile(), nil
	})
	p := &fakeProvider{results: map[string][]media.Metadata{
		"Alien 1979": {{Title: "Alien"}},
		"Heat 1995":  {{Title: "Heat"}},
	}}
	r := New(p, chooser, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)})

	res, _ := r.Run(ctx, dir)
	if !res.Stats.Stopped || len(p.calls) != 1 {
		t.Errorf("stats = %+v, calls = %d", res.Stats, len(p.calls))
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	rep := &recordingReporter{}
	r := New(&fakeProvider{}, &scriptedChooser{}, Options{Mode: media.Movie, Format: resolve(t, format.MovieTitle, media.Movie)}, WithReporter(rep))

	res, err := r.Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stats.Total != 0 || !rep.contains("No media files found") {
		t.Errorf("stats = %+v, lines = %v", res.Stats, rep.lines)
	}
}

func TestRunStats_Processed(t *testing.T) {
	s := RunStats{Renamed: 1, DryRun: 2, Skipped: 3, NoMatches: 4, AlreadyNamed: 5, Failed: 6, Adjusted: 7}
	if got := s.Processed(); got != 21 {
		t.Errorf("Processed() = %d, want 21", got)
	}
}

func TestRun_UnusableTitleSkips(t *testing.T) {
	for _, mode := range []media.Mode{media.Movie, media.TV} {
		t.Run(mode.String(), func(t *testing.T) {
			dir := t.TempDir()
			name, query, key := "Spirited.Away.2001.mkv", "Spirited Away 2001", format.MovieTitle
			if mode == media.TV {
				name, query, key = "Spirited.Away.S01E01.mkv", "Spirited Away", format.ShowEpisodeNumbers
			}
			touch(t, dir, name)

			fs := &recordingFS{}
			rep := &recordingReporter{}
			p := &fakeProvider{results: map[string][]media.Metadata{
				query: {{ID: "tt0245429", Title: "千と千尋の神隠し", Year: "2001"}},
			}}
			r := New(p, &scriptedChooser{}, Options{
				Mode:   mode,
				Format: resolve(t, key, mode),
			}, WithReporter(rep), WithPlanner(rename.NewPlanner(fs)))

			res, err := r.Run(context.Background(), dir)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(fs.renames) != 0 {
				t.Errorf("renamed with an empty title: %v", fs.renames)
			}
			if want := []string{name}; !sliceEqual(listDir(t, dir), want) {
				t.Errorf("directory changed: %v", listDir(t, dir))
			}
			if len(res.Candidates) != 0 {
				t.Errorf("candidates = %+v", res.Candidates)
			}
			if res.Stats.Skipped != 1 {
				t.Errorf("stats = %+v", res.Stats)
			}
			if !rep.contains("No usable title for " + name) {
				t.Errorf("missing warning in %v", rep.lines)
			}
		})
	}
}

func TestRun_ZeroFormatFails(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Heat.1995.mkv")

	r := New(&fakeProvider{}, &scriptedChooser{}, Options{Mode: media.Movie})
	if _, err := r.Run(context.Background(), dir); !errors.Is(err, ErrNoFormat) {
		t.Errorf("Run error = %v, want ErrNoFormat", err)
	}
}
