package format

import (
	"fmt"
	"strings"

	"deebee/internal/media"
)

// Built-in layout keys.
const (
	MovieTitle         = "movie_title"
	MovieTitleYear     = "movie_title_year"
	ShowEpisodeNumbers = "show_episode_numbers"
	ShowNumbers        = "show_numbers"
	ShowEpisode        = "show_episode"
	ShowOnly           = "show_only"
)

var (
	movieOnly = []media.Mode{media.Movie}
	tvOnly    = []media.Mode{media.TV}
)

// BuiltinSpecs returns the stock movie and TV layouts in display order.
func BuiltinSpecs() []Spec {
	return []Spec{
		{Key: MovieTitle, Label: "Movie Title", Modes: movieOnly, Renderer: RenderFunc(renderTitle)},
		{Key: MovieTitleYear, Label: "Movie Title (Year)", Modes: movieOnly, Renderer: RenderFunc(renderTitleYear)},
		{Key: ShowEpisodeNumbers, Label: "TV Show Name - Episode Name - S##E##", Modes: tvOnly, Renderer: RenderFunc(renderShowEpisodeNumbers)},
		{Key: ShowNumbers, Label: "TV Show Name - S##E##", Modes: tvOnly, Renderer: RenderFunc(renderShowNumbers)},
		{Key: ShowEpisode, Label: "TV Show Name - Episode Name", Modes: tvOnly, Renderer: RenderFunc(renderShowEpisode)},
		{Key: ShowOnly, Label: "TV Show Name", Modes: tvOnly, Renderer: RenderFunc(renderTitle)},
	}
}

// BuiltinDefaults maps each mode to its stock layout.
func BuiltinDefaults() map[media.Mode]string {
	return map[media.Mode]string{
		media.Movie: MovieTitle,
		media.TV:    ShowEpisodeNumbers,
	}
}

// Builtin returns a registry holding the stock layouts.
func Builtin() *Registry {
	r, err := NewRegistry(BuiltinSpecs(), BuiltinDefaults())
	if err != nil {
		panic(fmt.Sprintf("format: invalid built-in registry: %v", err))
	}
	return r
}

func renderTitle(ctx Context) string {
	return ctx.SeriesTitle
}

func renderTitleYear(ctx Context) string {
	if ctx.Year == "" {
		return ctx.SeriesTitle
	}
	return fmt.Sprintf("%s (%s)", ctx.SeriesTitle, ctx.Year)
}

func renderShowEpisodeNumbers(ctx Context) string {
	parts := []string{ctx.SeriesTitle}
	if ctx.EpisodeTitle != "" {
		parts = append(parts, ctx.EpisodeTitle)
	}
	if ctx.Episode != nil {
		parts = append(parts, ctx.Episode.Marker())
	}
	return joinNonEmpty(parts, " - ")
}

func renderShowNumbers(ctx Context) string {
	if ctx.Episode == nil {
		return ctx.SeriesTitle
	}
	return joinNonEmpty([]string{ctx.SeriesTitle, ctx.Episode.Marker()}, " - ")
}

func renderShowEpisode(ctx Context) string {
	return joinNonEmpty([]string{ctx.SeriesTitle, ctx.EpisodeTitle}, " - ")
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
