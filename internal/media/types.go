// Package media defines shared types for the deebee application.
package media

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects whether a directory holds movies or TV episodes.
type Mode int

const (
	Movie Mode = iota
	TV
)

func (m Mode) String() string {
	switch m {
	case Movie:
		return "movie"
	case TV:
		return "tv"
	default:
		return "unknown"
	}
}

// ParseMode converts a config or flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return Movie, nil
	case "tv", "show", "shows":
		return TV, nil
	default:
		return Movie, fmt.Errorf("unsupported mode %q (valid: movie, tv)", s)
	}
}

// EpisodeNumber is a season/episode pair. It is always carried as a whole:
// a file either has both numbers or neither.
type EpisodeNumber struct {
	Season  int
	Episode int
}

// Marker renders the pair as S##E##.
func (e EpisodeNumber) Marker() string {
	return fmt.Sprintf("S%02dE%02d", e.Season, e.Episode)
}

// SearchQuery is what the filename parser extracts from a file stem.
type SearchQuery struct {
	Query   string
	Episode *EpisodeNumber // nil when no season/episode marker was found
}

// Metadata is a single search match returned by a provider.
type Metadata struct {
	ID           string // Provider-specific ID (e.g., "tt0133093" or "81189")
	Title        string // Movie or series title
	Year         string // Release or first-aired year, empty when unknown
	EpisodeTitle string // Episode name (TV episode lookups only)
}

// DisplayText renders the match for a chooser list.
func (m Metadata) DisplayText() string {
	text := m.Title
	if m.Year != "" {
		text = fmt.Sprintf("%s (%s)", text, m.Year)
	}
	if m.EpisodeTitle != "" {
		text += " - " + m.EpisodeTitle
	}
	return text
}

// JournalEntry records one executed rename.
type JournalEntry struct {
	RunID        string    // Groups entries produced by the same run
	OriginalPath string    // Path before the rename
	TargetPath   string    // Path after the rename
	MetadataID   string    // Provider ID of the chosen match
	Title        string    // Title of the chosen match
	Format       string    // Format key used to render the name
	Adjusted     bool      // True when a " (N)" suffix avoided an overwrite
	RenamedAt    time.Time // When the rename happened
}
