// Package rename computes target filenames for chosen matches and performs
// collision-safe renames.
package rename

import (
	"path/filepath"
	"strings"

	"deebee/internal/format"
	"deebee/internal/media"
	"deebee/internal/naming"
)

// Candidate pairs an existing file with the match the user picked and the
// layout to render it with. Proposed names are derived on every call.
type Candidate struct {
	OriginalPath string
	Metadata     media.Metadata
	Format       format.Spec
	Episode      *media.EpisodeNumber
}

// Context builds the sanitized render context for the candidate.
func (c Candidate) Context() format.Context {
	return format.Context{
		SeriesTitle:  naming.SanitizeTitle(c.Metadata.Title),
		EpisodeTitle: naming.SanitizeTitle(c.Metadata.EpisodeTitle),
		Year:         c.Metadata.Year,
		Episode:      c.Episode,
	}
}

// ProposedFilename renders the new base name, keeping the original
// extension verbatim. When episode numbers are known the S##E## marker is
// always present in the result, whatever the layout.
func (c Candidate) ProposedFilename() string {
	name := c.Format.Render(c.Context())
	if c.Episode != nil {
		if marker := c.Episode.Marker(); !strings.Contains(name, marker) {
			name += " " + marker
		}
	}
	return name + filepath.Ext(c.OriginalPath)
}

// ProposedPath places ProposedFilename next to the original file.
func (c Candidate) ProposedPath() string {
	return filepath.Join(filepath.Dir(c.OriginalPath), c.ProposedFilename())
}

// AlreadyNamed reports whether the file already carries its proposed name.
func (c Candidate) AlreadyNamed() bool {
	return filepath.Clean(c.ProposedPath()) == filepath.Clean(c.OriginalPath)
}
