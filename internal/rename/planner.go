package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem is the slice of the OS the planner touches.
type Filesystem interface {
	Exists(path string) bool
	Rename(oldpath, newpath string) error
}

// OSFilesystem is the real filesystem.
type OSFilesystem struct{}

func (OSFilesystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (OSFilesystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// RenameError reports a failed rename. Err is the underlying OS error.
type RenameError struct {
	From string
	To   string
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("renaming %s to %s: %v", e.From, e.To, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }

// Planner resolves collision-free targets and executes renames.
type Planner struct {
	fs Filesystem
}

// NewPlanner returns a planner backed by fs. A nil fs means the OS.
func NewPlanner(fs Filesystem) *Planner {
	if fs == nil {
		fs = OSFilesystem{}
	}
	return &Planner{fs: fs}
}

// ResolveTarget returns the path the candidate should be renamed to. When the
// proposed path is taken by another file, " (N)" is inserted before the
// extension with the smallest free N, and adjusted is true.
func (p *Planner) ResolveTarget(c Candidate) (target string, adjusted bool) {
	proposed := c.ProposedPath()
	if filepath.Clean(proposed) == filepath.Clean(c.OriginalPath) || !p.fs.Exists(proposed) {
		return proposed, false
	}

	dir := filepath.Dir(proposed)
	base := filepath.Base(proposed)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		next := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if !p.fs.Exists(next) {
			return next, true
		}
	}
}

// Execute moves the candidate's file to target in a single rename call.
// Failures are returned as *RenameError and are not retried.
func (p *Planner) Execute(c Candidate, target string) error {
	if err := p.fs.Rename(c.OriginalPath, target); err != nil {
		return &RenameError{From: c.OriginalPath, To: target, Err: err}
	}
	return nil
}
