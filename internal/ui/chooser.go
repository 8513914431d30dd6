package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"deebee/internal/media"
	"deebee/internal/pipeline"
)

// Chooser names accepted by NewChooser.
const (
	ChooserAuto  = "auto"
	ChooserFzf   = "fzf"
	ChooserTUI   = "tui"
	ChooserFirst = "first"
)

const (
	skipLabel = "[skip this file]"
	stopLabel = "[stop processing]"
)

// FzfChooser picks matches through fzf. Dismissing fzf skips the file.
type FzfChooser struct {
	selectFn func(ctx context.Context, prompt string, items []string) (int, error)
}

// NewFzfChooser returns a chooser backed by the fzf binary.
func NewFzfChooser() *FzfChooser {
	return &FzfChooser{selectFn: Select}
}

// Choose implements pipeline.Chooser.
func (c *FzfChooser) Choose(ctx context.Context, file string, matches []media.Metadata) (pipeline.Decision, error) {
	items := make([]string, 0, len(matches)+2)
	for _, m := range matches {
		items = append(items, m.DisplayText())
	}
	items = append(items, skipLabel, stopLabel)

	idx, err := c.selectFn(ctx, filepath.Base(file), items)
	switch {
	case errors.Is(err, ErrCancelled):
		return pipeline.SkipFile(), nil
	case err != nil:
		return pipeline.Decision{}, err
	case idx == len(matches):
		return pipeline.SkipFile(), nil
	case idx == len(matches)+1:
		return pipeline.StopRun(), nil
	}
	return pipeline.Selected(idx), nil
}

// FirstChooser always takes the top match, for unattended runs.
type FirstChooser struct{}

// Choose implements pipeline.Chooser.
func (FirstChooser) Choose(_ context.Context, _ string, matches []media.Metadata) (pipeline.Decision, error) {
	if len(matches) == 0 {
		return pipeline.SkipFile(), nil
	}
	return pipeline.Selected(0), nil
}

// NewChooser builds the chooser called name. "auto" prefers fzf, then the
// terminal picker, and falls back to FirstChooser when in is not a terminal.
func NewChooser(name string, in *os.File, out io.Writer) (pipeline.Chooser, error) {
	switch strings.ToLower(name) {
	case ChooserFzf:
		if _, err := exec.LookPath("fzf"); err != nil {
			return nil, fmt.Errorf("fzf not found in PATH: %w", err)
		}
		return NewFzfChooser(), nil
	case ChooserTUI:
		return NewTUIChooser(in, out), nil
	case ChooserFirst:
		return FirstChooser{}, nil
	case ChooserAuto, "":
		if !IsTerminal(in) {
			return FirstChooser{}, nil
		}
		if _, err := exec.LookPath("fzf"); err == nil {
			return NewFzfChooser(), nil
		}
		return NewTUIChooser(in, out), nil
	default:
		return nil, fmt.Errorf("unknown chooser %q (valid: auto, fzf, tui, first)", name)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
