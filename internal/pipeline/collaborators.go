package pipeline

import (
	"context"

	"deebee/internal/media"
)

// Action is what a chooser decided for one file.
type Action int

const (
	// Select renames the file after the match at Decision.Index.
	Select Action = iota
	// Skip leaves the file alone and moves on.
	Skip
	// Stop leaves the file alone and ends the run.
	Stop
)

func (a Action) String() string {
	switch a {
	case Select:
		return "select"
	case Skip:
		return "skip"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Decision is a chooser's answer.
type Decision struct {
	Action Action
	Index  int
}

// Selected returns a decision picking matches[i].
func Selected(i int) Decision { return Decision{Action: Select, Index: i} }

// SkipFile returns a decision to skip the current file.
func SkipFile() Decision { return Decision{Action: Skip} }

// StopRun returns a decision to stop processing.
func StopRun() Decision { return Decision{Action: Stop} }

// Chooser picks one of the search matches for a file.
type Chooser interface {
	Choose(ctx context.Context, file string, matches []media.Metadata) (Decision, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(ctx context.Context, file string, matches []media.Metadata) (Decision, error)

func (f ChooserFunc) Choose(ctx context.Context, file string, matches []media.Metadata) (Decision, error) {
	return f(ctx, file, matches)
}

// Reporter receives human-readable progress lines. It must not influence
// control flow.
type Reporter interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Journal records executed renames.
type Journal interface {
	Record(ctx context.Context, entry media.JournalEntry) error
}

type nopReporter struct{}

func (nopReporter) Info(string, ...any)    {}
func (nopReporter) Success(string, ...any) {}
func (nopReporter) Warn(string, ...any)    {}
func (nopReporter) Error(string, ...any)   {}
