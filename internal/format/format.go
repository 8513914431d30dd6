// Package format defines the named output-filename layouts and the registry
// that resolves a configured key to one of them.
package format

import (
	"errors"
	"fmt"
	"strings"

	"deebee/internal/media"
	"deebee/internal/naming"
)

var (
	ErrUnknownFormat      = errors.New("unknown format")
	ErrFormatModeMismatch = errors.New("format does not support mode")
	ErrDuplicateFormat    = errors.New("duplicate format key")
	ErrInvalidFormat      = errors.New("invalid format")
)

// Context carries the already-sanitized values a layout may use.
type Context struct {
	SeriesTitle  string
	EpisodeTitle string
	Year         string
	Episode      *media.EpisodeNumber
}

// Renderer turns a Context into a filename stem. Implementations must be
// pure: the same Context always yields the same output.
type Renderer interface {
	Render(ctx Context) string
}

// RenderFunc adapts a plain function to the Renderer interface.
type RenderFunc func(ctx Context) string

func (f RenderFunc) Render(ctx Context) string { return f(ctx) }

// Spec is a single named layout.
type Spec struct {
	Key      string
	Label    string
	Modes    []media.Mode
	Renderer Renderer
}

// Supports reports whether the layout may be used in mode.
func (s Spec) Supports(mode media.Mode) bool {
	for _, m := range s.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// Render runs the layout and normalizes the result. An empty render falls
// back to the series title.
func (s Spec) Render(ctx Context) string {
	out := naming.CollapseWhitespace(s.Renderer.Render(ctx))
	if out == "" {
		return ctx.SeriesTitle
	}
	return out
}

// ModeNames renders the supported modes as "movie, tv".
func (s Spec) ModeNames() string {
	names := make([]string, len(s.Modes))
	for i, m := range s.Modes {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

// Registry is an immutable, ordered set of layouts with a default per mode.
type Registry struct {
	specs    []Spec
	index    map[string]int
	defaults map[media.Mode]string
}

// NewRegistry validates specs and builds a registry. defaults maps each mode
// to the key used when no format is configured.
func NewRegistry(specs []Spec, defaults map[media.Mode]string) (*Registry, error) {
	r := &Registry{
		specs:    make([]Spec, 0, len(specs)),
		index:    make(map[string]int, len(specs)),
		defaults: make(map[media.Mode]string, len(defaults)),
	}

	for _, s := range specs {
		if s.Key == "" || s.Renderer == nil || len(s.Modes) == 0 {
			return nil, fmt.Errorf("%w: %q needs a key, a renderer and at least one mode", ErrInvalidFormat, s.Key)
		}
		if _, dup := r.index[s.Key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateFormat, s.Key)
		}
		if s.Render(Context{SeriesTitle: "Title"}) == "" {
			return nil, fmt.Errorf("%w: %q renders nothing for a title-only context", ErrInvalidFormat, s.Key)
		}
		r.index[s.Key] = len(r.specs)
		r.specs = append(r.specs, s)
	}

	for mode, key := range defaults {
		if _, err := r.Resolve(key, mode); err != nil {
			return nil, fmt.Errorf("default for %s: %w", mode, err)
		}
		r.defaults[mode] = key
	}

	return r, nil
}

// Resolve returns the layout registered under key, checking that it applies
// to mode.
func (r *Registry) Resolve(key string, mode media.Mode) (Spec, error) {
	i, ok := r.index[key]
	if !ok {
		return Spec{}, fmt.Errorf("%w %q", ErrUnknownFormat, key)
	}
	s := r.specs[i]
	if !s.Supports(mode) {
		return Spec{}, fmt.Errorf("%w: %q is not available for %s", ErrFormatModeMismatch, key, mode)
	}
	return s, nil
}

// ResolveOrDefault resolves key, or the mode's default layout when key is
// empty.
func (r *Registry) ResolveOrDefault(key string, mode media.Mode) (Spec, error) {
	if key == "" {
		key = r.defaults[mode]
	}
	return r.Resolve(key, mode)
}

// Default returns the default layout key for mode, or "" when none is set.
func (r *Registry) Default(mode media.Mode) string {
	return r.defaults[mode]
}

// All returns every layout in registration order.
func (r *Registry) All() []Spec {
	out := make([]Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// List returns the layouts applicable to mode, in registration order.
func (r *Registry) List(mode media.Mode) []Spec {
	var out []Spec
	for _, s := range r.specs {
		if s.Supports(mode) {
			out = append(out, s)
		}
	}
	return out
}
