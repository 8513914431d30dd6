// Package provider defines the metadata search interface and its
// implementations.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"deebee/internal/httputil"
	"deebee/internal/media"
)

var (
	ErrAPIKeyMissing = errors.New("API key is not configured")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrAPIError      = errors.New("API error")
	ErrUnsupported   = errors.New("operation not supported by provider")
)

// Provider is the interface metadata sources must implement.
type Provider interface {
	// Name returns the provider's config key.
	Name() string

	// Search returns up to limit matches for a free-text query. A blank
	// query yields no results and no request.
	Search(ctx context.Context, query string, limit int) ([]media.Metadata, error)

	// SearchEpisode looks up a specific episode of the series matching
	// query. Results carry EpisodeTitle when the source knows it. Sources
	// without episode data return ErrUnsupported.
	SearchEpisode(ctx context.Context, query string, ep media.EpisodeNumber, limit int) ([]media.Metadata, error)
}

// Options configures a provider built by New.
type Options struct {
	APIKey     string
	PIN        string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *httputil.Limiter
	Logger     zerolog.Logger
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return httputil.NewClient()
}

func (o Options) limiter() *httputil.Limiter {
	if o.Limiter != nil {
		return o.Limiter
	}
	return httputil.NewLimiter(0)
}

// Names lists the provider keys New accepts.
var Names = []string{"imdb", "tvdb", "imdbweb"}

// New creates the provider registered under name.
func New(name string, opts Options) (Provider, error) {
	switch strings.ToLower(name) {
	case "imdb":
		return NewIMDb(opts), nil
	case "tvdb":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("tvdb: %w", ErrAPIKeyMissing)
		}
		return NewTVDB(opts), nil
	case "imdbweb":
		return NewIMDbWeb(opts), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q (valid: %s)", name, strings.Join(Names, ", "))
	}
}

// statusError maps a non-2xx response status to a sentinel.
func statusError(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, status)
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("%w: status %d", ErrAPIError, status)
	}
}

func truncate(results []media.Metadata, limit int) []media.Metadata {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// yearString reads a year that may arrive as a JSON number, a bare year
// string or a date such as "2015-12-14".
func yearString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil || n <= 0 {
			return ""
		}
		return strconv.Itoa(n)
	}
	year, _, _ := strings.Cut(strings.TrimSpace(s), "-")
	return year
}
