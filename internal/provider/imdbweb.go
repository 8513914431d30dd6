package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"deebee/internal/httputil"
	"deebee/internal/media"
)

// DefaultIMDbWebBaseURL is the public IMDb site.
const DefaultIMDbWebBaseURL = "https://www.imdb.com"

// IMDbWeb searches titles by scraping the IMDb find page. It needs no API
// key.
type IMDbWeb struct {
	baseURL string
	client  *http.Client
	limiter *httputil.Limiter
	logger  zerolog.Logger
}

// NewIMDbWeb creates an IMDb web provider.
func NewIMDbWeb(opts Options) *IMDbWeb {
	base := opts.BaseURL
	if base == "" {
		base = DefaultIMDbWebBaseURL
	}
	return &IMDbWeb{
		baseURL: strings.TrimRight(base, "/"),
		client:  opts.client(),
		limiter: opts.limiter(),
		logger:  opts.Logger.With().Str("component", "imdbweb").Logger(),
	}
}

func (w *IMDbWeb) Name() string { return "imdbweb" }

// Search fetches /find/?q=<query>&s=tt and parses the title results.
func (w *IMDbWeb) Search(ctx context.Context, query string, limit int) ([]media.Metadata, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("s", "tt")

	doc, err := w.fetchDocument(ctx, httputil.BuildURL(w.baseURL, params, "find", ""))
	if err != nil {
		return nil, fmt.Errorf("imdb web search %q: %w", query, err)
	}

	results := parseFindResults(doc)

	w.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("IMDb find page parsed")

	return truncate(results, limit), nil
}

// SearchEpisode is not supported by the find page.
func (w *IMDbWeb) SearchEpisode(ctx context.Context, query string, ep media.EpisodeNumber, limit int) ([]media.Metadata, error) {
	return nil, ErrUnsupported
}

// fetchDocument fetches a URL and parses it as an HTML document.
func (w *IMDbWeb) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := httputil.Get(ctx, w.client, rawURL)
	if err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) {
			return nil, statusError(statusErr.StatusCode)
		}
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
