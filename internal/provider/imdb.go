package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"deebee/internal/httputil"
	"deebee/internal/media"
)

// DefaultIMDbBaseURL is the imdbapi.dev API root.
const DefaultIMDbBaseURL = "https://imdbapi.dev/api"

// IMDb searches titles through the imdbapi.dev JSON API.
type IMDb struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *httputil.Limiter
	logger  zerolog.Logger
}

// NewIMDb creates an imdbapi.dev provider.
func NewIMDb(opts Options) *IMDb {
	base := opts.BaseURL
	if base == "" {
		base = DefaultIMDbBaseURL
	}
	return &IMDb{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  opts.APIKey,
		client:  opts.client(),
		limiter: opts.limiter(),
		logger:  opts.Logger.With().Str("component", "imdb").Logger(),
	}
}

func (c *IMDb) Name() string { return "imdb" }

type imdbSearchResponse struct {
	Results []imdbTitle `json:"results"`
}

type imdbTitle struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Year  json.RawMessage `json:"year"`
}

// Search queries /search?search=<query>&limit=<limit>.
func (c *IMDb) Search(ctx context.Context, query string, limit int) ([]media.Metadata, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(limit))
	endpoint := httputil.BuildURL(c.baseURL, params, "search")

	header := http.Header{}
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}

	var resp imdbSearchResponse
	if err := httputil.GetJSON(ctx, c.client, endpoint, header, &resp); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("imdb search %q: %w", query, statusError(statusErr.StatusCode))
		}
		return nil, fmt.Errorf("imdb search %q: %w", query, err)
	}

	results := make([]media.Metadata, 0, len(resp.Results))
	for _, item := range resp.Results {
		results = append(results, media.Metadata{
			ID:    item.ID,
			Title: item.Title,
			Year:  yearString(item.Year),
		})
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("IMDb search completed")

	return truncate(results, limit), nil
}

// SearchEpisode is not offered by imdbapi.dev.
func (c *IMDb) SearchEpisode(ctx context.Context, query string, ep media.EpisodeNumber, limit int) ([]media.Metadata, error) {
	return nil, ErrUnsupported
}
