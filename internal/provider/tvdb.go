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
	"sync"
	"time"

	"github.com/rs/zerolog"

	"deebee/internal/httputil"
	"deebee/internal/media"
)

// DefaultTVDBBaseURL is TheTVDB v4 API root.
const DefaultTVDBBaseURL = "https://api4.thetvdb.com/v4"

const (
	// tokenTTL is how long a login token is reused before logging in again.
	tokenTTL = 50 * time.Minute

	// maxTVDBResults is the largest page TheTVDB search returns.
	maxTVDBResults = 50

	// episodeLookups caps how many series get a per-episode request.
	episodeLookups = 3
)

// TVDB searches series and episodes through TheTVDB v4 API.
type TVDB struct {
	baseURL string
	apiKey  string
	pin     string
	client  *http.Client
	limiter *httputil.Limiter
	logger  zerolog.Logger
	now     func() time.Time

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time
}

// NewTVDB creates a TheTVDB provider. opts.APIKey is required.
func NewTVDB(opts Options) *TVDB {
	base := opts.BaseURL
	if base == "" {
		base = DefaultTVDBBaseURL
	}
	return &TVDB{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  opts.APIKey,
		pin:     opts.PIN,
		client:  opts.client(),
		limiter: opts.limiter(),
		logger:  opts.Logger.With().Str("component", "tvdb").Logger(),
		now:     time.Now,
	}
}

func (c *TVDB) Name() string { return "tvdb" }

type tvdbLoginRequest struct {
	APIKey string `json:"apikey"`
	PIN    string `json:"pin,omitempty"`
}

type tvdbLoginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type tvdbSearchResponse struct {
	Data []tvdbSeries `json:"data"`
}

type tvdbSeries struct {
	ID           json.RawMessage `json:"id"`
	TvdbID       string          `json:"tvdb_id"`
	Name         string          `json:"name"`
	SeriesName   string          `json:"seriesName"`
	Slug         string          `json:"slug"`
	Translations map[string]any  `json:"translations"`
	FirstAired   string          `json:"firstAired"`
	Year         json.RawMessage `json:"year"`
}

type tvdbEpisodesResponse struct {
	Data struct {
		Episodes []tvdbEpisode `json:"episodes"`
	} `json:"data"`
}

type tvdbEpisode struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"seasonNumber"`
	Number       int    `json:"number"`
}

// authenticate returns a valid bearer token, logging in when none is cached
// or the cached one is stale.
func (c *TVDB) authenticate(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var resp tvdbLoginResponse
	req := tvdbLoginRequest{APIKey: c.apiKey, PIN: c.pin}
	if err := httputil.DoJSON(ctx, c.client, http.MethodPost, c.baseURL+"/login", nil, req, &resp); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) {
			c.logger.Error().Int("status", statusErr.StatusCode).Msg("TVDB authentication failed")
			return "", fmt.Errorf("tvdb login: %w", statusError(statusErr.StatusCode))
		}
		return "", fmt.Errorf("tvdb login: %w", err)
	}
	if resp.Data.Token == "" {
		return "", fmt.Errorf("tvdb login: %w: response did not include a token", ErrUnauthorized)
	}

	c.token = resp.Data.Token
	c.tokenExpiry = c.now().Add(tokenTTL)

	c.logger.Debug().Msg("TVDB authentication successful")
	return c.token, nil
}

func (c *TVDB) invalidate() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// get performs an authenticated GET. A 401 clears the token and the request
// is retried once with a fresh login.
func (c *TVDB) get(ctx context.Context, endpoint string, out any) error {
	for attempt := 0; ; attempt++ {
		token, err := c.authenticate(ctx)
		if err != nil {
			return err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		header := http.Header{}
		header.Set("Authorization", "Bearer "+token)

		err = httputil.GetJSON(ctx, c.client, endpoint, header, out)
		var statusErr *httputil.StatusError
		if !errors.As(err, &statusErr) {
			return err
		}
		if statusErr.StatusCode == http.StatusUnauthorized && attempt == 0 {
			c.logger.Debug().Msg("TVDB token rejected, logging in again")
			c.invalidate()
			continue
		}
		return statusError(statusErr.StatusCode)
	}
}

// Search queries /search?q=<query>&type=series.
func (c *TVDB) Search(ctx context.Context, query string, limit int) ([]media.Metadata, error) {
	if strings.TrimSpace(query) == "" {
		c.logger.Debug().Msg("Ignoring blank search query")
		return nil, nil
	}

	limit = min(max(limit, 1), maxTVDBResults)

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "series")

	var resp tvdbSearchResponse
	if err := c.get(ctx, httputil.BuildURL(c.baseURL, params, "search"), &resp); err != nil {
		return nil, fmt.Errorf("tvdb search %q: %w", query, err)
	}

	results := make([]media.Metadata, 0, len(resp.Data))
	for _, item := range resp.Data {
		results = append(results, item.metadata())
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(results)).
		Msg("TV search completed")

	return truncate(results, limit), nil
}

// SearchEpisode searches the series and then fetches the requested episode
// for the best few matches. Series whose episode lookup fails are still
// returned, without an episode title.
func (c *TVDB) SearchEpisode(ctx context.Context, query string, ep media.EpisodeNumber, limit int) ([]media.Metadata, error) {
	series, err := c.Search(ctx, query, limit)
	if err != nil || len(series) == 0 {
		return series, err
	}

	for i := range series {
		if i >= episodeLookups {
			break
		}
		if err := httputil.ValidateNumericID(series[i].ID); err != nil {
			continue
		}
		name, err := c.episodeTitle(ctx, series[i].ID, ep)
		if err != nil {
			c.logger.Debug().Err(err).
				Str("series", series[i].ID).
				Str("episode", ep.Marker()).
				Msg("Episode lookup failed")
			continue
		}
		series[i].EpisodeTitle = name
	}

	return series, nil
}

func (c *TVDB) episodeTitle(ctx context.Context, seriesID string, ep media.EpisodeNumber) (string, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(ep.Season))
	params.Set("episodeNumber", strconv.Itoa(ep.Episode))
	endpoint := httputil.BuildURL(c.baseURL, params, "series", seriesID, "episodes", "default")

	var resp tvdbEpisodesResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return "", err
	}

	episode, ok := pickEpisode(resp.Data.Episodes, ep)
	if !ok {
		return "", ErrNotFound
	}
	return episode.Name, nil
}

// pickEpisode prefers the entry whose numbers match exactly and otherwise
// takes the first one returned.
func pickEpisode(episodes []tvdbEpisode, ep media.EpisodeNumber) (tvdbEpisode, bool) {
	for _, e := range episodes {
		if e.SeasonNumber == ep.Season && e.Number == ep.Episode {
			return e, true
		}
	}
	if len(episodes) > 0 {
		return episodes[0], true
	}
	return tvdbEpisode{}, false
}

func (s tvdbSeries) metadata() media.Metadata {
	return media.Metadata{
		ID:    s.id(),
		Title: s.title(),
		Year:  s.year(),
	}
}

func (s tvdbSeries) id() string {
	if s.TvdbID != "" {
		return s.TvdbID
	}
	var str string
	if err := json.Unmarshal(s.ID, &str); err == nil {
		return strings.TrimPrefix(str, "series-")
	}
	var n int
	if err := json.Unmarshal(s.ID, &n); err == nil && n > 0 {
		return strconv.Itoa(n)
	}
	return ""
}

func (s tvdbSeries) title() string {
	for _, name := range []string{s.Name, s.SeriesName} {
		if name != "" {
			return name
		}
	}
	for _, key := range []string{"name", "eng"} {
		if name, ok := s.Translations[key].(string); ok && name != "" {
			return name
		}
	}
	return s.Slug
}

func (s tvdbSeries) year() string {
	if s.FirstAired != "" {
		year, _, _ := strings.Cut(s.FirstAired, "-")
		return year
	}
	return yearString(s.Year)
}
