// Package config handles TOML-based configuration loading and validation.
// TOML is parsed as data only; nothing in the file is executed.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"deebee/internal/httputil"
	"deebee/internal/media"
)

const appName = "deebee"

// Environment variables that override API keys from the config file.
const (
	EnvIMDbAPIKey = "DEEBEE_IMDB_API_KEY"
	EnvTVDBAPIKey = "DEEBEE_TVDB_API_KEY"
)

// Config holds all application configuration.
type Config struct {
	Mode      string  `toml:"mode"`
	Format    string  `toml:"format"`
	Limit     int     `toml:"limit"`
	Provider  string  `toml:"provider"`
	Chooser   string  `toml:"chooser"`
	DryRun    bool    `toml:"dry_run"`
	History   bool    `toml:"history"`
	Debug     bool    `toml:"debug"`
	LogFile   string  `toml:"log_file"`
	RateLimit float64 `toml:"rate_limit"`

	IMDb    IMDbConfig    `toml:"imdb"`
	TVDB    TVDBConfig    `toml:"tvdb"`
	IMDbWeb IMDbWebConfig `toml:"imdbweb"`
}

// IMDbConfig configures the imdbapi.dev provider.
type IMDbConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// TVDBConfig configures TheTVDB provider.
type TVDBConfig struct {
	APIKey  string `toml:"api_key"`
	PIN     string `toml:"pin"`
	BaseURL string `toml:"base_url"`
}

// IMDbWebConfig configures the IMDb find-page provider.
type IMDbWebConfig struct {
	BaseURL string `toml:"base_url"`
}

// MaxLimit is the largest number of matches requested per file.
const MaxLimit = 50

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Mode:      "movie",
		Format:    "",
		Limit:     10,
		Provider:  "imdb",
		Chooser:   "auto",
		DryRun:    true,
		History:   true,
		Debug:     false,
		RateLimit: 5,
		IMDb:      IMDbConfig{BaseURL: "https://imdbapi.dev/api"},
		TVDB:      TVDBConfig{BaseURL: "https://api4.thetvdb.com/v4"},
		IMDbWeb:   IMDbWebConfig{BaseURL: "https://www.imdb.com"},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults and environment
// overrides. If the config file doesn't exist, defaults are used. The
// result is not validated: callers apply their own overrides first and then
// call Validate.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvIMDbAPIKey); v != "" {
		c.IMDb.APIKey = v
	}
	if v := os.Getenv(EnvTVDBAPIKey); v != "" {
		c.TVDB.APIKey = v
	}
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if _, err := media.ParseMode(c.Mode); err != nil {
		return err
	}

	validProviders := map[string]bool{
		"imdb": true, "tvdb": true, "imdbweb": true,
	}
	if !validProviders[strings.ToLower(c.Provider)] {
		return fmt.Errorf("unsupported provider %q (valid: imdb, tvdb, imdbweb)", c.Provider)
	}

	validChoosers := map[string]bool{
		"auto": true, "fzf": true, "tui": true, "first": true,
	}
	if !validChoosers[strings.ToLower(c.Chooser)] {
		return fmt.Errorf("unsupported chooser %q (valid: auto, fzf, tui, first)", c.Chooser)
	}

	if c.Limit < 1 || c.Limit > MaxLimit {
		return fmt.Errorf("limit %d out of range (1-%d)", c.Limit, MaxLimit)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}

	for name, base := range map[string]string{
		"imdb": c.IMDb.BaseURL, "tvdb": c.TVDB.BaseURL, "imdbweb": c.IMDbWeb.BaseURL,
	} {
		if base == "" {
			return fmt.Errorf("%s base_url cannot be empty", name)
		}
		if err := httputil.ValidateURL(base); err != nil {
			return fmt.Errorf("%s base_url: %w", name, err)
		}
	}

	if strings.EqualFold(c.Provider, "tvdb") && c.TVDB.APIKey == "" {
		return fmt.Errorf("provider tvdb requires tvdb.api_key or %s", EnvTVDBAPIKey)
	}

	return nil
}

// HistoryPath returns the path to the rename journal database.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName, "history.db"), nil
}
