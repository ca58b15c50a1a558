package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Generator   GeneratorConfig   `toml:"generator"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Lastfm  LastfmConfig  `toml:"lastfm"`
}

// SpotifyConfig contains Spotify API credentials (client credentials flow).
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// LastfmConfig contains the Last.fm API key used for playcount lookups.
type LastfmConfig struct {
	APIKey string `toml:"api_key"`
}

// DatabaseConfig contains run-history database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// GeneratorConfig contains default limits for entry resolution.
type GeneratorConfig struct {
	ArtistLimit      int `toml:"artist_limit"`       // related artists considered by #SIMILAR
	TracksPerArtist  int `toml:"tracks_per_artist"`  // top tracks per related artist
	ThrottleMillis   int `toml:"throttle_millis"`    // delay between outbound catalog calls
	ScrapePageLimit  int `toml:"scrape_page_limit"`  // hard cap on scraper pagination
	ScrapeDepthLimit int `toml:"scrape_depth_limit"` // recursion cap for scraped scripts
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
//
// Environment variables (SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET, LASTFM_API_KEY) override file values.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv overlays credential environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("LASTFM_API_KEY"); v != "" {
		c.Credentials.Lastfm.APIKey = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
