package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"mixdown/internal/catalog"
	"mixdown/internal/lastfm"
	"mixdown/internal/scrape"
	"mixdown/internal/shared"
)

func main() {
	// Credentials may come from a .env file instead of the config.
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	throttle := time.Duration(config.Generator.ThrottleMillis) * time.Millisecond

	var catalogClient catalog.Client
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		client, err := catalog.NewSpotifyClient(ctx, catalog.SpotifyOpts{
			ClientID:     config.Credentials.Spotify.ClientID,
			ClientSecret: config.Credentials.Spotify.ClientSecret,
			Throttle:     throttle,
		})
		if err != nil {
			logger.Warn("spotify client unavailable", "error", err)
		} else {
			catalogClient = client
		}
	}

	lastfmClient := lastfm.New(lastfm.Opts{
		APIKey:   config.Credentials.Lastfm.APIKey,
		Throttle: throttle,
	})

	scraper := scrape.New(scrape.Opts{
		Throttle:  throttle,
		PageLimit: config.Generator.ScrapePageLimit,
		Logger:    logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalogClient,
		Lastfm:  lastfmClient,
		Scraper: scraper,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "mixdown",
		Usage:    "Generate Spotify playlists from playlist scripts",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrMissingCredentials) {
			logger.Error("missing credentials, run setup and fill in config.toml or .env")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
