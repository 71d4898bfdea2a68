// cysort reorders Spotify playlists into a pyramid energy profile for
// cycling workouts: warm up, peak in the middle, cool down.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/services"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	configPath := defaultConfigPath
	if env := os.Getenv("CYSORT_CONFIG"); env != "" {
		configPath = env
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			logger.Fatalf("failed to load config %s: %v", configPath, err)
		}
		config = loaded
	} else {
		configPath = ""
	}

	var service services.Service
	var engine *tasks.PlaylistSortEngine
	if creds := config.Credentials.Spotify; creds.ClientID != "" {
		spotify := services.NewSpotifyService(creds.ClientID, creds.RedirectURI)
		if tok := creds.Token(); tok != nil {
			if err := spotify.Authenticate(ctx, tok); err != nil {
				logger.Warnf("cached token rejected, run 'cysort auth login': %v", err)
			}
		}
		service = spotify
		engine = tasks.NewPlaylistSortEngine(service)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Service:    service,
		Engine:     engine,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "cysort",
		Usage:    "Sort Spotify playlists into a pyramid energy curve",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		var partial *services.PartialPublishError
		if errors.As(err, &partial) {
			logger.Fatalf("publish incomplete: playlist %s has %d of %d batches: %v",
				partial.PlaylistID, partial.BatchesDone, partial.BatchesTotal, partial.Err)
		}
		logger.Fatalf("%v", err)
	}
}
