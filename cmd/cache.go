package main

import (
	"context"
	"fmt"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/cache"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/urfave/cli/v3"
)

// openCache opens the cache database from the runner's config, running
// migrations so a fresh database works without a separate setup step.
func (r *Runner) openCache() (*cache.Cache, func(), error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return cache.NewCache(db), func() { db.Close() }, nil
}

// CacheShow lists the cached playlists and their track counts.
func (r *Runner) CacheShow(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeStore()

	playlists, err := store.Playlists()
	if err != nil {
		return fmt.Errorf("failed to read cached playlists: %w", err)
	}

	if len(playlists) == 0 {
		return r.writePlainln("Cache is empty. Run 'cysort playlists --save' to populate it.")
	}

	r.writePlainHeader(fmt.Sprintf("Cached playlists (%d)", len(playlists)))
	for _, p := range playlists {
		tracks, err := store.Tracks(p.ID)
		if err != nil {
			return fmt.Errorf("failed to read cached tracks: %w", err)
		}
		r.writePlainln("%s [%s]", p.Name, p.ID)
		r.writePlainln("  %d tracks cached", len(tracks))
	}
	return nil
}

// CacheClear deletes all cached playlists, tracks, and audio features.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cache cleared")
	return r.writePlainln("✓ Cache cleared")
}

// cacheCommand handles the local playlist and track cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the local cache",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "List cached playlists and track counts",
				Action: r.CacheShow,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached data",
				Action: r.CacheClear,
			},
		},
	}
}
