package main

import (
	"context"
	"fmt"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/cache"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the authenticated user's playlists, from the API or the
// local cache.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	cached := cmd.Bool("cached")
	save := cmd.Bool("save")

	var playlists []models.PlaylistSummary
	var err error

	if cached {
		store, closeStore, err := r.openCache()
		if err != nil {
			return err
		}
		defer closeStore()
		if playlists, err = store.Playlists(); err != nil {
			return fmt.Errorf("failed to read cached playlists: %w", err)
		}
	} else {
		if r.service == nil {
			return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
		}
		r.logger.Info("listing playlists")
		if playlists, err = r.service.GetPlaylists(ctx); err != nil {
			return fmt.Errorf("failed to get playlists: %w", err)
		}
	}

	if save && !cached {
		store, closeStore, err := r.openCache()
		if err != nil {
			return err
		}
		defer closeStore()
		if err := store.SavePlaylists(playlists); err != nil {
			return fmt.Errorf("failed to cache playlists: %w", err)
		}
		r.logger.Infof("cached %d playlists", len(playlists))
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for i, p := range playlists {
		r.writePlainln("%3d. %s [%s]", i+1, p.Name, p.ID)
		r.writePlainln("     %d tracks • %s", p.TrackCount, shared.VisibilityString(p.Public))
	}
	return nil
}

// Tracks shows a playlist's tracks with their audio features attached.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	idOrName := cmd.String("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	if r.service == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	playlist, err := r.resolvePlaylist(ctx, idOrName)
	if err != nil {
		return err
	}

	r.logger.Infof("fetching tracks for %s", playlist.Name)
	tracks, err := r.service.GetPlaylistTracks(ctx, playlist.ID)
	if err != nil {
		return fmt.Errorf("failed to get tracks: %w", err)
	}

	store, closeStore, cacheErr := r.openCache()
	if cacheErr != nil {
		r.logger.Debugf("feature cache unavailable: %v", cacheErr)
	} else {
		defer closeStore()
	}

	enriched, err := r.enrichTracks(ctx, store, tracks)
	if err != nil {
		return fmt.Errorf("failed to attach audio features: %w", err)
	}

	if save {
		if store == nil {
			return cacheErr
		}
		if err := store.SaveTracks(playlist.ID, enriched); err != nil {
			return fmt.Errorf("failed to cache tracks: %w", err)
		}
		r.logger.Infof("cached %d tracks for %s", len(enriched), playlist.ID)
	}

	if useJSON {
		return r.writeJSON(enriched, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d tracks)", playlist.Name, len(enriched)))
	for i, t := range enriched {
		energy := "?"
		if t.Energy != nil {
			energy = fmt.Sprintf("%.2f", *t.Energy)
		}
		bpm := "?"
		if t.BPM != nil {
			bpm = fmt.Sprintf("%d", *t.BPM)
		}
		r.writePlainln("%3d. %s — %s", i+1, t.Name, t.Artist)
		r.writePlainln("     energy %s • %s bpm • %s", energy, bpm, shared.FormatDuration(t.DurationMS))
	}
	return nil
}

// enrichTracks attaches audio features, serving cached feature rows first and
// asking the API only for the misses. The audio-features endpoint is heavily
// rate-limited, so every cache hit is one fewer ID in the batch lookups.
//
// A nil store degrades to a plain API fetch. Non-addressable tracks are
// dropped and order is preserved, matching the service's own enrichment.
func (r *Runner) enrichTracks(ctx context.Context, store *cache.Cache, tracks []models.Track) ([]models.Track, error) {
	kept := make([]models.Track, 0, len(tracks))
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if t.Addressable() {
			kept = append(kept, t)
			ids = append(ids, t.ID)
		}
	}

	cached := map[string]models.Track{}
	if store != nil {
		hits, err := store.Features(ids)
		if err != nil {
			r.logger.Debugf("feature cache lookup failed: %v", err)
		} else {
			cached = hits
		}
	}

	misses := make([]models.Track, 0, len(kept))
	for _, t := range kept {
		if _, ok := cached[t.ID]; !ok {
			misses = append(misses, t)
		}
	}

	fetched := map[string]models.Track{}
	if len(misses) > 0 {
		enriched, err := r.service.AttachAudioFeatures(ctx, misses)
		if err != nil {
			return nil, err
		}
		for _, t := range enriched {
			fetched[t.ID] = t
		}
	}

	out := make([]models.Track, 0, len(kept))
	for _, t := range kept {
		if hit, ok := cached[t.ID]; ok {
			t.Energy = hit.Energy
			t.BPM = hit.BPM
			t.Danceability = hit.Danceability
			t.Valence = hit.Valence
			out = append(out, t)
			continue
		}
		if full, ok := fetched[t.ID]; ok {
			out = append(out, full)
		}
	}
	return out, nil
}

// resolvePlaylist matches idOrName against the user's playlists by ID, then
// by exact name.
func (r *Runner) resolvePlaylist(ctx context.Context, idOrName string) (models.PlaylistSummary, error) {
	if idOrName == "" {
		return models.PlaylistSummary{}, fmt.Errorf("%w: playlist ID or name is required", shared.ErrInvalidInput)
	}

	playlists, err := r.service.GetPlaylists(ctx)
	if err != nil {
		return models.PlaylistSummary{}, fmt.Errorf("failed to get playlists: %w", err)
	}

	for _, p := range playlists {
		if p.ID == idOrName {
			return p, nil
		}
	}
	for _, p := range playlists {
		if p.Name == idOrName {
			return p, nil
		}
	}
	return models.PlaylistSummary{}, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, idOrName)
}
