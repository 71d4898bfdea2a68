// package tasks orchestrates the fetch, enrich, sort, and publish pipeline.
//
// The core abstraction is SortEngine, which drives a full pyramid-sort run
// against a streaming service. Operations emit progress updates via channels
// for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/services"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/sorter"
)

// SortOptions configures a sort run.
type SortOptions struct {
	Publish     bool   // Publish the sorted order as a new playlist
	NameSuffix  string // Appended to the source name for the published playlist
	Description string // Published playlist description; derived when empty
	Public      bool   // Published playlist visibility
}

// SortRunResult contains all data from a full sort run.
type SortRunResult struct {
	Playlist        models.PlaylistSummary // Resolved source playlist
	Original        []models.Track         // Enriched tracks in fetched order
	Sorted          []models.Track         // Tracks in pyramid order
	EnrichedCount   int                    // Tracks with a feature record attached
	MissingFeatures int                    // Tracks the platform had no features for
	DroppedCount    int                    // Non-addressable tracks dropped before enrichment
	PublishedID     string                 // Remote ID of the published playlist, if any
	PublishedName   string                 // Name of the published playlist, if any
}

// SortEngine defines the pyramid-sort pipeline over a streaming service.
type SortEngine interface {
	// Run resolves the playlist, fetches and enriches its tracks, builds the
	// pyramid order, and optionally publishes the result.
	Run(ctx context.Context, progress chan<- ProgressUpdate, playlistIDOrName string, opts SortOptions) (*SortRunResult, error)
}

// PlaylistSortEngine implements SortEngine against a services.Service.
type PlaylistSortEngine struct {
	service services.Service
}

// NewPlaylistSortEngine creates an engine over the given service.
func NewPlaylistSortEngine(service services.Service) *PlaylistSortEngine {
	return &PlaylistSortEngine{service: service}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistSortEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run executes the full pipeline for one playlist.
//
// Any step failing aborts the run and surfaces the error; nothing is retried.
// A publish failure after creation comes back as *services.PartialPublishError
// alongside the result gathered so far, so the caller can report the
// partially filled remote playlist.
func (e *PlaylistSortEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, playlistIDOrName string, opts SortOptions) (*SortRunResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: streaming service not initialized", shared.ErrServiceUnavailable)
	}
	if playlistIDOrName == "" {
		return nil, fmt.Errorf("%w: playlist ID or name is required", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, resolvingUpdate(playlistIDOrName))

	playlist, err := e.resolvePlaylist(ctx, playlistIDOrName)
	if err != nil {
		return nil, err
	}

	result := &SortRunResult{Playlist: playlist}
	e.sendProgress(progress, resolvedUpdate(playlist))

	e.sendProgress(progress, fetchTracksUpdate(playlist.Name))
	fetched, err := e.service.GetPlaylistTracks(ctx, playlist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracks: %w", err)
	}
	e.sendProgress(progress, fetchedTracksUpdate(len(fetched)))

	e.sendProgress(progress, enrichUpdate(len(fetched)))
	enriched, err := e.service.AttachAudioFeatures(ctx, fetched)
	if err != nil {
		return nil, fmt.Errorf("failed to attach audio features: %w", err)
	}

	result.Original = enriched
	result.DroppedCount = len(fetched) - len(enriched)
	for _, track := range enriched {
		if track.Energy != nil {
			result.EnrichedCount++
		} else {
			result.MissingFeatures++
		}
	}
	e.sendProgress(progress, enrichedUpdate(result.EnrichedCount, result.MissingFeatures))

	e.sendProgress(progress, sortUpdate(len(enriched)))
	result.Sorted = sorter.Pyramid(enriched)

	if !opts.Publish {
		return result, nil
	}

	name := playlist.Name + " " + opts.NameSuffix
	if opts.NameSuffix == "" {
		name = playlist.Name + " (pyramid)"
	}

	description := opts.Description
	if description == "" {
		description = fmt.Sprintf("Pyramid energy sort of %s", playlist.Name)
	}

	e.sendProgress(progress, publishUpdate(name))

	user, err := e.service.CurrentUser(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to look up current user: %w", err)
	}

	uris := make([]string, 0, len(result.Sorted))
	for _, track := range result.Sorted {
		if track.URI != "" {
			uris = append(uris, track.URI)
		}
	}

	publishedID, err := e.service.Publish(ctx, services.PublishRequest{
		OwnerID:     user.ID,
		Name:        name,
		Description: description,
		Public:      opts.Public,
		URIs:        uris,
	})
	if publishedID != "" {
		result.PublishedID = publishedID
		result.PublishedName = name
	}
	if err != nil {
		return result, err
	}

	e.sendProgress(progress, publishedUpdate(publishedID, name))
	return result, nil
}

// resolvePlaylist finds a playlist by ID, falling back to a case-exact name
// match across the user's playlists.
func (e *PlaylistSortEngine) resolvePlaylist(ctx context.Context, idOrName string) (models.PlaylistSummary, error) {
	playlists, err := e.service.GetPlaylists(ctx)
	if err != nil {
		return models.PlaylistSummary{}, fmt.Errorf("failed to list playlists: %w", err)
	}

	for _, pl := range playlists {
		if pl.ID == idOrName {
			return pl, nil
		}
	}

	for _, pl := range playlists {
		if pl.Name == idOrName {
			return pl, nil
		}
	}

	return models.PlaylistSummary{}, fmt.Errorf("%w: no playlist matching %q", shared.ErrPlaylistNotFound, idOrName)
}
