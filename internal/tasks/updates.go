package tasks

import (
	"fmt"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolvePlaylist Phase = iota
	FetchTracks
	EnrichTracks
	SortTracks
	PublishPlaylist
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case ResolvePlaylist:
		return "resolve_playlist"
	case FetchTracks:
		return "fetch_tracks"
	case EnrichTracks:
		return "enrich_tracks"
	case SortTracks:
		return "sort_tracks"
	case PublishPlaylist:
		return "publish_playlist"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func resolvingUpdate(idOrName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking up playlist %q...", idOrName),
	}
}

func resolvedUpdate(playlist models.PlaylistSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", playlist.Name, playlist.TrackCount),
		Data:    playlist,
	}
}

func fetchTracksUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching tracks for %s...", name),
	}
}

func fetchedTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched %d tracks", count),
	}
}

func enrichUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching audio features for %d tracks...", count),
	}
}

func enrichedUpdate(enriched, missing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Attached features to %d tracks (%d without records)", enriched, missing),
	}
}

func sortUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SortTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Building pyramid order for %d tracks...", count),
	}
}

func publishUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Publishing %s...", name),
	}
}

func publishedUpdate(playlistID, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PublishPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", name, playlistID),
		Data:    playlistID,
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
