package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/services"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	th "github.com/mikehinnen/spotify-cycling-sorter/internal/testing"
)

func floatPtr(v float64) *float64 { return &v }

// enrichWithEnergies returns an EnrichFn attaching the given energies by
// input position.
func enrichWithEnergies(energies []float64) func([]models.Track) []models.Track {
	return func(tracks []models.Track) []models.Track {
		out := make([]models.Track, 0, len(tracks))
		for _, t := range tracks {
			if !t.Addressable() {
				continue
			}
			idx := len(out)
			if idx < len(energies) {
				t.Energy = floatPtr(energies[idx])
			}
			out = append(out, t)
		}
		return out
	}
}

func fixtureService() *th.MockService {
	return &th.MockService{
		Playlists: []models.PlaylistSummary{
			{ID: "p1", Name: "Morning Ride", TrackCount: 5},
			{ID: "p2", Name: "Recovery Spin", TrackCount: 2},
		},
		Tracks: map[string][]models.Track{
			"p1": {
				{ID: "t0", URI: "spotify:track:t0", Name: "A"},
				{ID: "t1", URI: "spotify:track:t1", Name: "B"},
				{ID: "t2", URI: "spotify:track:t2", Name: "C"},
				{ID: "t3", URI: "spotify:track:t3", Name: "D"},
				{ID: "t4", URI: "spotify:track:t4", Name: "E"},
			},
		},
		User:        &services.SpotifyUser{ID: "rider"},
		PublishedID: "sorted_playlist",
		EnrichFn:    enrichWithEnergies([]float64{0.1, 0.9, 0.5, 0.3, 0.7}),
	}
}

func TestSortEngineRun(t *testing.T) {
	t.Run("Dry Run", func(t *testing.T) {
		svc := fixtureService()
		engine := NewPlaylistSortEngine(svc)

		result, err := engine.Run(context.Background(), nil, "p1", SortOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Playlist.ID != "p1" {
			t.Errorf("expected playlist p1 resolved, got %s", result.Playlist.ID)
		}

		if len(result.Original) != 5 || len(result.Sorted) != 5 {
			t.Fatalf("expected 5 tracks in both orders, got %d and %d",
				len(result.Original), len(result.Sorted))
		}

		// pyramid of [0.1 0.9 0.5 0.3 0.7]
		if result.Sorted[2].EnergyValue() != 0.9 {
			t.Errorf("expected the peak at the center, got profile %v", result.Sorted)
		}

		if result.Original[1].EnergyValue() != 0.9 {
			t.Error("expected original order retained alongside the sorted order")
		}

		if result.EnrichedCount != 5 || result.MissingFeatures != 0 {
			t.Errorf("expected all tracks enriched, got %d/%d", result.EnrichedCount, result.MissingFeatures)
		}

		if len(svc.PublishCalls) != 0 {
			t.Error("expected no publish without the publish option")
		}
	})

	t.Run("Resolve By Name", func(t *testing.T) {
		engine := NewPlaylistSortEngine(fixtureService())

		result, err := engine.Run(context.Background(), nil, "Morning Ride", SortOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Playlist.ID != "p1" {
			t.Errorf("expected name resolved to p1, got %s", result.Playlist.ID)
		}
	})

	t.Run("Unknown Playlist", func(t *testing.T) {
		engine := NewPlaylistSortEngine(fixtureService())

		_, err := engine.Run(context.Background(), nil, "does-not-exist", SortOptions{})
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Publish", func(t *testing.T) {
		svc := fixtureService()
		engine := NewPlaylistSortEngine(svc)

		result, err := engine.Run(context.Background(), nil, "p1", SortOptions{
			Publish:    true,
			NameSuffix: "(pyramid)",
			Public:     false,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.PublishedID != "sorted_playlist" {
			t.Errorf("expected published ID, got %s", result.PublishedID)
		}

		if len(svc.PublishCalls) != 1 {
			t.Fatalf("expected one publish call, got %d", len(svc.PublishCalls))
		}

		req := svc.PublishCalls[0]
		if req.OwnerID != "rider" {
			t.Errorf("expected current user as owner, got %s", req.OwnerID)
		}
		if req.Name != "Morning Ride (pyramid)" {
			t.Errorf("expected derived name, got %s", req.Name)
		}
		if len(req.URIs) != 5 {
			t.Fatalf("expected 5 URIs, got %d", len(req.URIs))
		}
		// URIs follow the sorted order, not the fetched order
		if req.URIs[2] != "spotify:track:t1" {
			t.Errorf("expected peak track at center of published order, got %v", req.URIs)
		}
	})

	t.Run("Progress Updates", func(t *testing.T) {
		engine := NewPlaylistSortEngine(fixtureService())
		progress := make(chan ProgressUpdate, 32)

		_, err := engine.Run(context.Background(), progress, "p1", SortOptions{Publish: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		seen := make(map[Phase]bool)
		for update := range progress {
			seen[update.Phase] = true
			if update.Message == "" {
				t.Error("expected every update to carry a message")
			}
		}

		for _, phase := range []Phase{ResolvePlaylist, FetchTracks, EnrichTracks, SortTracks, PublishPlaylist} {
			if !seen[phase] {
				t.Errorf("expected a %s update", phase)
			}
		}
	})

	t.Run("Full Progress Channel Does Not Block", func(t *testing.T) {
		engine := NewPlaylistSortEngine(fixtureService())
		progress := make(chan ProgressUpdate) // unbuffered, never read

		if _, err := engine.Run(context.Background(), progress, "p1", SortOptions{}); err != nil {
			t.Fatalf("expected run to complete without a reader, got %v", err)
		}
	})

	t.Run("Enrich Failure Aborts", func(t *testing.T) {
		svc := fixtureService()
		svc.EnrichErr = errors.New("features endpoint down")
		engine := NewPlaylistSortEngine(svc)

		_, err := engine.Run(context.Background(), nil, "p1", SortOptions{})
		if err == nil {
			t.Fatal("expected error from enrichment")
		}

		if len(svc.PublishCalls) != 0 {
			t.Error("expected no publish after failed enrichment")
		}
	})

	t.Run("Partial Publish Surfaces Playlist ID", func(t *testing.T) {
		svc := fixtureService()
		svc.PublishErr = &services.PartialPublishError{
			PlaylistID:   "half_done",
			BatchesDone:  1,
			BatchesTotal: 3,
		}
		engine := NewPlaylistSortEngine(svc)

		_, err := engine.Run(context.Background(), nil, "p1", SortOptions{Publish: true})

		var partial *services.PartialPublishError
		if !errors.As(err, &partial) {
			t.Fatalf("expected *PartialPublishError, got %v", err)
		}

		if partial.PlaylistID != "half_done" {
			t.Errorf("expected created playlist ID in error, got %s", partial.PlaylistID)
		}
	})

	t.Run("Missing Service", func(t *testing.T) {
		engine := NewPlaylistSortEngine(nil)

		_, err := engine.Run(context.Background(), nil, "p1", SortOptions{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Missing Playlist Argument", func(t *testing.T) {
		engine := NewPlaylistSortEngine(fixtureService())

		_, err := engine.Run(context.Background(), nil, "", SortOptions{})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		ResolvePlaylist: "resolve_playlist",
		FetchTracks:     "fetch_tracks",
		EnrichTracks:    "enrich_tracks",
		SortTracks:      "sort_tracks",
		PublishPlaylist: "publish_playlist",
		ExportPlaylist:  "export_playlist",
		Phase(99):       "",
	}

	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
