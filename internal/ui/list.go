package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	playlist models.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// trackItem wraps [models.Track] to implement [list.Item].
//
// The title carries the working-order position so manual moves are visible,
// and the description shows the energy used by the pyramid sort.
type trackItem struct {
	track    models.Track
	position int
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string {
	return fmt.Sprintf("%2d. %s", i.position, i.track.Name)
}
func (i trackItem) Description() string {
	desc := i.track.Artist

	if i.track.Energy != nil {
		desc = fmt.Sprintf("%s • energy %.2f", desc, *i.track.Energy)
	} else {
		desc = fmt.Sprintf("%s • energy ?", desc)
	}

	if i.track.BPM != nil {
		desc = fmt.Sprintf("%s • %d bpm", desc, *i.track.BPM)
	}

	if i.track.DurationMS > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.DurationMS))
	}

	return desc
}
