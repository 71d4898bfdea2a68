package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	tu "github.com/mikehinnen/spotify-cycling-sorter/internal/testing"
)

func TestModelResize(t *testing.T) {
	newModel := func() *Model {
		return NewModel(context.Background(), &tu.MockService{}, PublishConfig{NameSuffix: "(pyramid)"})
	}

	t.Run("initial window size arrives before playlists load", func(t *testing.T) {
		m := newModel()

		// must not panic: the runtime delivers the first WindowSizeMsg before
		// the playlist fetch command completes
		m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

		if got := m.playlistList.Width(); got != 116 {
			t.Errorf("expected playlist list width 116, got %d", got)
		}
		if got := m.trackList.Width(); got != 116 {
			t.Errorf("expected track list width 116, got %d", got)
		}
	})

	t.Run("later window sizes resize initialized lists", func(t *testing.T) {
		m := newModel()

		m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

		if got := m.playlistList.Width(); got != 76 {
			t.Errorf("expected playlist list width 76 after resize, got %d", got)
		}
		if got := m.trackList.Width(); got != 76 {
			t.Errorf("expected track list width 76 after resize, got %d", got)
		}
	})

	t.Run("playlists arriving after a resize keep the size", func(t *testing.T) {
		m := newModel()

		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		m.Update(playlistsFetchedMsg{playlists: []models.PlaylistSummary{
			{ID: "pl1", Name: "Morning Ride"},
			{ID: "pl2", Name: "Recovery Spin"},
		}})

		if got := len(m.playlistList.Items()); got != 2 {
			t.Errorf("expected 2 playlist items, got %d", got)
		}
		if got := m.playlistList.Width(); got != 96 {
			t.Errorf("expected playlist list width 96, got %d", got)
		}
	})
}

func TestRenderResult(t *testing.T) {
	t.Run("partial publish names the created playlist", func(t *testing.T) {
		m := NewModel(context.Background(), &tu.MockService{}, PublishConfig{})
		m.view = ResultView
		m.err = errors.New("append failed")
		m.publishedID = "half_done"

		got := m.renderResult()
		if !strings.Contains(got, "half_done") || !strings.Contains(got, "not fully filled") {
			t.Errorf("expected partial publish notice, got %q", got)
		}
	})
}
