package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/services"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/sorter"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	ConfirmView
	PublishView
	ResultView
)

// PublishConfig carries the playlist naming defaults from configuration.
type PublishConfig struct {
	NameSuffix string
	Public     bool
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	service services.Service
	publish PublishConfig

	width  int
	height int

	playlistList list.Model
	playlists    []models.PlaylistSummary
	selected     *models.PlaylistSummary

	trackList list.Model
	worklist  *sorter.Worklist
	dirty     bool // working order differs from the fetched order

	publishing  bool
	publishedID string
	publishName string
	err         error

	help help.Model
	keys keyMap
}

type playlistsFetchedMsg struct {
	playlists []models.PlaylistSummary
	err       error
}

type tracksFetchedMsg struct {
	playlist models.PlaylistSummary
	tracks   []models.Track
	err      error
}

type publishDoneMsg struct {
	playlistID string
	name       string
	err        error
}

// NewModel creates a new TUI model with the provided dependencies.
//
// Both lists are constructed up front: the first WindowSizeMsg can arrive
// before the playlist fetch completes, and resizing a zero-value list panics.
func NewModel(ctx context.Context, service services.Service, publish PublishConfig) *Model {
	playlistList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlistList.Title = "Spotify Playlists"

	return &Model{
		ctx:          ctx,
		view:         PlaylistListView,
		service:      service,
		publish:      publish,
		playlistList: playlistList,
		trackList:    list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the TUI by fetching the user's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList.SetItems(items)
		return m, nil

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selected = &msg.playlist
		m.worklist = sorter.NewWorklist(msg.tracks)
		m.dirty = false
		m.rebuildTrackList(0)
		m.view = TrackListView
		return m, nil

	case publishDoneMsg:
		m.publishing = false
		m.publishedID = msg.playlistID
		m.publishName = msg.name
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case PublishView:
		return m.renderPublish()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				return m, m.fetchTracks(pl.playlist)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case "s":
		m.worklist.Sort()
		m.dirty = true
		m.rebuildTrackList(0)
		return m, nil
	case "r":
		m.worklist.Reset()
		m.dirty = false
		m.rebuildTrackList(0)
		return m, nil
	case "K":
		return m.moveSelected(-1)
	case "J":
		return m.moveSelected(1)
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

// moveSelected moves the selected track one slot up or down and keeps the
// cursor on it.
func (m *Model) moveSelected(delta int) (tea.Model, tea.Cmd) {
	from := m.trackList.Index()
	to := from + delta
	if to < 0 || to >= m.worklist.Len() {
		return m, nil
	}

	if err := m.worklist.Move(from, to); err != nil {
		return m, nil
	}

	m.dirty = true
	m.rebuildTrackList(to)
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = PublishView
		m.publishing = true
		return m, m.startPublish()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PlaylistListView
		m.selected = nil
		m.worklist = nil
		m.publishedID = ""
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

// rebuildTrackList refreshes the list items from the worklist and places the
// cursor at index.
func (m *Model) rebuildTrackList(index int) {
	tracks := m.worklist.Tracks()
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track, position: i + 1}
	}

	m.trackList.SetItems(items)
	m.trackList.Title = m.trackListTitle()
	m.trackList.Select(index)
}

func (m *Model) trackListTitle() string {
	title := fmt.Sprintf("Tracks in '%s'", m.selected.Name)
	if m.dirty {
		title += " (reordered)"
	}
	return title
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.service.GetPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

// fetchTracks loads a playlist's tracks and attaches audio features so the
// energy column is populated before the user sorts.
func (m *Model) fetchTracks(playlist models.PlaylistSummary) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.service.GetPlaylistTracks(m.ctx, playlist.ID)
		if err != nil {
			return tracksFetchedMsg{err: err}
		}

		enriched, err := m.service.AttachAudioFeatures(m.ctx, tracks)
		if err != nil {
			return tracksFetchedMsg{err: err}
		}

		return tracksFetchedMsg{playlist: playlist, tracks: enriched}
	}
}

func (m *Model) startPublish() tea.Cmd {
	name := m.selected.Name + " " + m.publish.NameSuffix
	uris := m.worklist.URIs()

	return func() tea.Msg {
		user, err := m.service.CurrentUser(m.ctx)
		if err != nil {
			return publishDoneMsg{err: err}
		}

		playlistID, err := m.service.Publish(m.ctx, services.PublishRequest{
			OwnerID:     user.ID,
			Name:        name,
			Description: fmt.Sprintf("Pyramid energy sort of %s", m.selected.Name),
			Public:      m.publish.Public,
			URIs:        uris,
		})
		return publishDoneMsg{playlistID: playlistID, name: name, err: err}
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.sort, m.keys.reset, m.keys.moveUp, m.keys.moveDown, m.keys.publish, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	name := m.selected.Name + " " + m.publish.NameSuffix
	title := styles.title.Render(fmt.Sprintf("Publish '%s'?", name))
	info := fmt.Sprintf("\nSource: %s\nTracks: %d\nVisibility: %s\n",
		m.selected.Name, m.worklist.Len(), visibility(m.publish.Public))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderPublish() string {
	title := styles.title.Render("Publishing Playlist")
	return fmt.Sprintf("%s\n\nCreating playlist and appending %d tracks...", title, m.worklist.Len())
}

func (m *Model) renderResult() string {
	if m.err != nil {
		msg := styles.err.Render(fmt.Sprintf("Publish failed: %v", m.err))
		if m.publishedID != "" {
			msg = styles.warn.Render(fmt.Sprintf("Playlist %s created but not fully filled: %v", m.publishedID, m.err))
		}
		return fmt.Sprintf("%s\n\n%s", msg, styles.help.Render("Press r to start over, q to quit"))
	}

	title := styles.ok.Render("✓ Playlist Published")
	info := fmt.Sprintf("\nName: %s\nID: %s\nTracks: %d", m.publishName, m.publishedID, m.worklist.Len())

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func visibility(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}
