// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for pyramid sorting:
//  1. [PlaylistListView] : Browse and select playlists
//  2. [TrackListView] : Inspect energies, pyramid sort (s), reset (r), move a track (J/K)
//  3. [ConfirmView] : Confirm publishing the working order
//  4. [PublishView] : Wait for playlist creation and appends
//  5. [ResultView] : Display the published playlist or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// The working track order lives in a [sorter.Worklist], so every reorder the
// user performs stays a permutation of the fetched playlist.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
