// Package models defines the domain entities shared by the sorter CLI.
//
// The package contains lightweight DTOs describing Spotify resources:
//   - [PlaylistSummary] : Playlist metadata as returned by list endpoints
//   - [PlaylistExport] : Playlist with its complete, ordered track listing
//   - [Track] : Track metadata plus optional audio-feature attributes
//
// Audio-feature fields (Energy, BPM, Danceability, Valence) are pointers:
// nil means the platform returned no feature record for the track. Ranking
// code treats a nil Energy as zero via [Track.EnergyValue]; display code may
// distinguish the two states.
package models
