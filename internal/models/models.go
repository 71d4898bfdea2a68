// package models defines the data model for the pyramid sorter CLI
package models

// PlaylistSummary represents playlist metadata from a list endpoint.
//
// Identity is the ID; summaries are immutable once fetched.
type PlaylistSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	TrackCount  int    `json:"track_count"`
	ImageURL    string `json:"image_url,omitempty"`
	Public      bool   `json:"public"`
}

// PlaylistExport represents a playlist with its complete ordered track listing.
type PlaylistExport struct {
	Playlist PlaylistSummary `json:"playlist"`
	Tracks   []Track         `json:"tracks"`
}

// Track represents a playlist track with optional audio-feature attributes.
//
// Feature fields are nil when the platform has no feature record for the
// track. Tracks without a stable platform ID (local files) cannot be
// enriched or re-added to a playlist.
type Track struct {
	ID          string `json:"id"`
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	AlbumArtURL string `json:"album_art_url,omitempty"`
	DurationMS  int    `json:"duration_ms"`

	Energy       *float64 `json:"energy"`
	BPM          *int     `json:"bpm"`
	Danceability *float64 `json:"danceability"`
	Valence      *float64 `json:"valence"`
}

// EnergyValue returns the track's energy with nil treated as zero.
//
// The fallback is a deliberate ranking policy: unknown tracks sort to the
// low end rather than aborting or floating unpredictably.
func (t Track) EnergyValue() float64 {
	if t.Energy == nil {
		return 0
	}
	return *t.Energy
}

// Addressable reports whether the track has a stable platform ID.
func (t Track) Addressable() bool {
	return t.ID != ""
}
