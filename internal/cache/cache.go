package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
)

// Cache persists fetched playlists, track lists, and audio features in SQLite.
//
// The cache is an offline convenience: the remote API stays the source of
// truth, and every write replaces whatever was cached for the same key.
type Cache struct {
	db *sql.DB
}

// NewCache creates a Cache over an open database connection. The caller owns
// the connection and must have run migrations first.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// SavePlaylists replaces the cached playlist collection.
func (c *Cache) SavePlaylists(playlists []models.PlaylistSummary) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlists"); err != nil {
		return fmt.Errorf("failed to clear playlists: %w", err)
	}

	query := `
		INSERT INTO playlists (id, name, description, owner, track_count, image_url, public, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	for _, p := range playlists {
		if _, err := tx.Exec(query, p.ID, p.Name, p.Description, p.Owner, p.TrackCount, p.ImageURL, p.Public, now); err != nil {
			return fmt.Errorf("failed to insert playlist %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// Playlists returns the cached playlist collection in name order.
func (c *Cache) Playlists() ([]models.PlaylistSummary, error) {
	query := `
		SELECT id, name, description, owner, track_count, image_url, public
		FROM playlists
		ORDER BY name COLLATE NOCASE
	`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.PlaylistSummary
	for rows.Next() {
		var p models.PlaylistSummary
		var description, owner, imageURL sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &description, &owner, &p.TrackCount, &imageURL, &p.Public); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}

		p.Description = description.String
		p.Owner = owner.String
		p.ImageURL = imageURL.String

		playlists = append(playlists, p)
	}

	return playlists, rows.Err()
}

// SaveTracks replaces the cached track list for a playlist, keeping playlist
// order via the position column. Feature values present on the tracks are
// cached alongside.
func (c *Cache) SaveTracks(playlistID string, tracks []models.Track) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlist_tracks WHERE playlist_id = ?", playlistID); err != nil {
		return fmt.Errorf("failed to clear playlist tracks: %w", err)
	}

	trackQuery := `
		INSERT INTO playlist_tracks (playlist_id, position, track_id, uri, name, artist, album_art_url, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	featureQuery := `
		INSERT INTO audio_features (track_id, energy, bpm, danceability, valence, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			energy = excluded.energy,
			bpm = excluded.bpm,
			danceability = excluded.danceability,
			valence = excluded.valence,
			fetched_at = excluded.fetched_at
	`

	now := time.Now().UTC()
	for position, t := range tracks {
		if _, err := tx.Exec(trackQuery, playlistID, position, t.ID, t.URI, t.Name, t.Artist, t.AlbumArtURL, t.DurationMS); err != nil {
			return fmt.Errorf("failed to insert track at position %d: %w", position, err)
		}

		if t.ID == "" {
			continue
		}

		if _, err := tx.Exec(featureQuery, t.ID, t.Energy, t.BPM, t.Danceability, t.Valence, now); err != nil {
			return fmt.Errorf("failed to upsert features for track %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// Tracks returns the cached track list for a playlist in playlist order,
// joined with any cached audio features.
func (c *Cache) Tracks(playlistID string) ([]models.Track, error) {
	query := `
		SELECT pt.track_id, pt.uri, pt.name, pt.artist, pt.album_art_url, pt.duration_ms,
		       af.energy, af.bpm, af.danceability, af.valence
		FROM playlist_tracks pt
		LEFT JOIN audio_features af ON af.track_id = pt.track_id
		WHERE pt.playlist_id = ?
		ORDER BY pt.position
	`

	rows, err := c.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.Track
	for rows.Next() {
		var t models.Track
		var artist, albumArt sql.NullString
		var energy, danceability, valence sql.NullFloat64
		var bpm sql.NullInt64

		err := rows.Scan(&t.ID, &t.URI, &t.Name, &artist, &albumArt, &t.DurationMS,
			&energy, &bpm, &danceability, &valence)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}

		t.Artist = artist.String
		t.AlbumArtURL = albumArt.String
		if energy.Valid {
			t.Energy = &energy.Float64
		}
		if bpm.Valid {
			v := int(bpm.Int64)
			t.BPM = &v
		}
		if danceability.Valid {
			t.Danceability = &danceability.Float64
		}
		if valence.Valid {
			t.Valence = &valence.Float64
		}

		tracks = append(tracks, t)
	}

	return tracks, rows.Err()
}

// Features returns cached audio features keyed by track ID for the given IDs.
// IDs with no cached row are simply absent from the result.
func (c *Cache) Features(trackIDs []string) (map[string]models.Track, error) {
	features := make(map[string]models.Track, len(trackIDs))

	query := `
		SELECT track_id, energy, bpm, danceability, valence
		FROM audio_features
		WHERE track_id = ?
	`

	for _, id := range trackIDs {
		var t models.Track
		var energy, danceability, valence sql.NullFloat64
		var bpm sql.NullInt64

		err := c.db.QueryRow(query, id).Scan(&t.ID, &energy, &bpm, &danceability, &valence)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query features for %s: %w", id, err)
		}

		if energy.Valid {
			t.Energy = &energy.Float64
		}
		if bpm.Valid {
			v := int(bpm.Int64)
			t.BPM = &v
		}
		if danceability.Valid {
			t.Danceability = &danceability.Float64
		}
		if valence.Valid {
			t.Valence = &valence.Float64
		}

		features[t.ID] = t
	}

	return features, nil
}

// Clear empties every cache table.
func (c *Cache) Clear() error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"playlist_tracks", "audio_features", "playlists"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return tx.Commit()
}
