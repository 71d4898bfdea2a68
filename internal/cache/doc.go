// Package cache implements SQLite persistence for fetched playlists, track
// lists, and audio-feature records.
//
// Writes replace whole collections (playlist set, a playlist's track list) so
// the cache never holds a mix of two fetches. Audio features are upserted per
// track; a cached row with NULL feature columns records that the platform had
// no data for that track, which is distinct from the track never having been
// looked up.
package cache
