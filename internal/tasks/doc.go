// Package tasks orchestrates playlist operations with real-time progress reporting.
//
// # Core Operations
//
// The [SortEngine] interface defines the pyramid-sort pipeline:
//
//	[SortEngine.Run] : Full sort run for one playlist
//	  - Resolves the playlist by ID or name
//	  - Fetches its tracks across all pages
//	  - Attaches audio features in batches of 100
//	  - Builds the pyramid order (pure, original order retained in the result)
//	  - Optionally publishes the sorted order as a new playlist
//
// [PlaylistSortEngine.BulkExport] additionally exports many playlists to disk
// (JSON, CSV, Markdown, or plain text) with a worker pool and rate limiting.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Failure Semantics
//
// Any failing step aborts the run; nothing is retried and no partial result
// is reported as success. The one recognized partial state is a publish that
// created the remote playlist but failed mid-append, surfaced as
// *services.PartialPublishError with the created ID attached to the result.
package tasks
