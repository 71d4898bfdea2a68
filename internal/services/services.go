// package services defines interface Service for the streaming platform API
package services

import (
	"context"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"golang.org/x/oauth2"
)

// Service defines the provider operations the sorter needs: login, playlist
// retrieval, audio-feature enrichment, and publishing.
type Service interface {
	// BeginLogin starts a PKCE login attempt.
	// Returns the attempt (to be carried to CompleteLogin) and the authorization URL.
	BeginLogin() (*LoginAttempt, string, error)

	// CompleteLogin exchanges an authorization code for a token, consuming the attempt.
	// A nil or already-consumed attempt returns shared.ErrNoLoginInProgress.
	CompleteLogin(ctx context.Context, attempt *LoginAttempt, code string) (*oauth2.Token, error)

	// Authenticate adopts a previously obtained token (e.g. cached in config).
	Authenticate(ctx context.Context, token *oauth2.Token) error

	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*SpotifyUser, error)

	// GetPlaylists retrieves all playlists for the authenticated user, following pagination.
	GetPlaylists(ctx context.Context) ([]models.PlaylistSummary, error)

	// GetPlaylistTracks retrieves a playlist's tracks in playlist order, following pagination.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// AttachAudioFeatures merges per-track audio features onto the given tracks.
	// Tracks without a stable platform ID are dropped; tracks the platform has
	// no feature record for keep nil feature fields. Order is preserved.
	AttachAudioFeatures(ctx context.Context, tracks []models.Track) ([]models.Track, error)

	// Publish creates a new playlist and appends the given URIs in order.
	Publish(ctx context.Context, req PublishRequest) (string, error)

	// Name returns the provider name (e.g. "Spotify")
	Name() string
}

// PublishRequest describes a playlist to create and fill.
type PublishRequest struct {
	OwnerID     string
	Name        string
	Description string
	Public      bool
	URIs        []string
}
