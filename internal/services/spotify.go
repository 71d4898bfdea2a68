// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// featureBatchSize bounds /audio-features lookups and /tracks appends.
	featureBatchSize = 100
	appendBatchSize  = 100

	playlistPageLimit = 50
	trackPageLimit    = 100
)

// spotifyScopes are the scopes the sorter needs: read any playlist, write
// the sorted copy back as public or private.
var spotifyScopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-public",
	"playlist-modify-private",
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Images      []SpotifyImage `json:"images"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

type spotifyTrack struct {
	ID         string          `json:"id"`
	URI        string          `json:"uri"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
}

// spotifyPlaylistTrack represents a track within a playlist context.
type spotifyPlaylistTrack struct {
	IsLocal bool          `json:"is_local"`
	Track   *spotifyTrack `json:"track"`
}

type playlistTracksRef struct {
	Total int `json:"total"`
}

type spotifyOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// spotifySimplePlaylist represents a simplified playlist object (used in lists).
type spotifySimplePlaylist struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Owner       spotifyOwner      `json:"owner"`
	Public      bool              `json:"public"`
	Tracks      playlistTracksRef `json:"tracks"`
	Images      []SpotifyImage    `json:"images"`
	URI         string            `json:"uri"`
}

// spotifyAudioFeatures represents one record from the /audio-features endpoint.
type spotifyAudioFeatures struct {
	ID           string  `json:"id"`
	Energy       float64 `json:"energy"`
	Tempo        float64 `json:"tempo"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
}

// page is the cursor-paginated envelope common to Spotify list endpoints.
//
// A missing "next" field and an explicit JSON null both leave Next nil;
// the fetch loop treats them as the single termination condition.
type page[T any] struct {
	Items []T     `json:"items"`
	Next  *string `json:"next"`
	Total int     `json:"total"`
}

// LoginAttempt carries PKCE state from login initiation to completion.
//
// It replaces browser-session storage with an explicit value scoped to one
// attempt. The verifier is single-use: the first call to Consume wins and
// every later call reports the attempt as spent, whatever the exchange
// outcome was.
type LoginAttempt struct {
	ID        string
	ClientID  string
	Verifier  string
	Challenge string
	State     string
	CreatedAt time.Time

	mu       sync.Mutex
	consumed bool
}

// Consume marks the attempt as used. Returns false if it already was.
func (a *LoginAttempt) Consume() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.consumed {
		return false
	}
	a.consumed = true
	return true
}

// Consumed reports whether the attempt's verifier has been spent.
func (a *LoginAttempt) Consumed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.consumed
}

// SpotifyService implements the Service interface against the Spotify Web API.
//
// Authentication uses the authorization code + PKCE flow via [oauth2]; all
// API calls go through a rate-limited, Bearer-authenticated HTTP client.
type SpotifyService struct {
	clientID    string
	redirectURI string
	token       *oauth2.Token
	httpClient  *http.Client
	limiter     *rate.Limiter

	// endpoint overrides, settable in tests
	authURL  string
	tokenURL string
	baseURL  string
}

var _ Service = (*SpotifyService)(nil)

// NewSpotifyService creates a Spotify service for the given public client.
// The client ID may be empty at construction; BeginLogin validates it.
func NewSpotifyService(clientID, redirectURI string) *SpotifyService {
	if redirectURI == "" {
		redirectURI = "http://127.0.0.1:8421/callback"
	}

	return &SpotifyService{
		clientID:    clientID,
		redirectURI: redirectURI,
		httpClient:  http.DefaultClient,
		limiter:     rate.NewLimiter(rate.Limit(8), 4),
		authURL:     spotifyAuthURL,
		tokenURL:    spotifyTokenURL,
		baseURL:     spotifyBaseURL,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// oauthConfig builds the [oauth2.Config] for this client. No client secret:
// PKCE is the proof of possession.
func (s *SpotifyService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    s.clientID,
		RedirectURL: s.redirectURI,
		Scopes:      spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.authURL,
			TokenURL: s.tokenURL,
		},
	}
}

// BeginLogin starts a PKCE login attempt.
//
// Generates a fresh verifier/challenge pair and state token and returns the
// attempt plus the authorization URL the user agent must visit.
func (s *SpotifyService) BeginLogin() (*LoginAttempt, string, error) {
	if s.clientID == "" {
		return nil, "", fmt.Errorf("%w: client ID is required", shared.ErrInvalidInput)
	}

	verifier, err := GenerateVerifier(DefaultVerifierLength)
	if err != nil {
		return nil, "", err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return nil, "", err
	}

	attempt := &LoginAttempt{
		ID:        shared.GenerateID(),
		ClientID:  s.clientID,
		Verifier:  verifier,
		Challenge: DeriveChallenge(verifier),
		State:     state,
		CreatedAt: time.Now(),
	}

	authURL := s.oauthConfig().AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("code_challenge", attempt.Challenge),
	)

	return attempt, authURL, nil
}

// CompleteLogin exchanges the authorization code using the attempt's verifier.
//
// The attempt is consumed before the exchange outcome is known, so calling
// twice with an already-used code is a no-op returning
// [shared.ErrNoLoginInProgress] rather than a resend of a stale verifier.
func (s *SpotifyService) CompleteLogin(ctx context.Context, attempt *LoginAttempt, code string) (*oauth2.Token, error) {
	if attempt == nil || !attempt.Consume() {
		return nil, shared.ErrNoLoginInProgress
	}

	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", shared.ErrInvalidInput)
	}

	token, err := s.oauthConfig().Exchange(ctx, code,
		oauth2.SetAuthURLParam("code_verifier", attempt.Verifier),
	)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.ErrorCode != "" {
			return nil, &AuthError{Code: rErr.ErrorCode, Description: rErr.ErrorDescription}
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := s.Authenticate(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// Authenticate adopts a token, e.g. one cached in the config file.
// The resulting HTTP client refreshes the token transparently when possible.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrMissingCredentials)
	}

	s.token = token
	s.httpClient = s.oauthConfig().Client(ctx, token)
	return nil
}

// do performs an authenticated request against an absolute URL and decodes a
// JSON response into result (when non-nil). Non-2xx responses become *APIError.
func (s *SpotifyService) do(ctx context.Context, method, absURL string, body, result any) error {
	if s.token == nil {
		return shared.ErrNotAuthenticated
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var req *http.Request
	var err error

	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("failed to encode request body: %w", mErr)
		}
		req, err = http.NewRequestWithContext(ctx, method, absURL, strings.NewReader(string(payload)))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, absURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// fetchAllPages follows the next cursor of a paginated list endpoint,
// accumulating items in page order.
//
// Any non-2xx page aborts the aggregation and discards what was collected.
// A next cursor equal to the URL just fetched is a protocol violation and
// fails with [shared.ErrPaginationLoop] instead of looping.
func fetchAllPages[T any](ctx context.Context, s *SpotifyService, firstURL string) ([]T, error) {
	var items []T

	current := firstURL
	for current != "" {
		var p page[T]
		if err := s.do(ctx, http.MethodGet, current, nil, &p); err != nil {
			return nil, err
		}

		items = append(items, p.Items...)

		if p.Next == nil {
			break
		}
		if *p.Next == current {
			return nil, fmt.Errorf("%w: %s", shared.ErrPaginationLoop, current)
		}
		current = *p.Next
	}

	return items, nil
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.do(ctx, http.MethodGet, s.baseURL+"/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPlaylists retrieves all playlists for the authenticated user.
func (s *SpotifyService) GetPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	firstURL := fmt.Sprintf("%s/me/playlists?limit=%d", s.baseURL, playlistPageLimit)

	raw, err := fetchAllPages[spotifySimplePlaylist](ctx, s, firstURL)
	if err != nil {
		return nil, err
	}

	playlists := make([]models.PlaylistSummary, 0, len(raw))
	for _, sp := range raw {
		playlists = append(playlists, models.PlaylistSummary{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Owner:       sp.Owner.ID,
			TrackCount:  sp.Tracks.Total,
			ImageURL:    firstImageURL(sp.Images),
			Public:      sp.Public,
		})
	}

	return playlists, nil
}

// GetPlaylistTracks retrieves a playlist's tracks in playlist order.
//
// Local-file entries come back with an empty ID; they survive here so the
// caller can show them, and are dropped by AttachAudioFeatures since they can
// be neither enriched nor re-added.
func (s *SpotifyService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID is required", shared.ErrInvalidInput)
	}

	firstURL := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", s.baseURL, url.PathEscape(playlistID), trackPageLimit)

	raw, err := fetchAllPages[spotifyPlaylistTrack](ctx, s, firstURL)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(raw))
	for _, item := range raw {
		if item.Track == nil {
			continue
		}

		track := models.Track{
			URI:         item.Track.URI,
			Name:        item.Track.Name,
			AlbumArtURL: firstImageURL(item.Track.Album.Images),
			DurationMS:  item.Track.DurationMS,
		}
		if !item.IsLocal {
			track.ID = item.Track.ID
		}
		if len(item.Track.Artists) > 0 {
			track.Artist = item.Track.Artists[0].Name
		}

		tracks = append(tracks, track)
	}

	return tracks, nil
}

// AttachAudioFeatures joins tracks with their audio-feature records.
//
// Tracks without a stable platform ID are dropped first. The remaining
// distinct IDs are looked up in sequential batches of 100 and the records
// merged back by ID; a null record leaves the feature fields nil, which is a
// valid outcome rather than an error. Input order is preserved and the input
// slice is not mutated.
func (s *SpotifyService) AttachAudioFeatures(ctx context.Context, tracks []models.Track) ([]models.Track, error) {
	enrichable := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Addressable() {
			enrichable = append(enrichable, t)
		}
	}

	if len(enrichable) == 0 {
		return enrichable, nil
	}

	ids := make([]string, 0, len(enrichable))
	seen := make(map[string]bool, len(enrichable))
	for _, t := range enrichable {
		if !seen[t.ID] {
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
	}

	features := make(map[string]spotifyAudioFeatures, len(ids))
	for _, batch := range batchStrings(ids, featureBatchSize) {
		lookupURL := fmt.Sprintf("%s/audio-features?ids=%s", s.baseURL, url.QueryEscape(strings.Join(batch, ",")))

		var response struct {
			AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
		}
		if err := s.do(ctx, http.MethodGet, lookupURL, nil, &response); err != nil {
			return nil, err
		}

		for _, record := range response.AudioFeatures {
			if record != nil && record.ID != "" {
				features[record.ID] = *record
			}
		}
	}

	enriched := make([]models.Track, len(enrichable))
	for i, t := range enrichable {
		enriched[i] = t
		if record, ok := features[t.ID]; ok {
			energy := record.Energy
			bpm := int(math.Round(record.Tempo))
			danceability := record.Danceability
			valence := record.Valence

			enriched[i].Energy = &energy
			enriched[i].BPM = &bpm
			enriched[i].Danceability = &danceability
			enriched[i].Valence = &valence
		}
	}

	return enriched, nil
}

// CreatePlaylist creates an empty playlist owned by ownerID and returns its ID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, ownerID, name, description string, public bool) (string, error) {
	if ownerID == "" || name == "" {
		return "", fmt.Errorf("%w: owner ID and name are required", shared.ErrInvalidInput)
	}

	createURL := fmt.Sprintf("%s/users/%s/playlists", s.baseURL, url.PathEscape(ownerID))
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, http.MethodPost, createURL, body, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: create response missing playlist ID", shared.ErrAPIRequest)
	}

	return created.ID, nil
}

// AddTracks appends up to 100 track URIs to a playlist.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > appendBatchSize {
		return fmt.Errorf("%w: at most %d URIs per append", shared.ErrInvalidInput, appendBatchSize)
	}

	appendURL := fmt.Sprintf("%s/playlists/%s/tracks", s.baseURL, url.PathEscape(playlistID))
	return s.do(ctx, http.MethodPost, appendURL, map[string]any{"uris": uris}, nil)
}

// Publish creates the playlist and appends the URIs in sequential batches.
//
// Batch n is issued only after batch n-1 completed, so the remote order
// matches req.URIs exactly. If creation succeeds but an append fails, the
// playlist exists remotely with every earlier batch; that state is reported
// as a *PartialPublishError, never swallowed.
func (s *SpotifyService) Publish(ctx context.Context, req PublishRequest) (string, error) {
	playlistID, err := s.CreatePlaylist(ctx, req.OwnerID, req.Name, req.Description, req.Public)
	if err != nil {
		return "", err
	}

	batches := batchStrings(req.URIs, appendBatchSize)
	for i, batch := range batches {
		if err := s.AddTracks(ctx, playlistID, batch); err != nil {
			return playlistID, &PartialPublishError{
				PlaylistID:   playlistID,
				BatchesDone:  i,
				BatchesTotal: len(batches),
				Err:          err,
			}
		}
	}

	return playlistID, nil
}

// batchStrings partitions values into slices of at most size elements,
// preserving order.
func batchStrings(values []string, size int) [][]string {
	if size <= 0 || len(values) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		batches = append(batches, values[start:end])
	}

	return batches
}

func firstImageURL(images []SpotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
