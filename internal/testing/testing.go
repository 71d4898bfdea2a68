// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/models"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/services"
	"golang.org/x/oauth2"
)

// MockService is a configurable test double for [services.Service].
//
// Zero value returns empty results everywhere; set the fields a test cares
// about. Errors take precedence over data for the same call.
type MockService struct {
	Playlists    []models.PlaylistSummary
	Tracks       map[string][]models.Track // keyed by playlist ID
	User         *services.SpotifyUser
	PublishedID  string
	LoginAttempt *services.LoginAttempt
	AuthURL      string
	Token        *oauth2.Token

	PlaylistsErr error
	TracksErr    error
	EnrichErr    error
	UserErr      error
	PublishErr   error

	// EnrichFn overrides the default pass-through enrichment when set.
	EnrichFn func([]models.Track) []models.Track

	// PublishCalls records every publish request received.
	PublishCalls []services.PublishRequest
}

var _ services.Service = (*MockService)(nil)

func (m *MockService) Name() string { return "mock" }

func (m *MockService) BeginLogin() (*services.LoginAttempt, string, error) {
	return m.LoginAttempt, m.AuthURL, nil
}

func (m *MockService) CompleteLogin(ctx context.Context, attempt *services.LoginAttempt, code string) (*oauth2.Token, error) {
	return m.Token, nil
}

func (m *MockService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	return nil
}

func (m *MockService) CurrentUser(ctx context.Context) (*services.SpotifyUser, error) {
	if m.UserErr != nil {
		return nil, m.UserErr
	}
	if m.User == nil {
		return &services.SpotifyUser{ID: "mock_user"}, nil
	}
	return m.User, nil
}

func (m *MockService) GetPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	return m.Playlists, nil
}

func (m *MockService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	return m.Tracks[playlistID], nil
}

func (m *MockService) AttachAudioFeatures(ctx context.Context, tracks []models.Track) ([]models.Track, error) {
	if m.EnrichErr != nil {
		return nil, m.EnrichErr
	}
	if m.EnrichFn != nil {
		return m.EnrichFn(tracks), nil
	}

	kept := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Addressable() {
			kept = append(kept, t)
		}
	}
	return kept, nil
}

func (m *MockService) Publish(ctx context.Context, req services.PublishRequest) (string, error) {
	m.PublishCalls = append(m.PublishCalls, req)
	if m.PublishErr != nil {
		return "", m.PublishErr
	}
	if m.PublishedID == "" {
		return "mock_playlist", nil
	}
	return m.PublishedID, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
