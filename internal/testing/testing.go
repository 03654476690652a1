// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/intune/internal/models"
)

// MockSearcher is a test double for [services.Searcher].
//
// Calls are recorded in order. Results are looked up by query; unknown queries return Items.
type MockSearcher struct {
	mu      sync.Mutex
	Items   []models.Item
	Results map[string][]models.Item
	Err     error
	Calls   []SearchCall
}

// SearchCall records the arguments of one Search call.
type SearchCall struct {
	Query string
	Type  models.CardType
	Limit int
}

func (m *MockSearcher) Search(ctx context.Context, query string, cardType models.CardType, limit int) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, SearchCall{Query: query, Type: cardType, Limit: limit})
	if m.Err != nil {
		return nil, m.Err
	}
	if items, ok := m.Results[query]; ok {
		return items, nil
	}
	return m.Items, nil
}

func (m *MockSearcher) Name() string { return "mock" }

// CallCount returns the number of Search calls made so far.
func (m *MockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockPlaylistCreator is a test double for [services.PlaylistCreator].
type MockPlaylistCreator struct {
	Playlist *models.CreatedPlaylist
	Err      error
	Names    []string
}

func (m *MockPlaylistCreator) CreatePlaylist(ctx context.Context, name string) (*models.CreatedPlaylist, error) {
	m.Names = append(m.Names, name)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Playlist, nil
}

// MockStoryGenerator is a test double for [services.StoryGenerator].
type MockStoryGenerator struct {
	Image []byte
	Err   error
}

func (m *MockStoryGenerator) GenerateStory(ctx context.Context) ([]byte, error) {
	return m.Image, m.Err
}

// ArtistItem builds an artist search result with the given popularity.
func ArtistItem(id string, popularity int) models.Item {
	return models.Item{
		ID:         id,
		Name:       "Artist " + id,
		Popularity: popularity,
		Genres:     []string{"indie"},
		Followers:  1000,
		Subtitle:   "1,000",
	}
}

// TrackItem builds a track search result with the given popularity.
func TrackItem(id string, popularity int) models.Item {
	return models.Item{
		ID:          id,
		Name:        "Track " + id,
		Popularity:  popularity,
		Artists:     []string{"Someone"},
		Subtitle:    "Someone",
		ReleaseDate: "1/1/2020",
	}
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
