// Client for the InTune backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
)

const (
	searchPath         = "/api/search"
	createPlaylistPath = "/create-playlist"
	generateStoryPath  = "/generate-story"
	defaultBaseURL     = "http://localhost:5000"
)

var (
	_ Searcher        = (*APIService)(nil)
	_ PlaylistCreator = (*APIService)(nil)
	_ StoryGenerator  = (*APIService)(nil)
)

// APIService makes requests to the InTune backend.
//
// Every request carries an X-Request-ID header and, when configured, the session cookie of a logged in browser.
type APIService struct {
	baseURL       string
	httpClient    *http.Client
	sessionCookie string
	now           func() time.Time
}

// NewAPIService creates a new API service instance for the backend at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		now:        time.Now,
	}
}

// SetSessionCookie sets the Cookie header sent with every request.
func (a *APIService) SetSessionCookie(cookie string) {
	a.sessionCookie = cookie
}

// Name returns the name of the search backend.
func (a *APIService) Name() string {
	return "InTune API"
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", shared.GenerateID())
	if a.sessionCookie != "" {
		req.Header.Set("Cookie", a.sessionCookie)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Search posts query to /api/search and converts the returned Spotify objects into items.
//
// A non-2xx response or a body carrying an "error" key is reported as [shared.ErrSearchFailed]
// with the backend's message, or "Search failed" when there is none.
func (a *APIService) Search(ctx context.Context, query string, cardType models.CardType, limit int) ([]models.Item, error) {
	payload, err := json.Marshal(models.SearchRequest{Query: query, Type: cardType, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	resp, err := a.Post(ctx, searchPath, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var result models.SearchResponse
	decodeErr := json.Unmarshal(resp.Body, &result)

	if !resp.OK() {
		msg := "Search failed"
		if decodeErr == nil && result.Error != "" {
			msg = result.Error
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrSearchFailed, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrSearchFailed, decodeErr)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrSearchFailed, result.Error)
	}

	items, err := models.DecodeItems(cardType, result.Items, a.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSearchFailed, err)
	}
	return items, nil
}

// CreatePlaylist asks the backend to create a private playlist from the user's top tracks.
func (a *APIService) CreatePlaylist(ctx context.Context, name string) (*models.CreatedPlaylist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	payload, err := json.Marshal(models.PlaylistRequest{PlaylistName: name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist request: %w", err)
	}

	resp, err := a.Post(ctx, createPlaylistPath, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var result models.PlaylistResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("%w: status %d: unreadable response", shared.ErrPlaylistFailed, resp.StatusCode)
	}

	if !result.Success || result.Playlist == nil {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistFailed, msg)
	}

	return result.Playlist, nil
}

// GenerateStory downloads the shareable story image.
func (a *APIService) GenerateStory(ctx context.Context) ([]byte, error) {
	resp, err := a.Get(ctx, generateStoryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if ct := resp.Headers.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: expected image, got %s", shared.ErrAPIRequest, ct)
	}

	return resp.Body, nil
}
