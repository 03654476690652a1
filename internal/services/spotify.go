// Direct Spotify Web API search used when no InTune backend is available
//
// Response shapes based on https://developer.spotify.com/documentation/web-api/reference/search
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
	maxSearchLimit  = 50
)

var _ Searcher = (*SpotifySearcher)(nil)

type searchPage struct {
	Items []json.RawMessage `json:"items"`
	Total int               `json:"total"`
}

// spotifySearchResponse is the body of GET /v1/search.
type spotifySearchResponse struct {
	Artists *searchPage `json:"artists"`
	Tracks  *searchPage `json:"tracks"`
}

type spotifyError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyOpts configures a [SpotifySearcher].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
	RateLimit    float64
	HTTPClient   *http.Client
}

// SpotifySearcher queries the Spotify search endpoint with an app token.
//
// Uses the client credentials grant so no user login is required. Requests are paced by a token bucket
// limiter so a fast typist cannot exhaust the app's quota.
type SpotifySearcher struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewSpotifySearcher creates a searcher from client credentials.
func NewSpotifySearcher(ctx context.Context, opts SpotifyOpts) (*SpotifySearcher, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	conf := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
	}

	return &SpotifySearcher{
		httpClient: conf.Client(ctx),
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		now:        time.Now,
	}, nil
}

func (s *SpotifySearcher) Name() string {
	return "Spotify"
}

// Search performs GET /search?q=&type=&limit= and converts the page into items.
func (s *SpotifySearcher) Search(ctx context.Context, query string, cardType models.CardType, limit int) ([]models.Item, error) {
	if !cardType.Valid() {
		return nil, fmt.Errorf("%w: unknown card type %q", shared.ErrInvalidInput, cardType)
	}
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", cardType.String())
	params.Set("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr spotifyError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrSearchFailed, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: spotify API error: status %d", shared.ErrSearchFailed, resp.StatusCode)
	}

	var result spotifySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	page := result.Artists
	if cardType == models.TrackCard {
		page = result.Tracks
	}
	if page == nil {
		return []models.Item{}, nil
	}

	return models.DecodeItems(cardType, page.Items, s.now())
}
