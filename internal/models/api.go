package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/intune/internal/shared"
)

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string   `json:"query"`
	Type  CardType `json:"type"`
	Limit int      `json:"limit"`
}

// SearchResponse is the body returned by POST /api/search.
//
// Items holds raw Spotify artist or track objects depending on the request type.
type SearchResponse struct {
	Items []json.RawMessage `json:"items"`
	Error string            `json:"error,omitempty"`
}

// PlaylistRequest is the body of POST /create-playlist.
type PlaylistRequest struct {
	PlaylistName string `json:"playlist_name"`
}

// CreatedPlaylist describes a playlist created by the backend.
type CreatedPlaylist struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	TracksAdded int    `json:"tracks_added"`
	URL         string `json:"url"`
}

// PlaylistRecord is a created playlist kept in local history.
type PlaylistRecord struct {
	ID          string    `json:"id"`
	Sequence    int       `json:"sequence"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	TracksAdded int       `json:"tracks_added"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlaylistResponse is the body returned by POST /create-playlist.
type PlaylistResponse struct {
	Success  bool             `json:"success"`
	Playlist *CreatedPlaylist `json:"playlist,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyArtist represents a Spotify artist object.
type SpotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Images     []SpotifyImage `json:"images"`
	Followers  *followers     `json:"followers"`
	Popularity int            `json:"popularity"`
}

// SpotifyAlbum represents the album embedded in a track object.
type SpotifyAlbum struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ReleaseDate string         `json:"release_date"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track object.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      *SpotifyAlbum   `json:"album"`
	Popularity int             `json:"popularity"`
}

// ToItem reduces the artist to the fields a card displays.
func (a SpotifyArtist) ToItem() Item {
	item := Item{
		ID:         a.ID,
		Name:       a.Name,
		Popularity: a.Popularity,
		Genres:     a.Genres,
		Subtitle:   "No follower data",
	}
	if len(a.Images) > 0 {
		item.Image = a.Images[0].URL
	}
	if a.Followers != nil {
		item.Followers = a.Followers.Total
		item.Subtitle = shared.FormatFollowers(a.Followers.Total)
	}
	return item
}

// ToItem reduces the track to the fields a card displays.
//
// now supplies the fallback year when the album has no release date.
func (t SpotifyTrack) ToItem(now time.Time) Item {
	item := Item{
		ID:         t.ID,
		Name:       t.Name,
		Popularity: t.Popularity,
		Subtitle:   "Unknown artist",
		Artists:    []string{"Unknown artist"},
	}

	if len(t.Artists) > 0 {
		names := make([]string, len(t.Artists))
		for i, a := range t.Artists {
			names[i] = a.Name
		}
		item.Artists = names
		item.Subtitle = strings.Join(names, ", ")
	}

	releaseDate := ""
	if t.Album != nil {
		item.Album = t.Album.Name
		releaseDate = t.Album.ReleaseDate
		if len(t.Album.Images) > 0 {
			item.Image = t.Album.Images[0].URL
		}
	}
	item.ReleaseDate = shared.FormatReleaseDate(releaseDate, now)

	return item
}

// DecodeItems converts raw search results into items of the given card type.
func DecodeItems(cardType CardType, raw []json.RawMessage, now time.Time) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		switch cardType {
		case ArtistCard:
			var a SpotifyArtist
			if err := json.Unmarshal(r, &a); err != nil {
				return nil, fmt.Errorf("failed to decode artist %d: %w", i, err)
			}
			items = append(items, a.ToItem())
		case TrackCard:
			var t SpotifyTrack
			if err := json.Unmarshal(r, &t); err != nil {
				return nil, fmt.Errorf("failed to decode track %d: %w", i, err)
			}
			items = append(items, t.ToItem(now))
		default:
			return nil, fmt.Errorf("unknown card type %q", cardType)
		}
	}
	return items, nil
}
