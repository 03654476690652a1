// package models defines the data model for the InTune custom view
package models

import (
	"fmt"
	"strings"
)

// CardType identifies which grid a card belongs to.
type CardType string

const (
	ArtistCard CardType = "artist"
	TrackCard  CardType = "track"
)

// ParseCardType converts a user supplied string into a [CardType].
func ParseCardType(s string) (CardType, error) {
	switch CardType(strings.ToLower(strings.TrimSpace(s))) {
	case ArtistCard:
		return ArtistCard, nil
	case TrackCard:
		return TrackCard, nil
	default:
		return "", fmt.Errorf("unknown card type %q", s)
	}
}

func (c CardType) String() string { return string(c) }

// Plural returns "artists" or "tracks".
func (c CardType) Plural() string { return string(c) + "s" }

// Valid reports whether c is one of the known card types.
func (c CardType) Valid() bool { return c == ArtistCard || c == TrackCard }

// Item is a search result reduced to the fields a card displays.
//
// Genres and Followers are set for artists; Album, Artists and ReleaseDate for tracks.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image,omitempty"`
	Subtitle    string   `json:"subtitle"`
	Popularity  int      `json:"popularity"`
	Genres      []string `json:"genres,omitempty"`
	Followers   int      `json:"followers,omitempty"`
	Album       string   `json:"album,omitempty"`
	Artists     []string `json:"artists,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
}

// HeaderOverrides maps an editable header field to its user supplied label.
type HeaderOverrides map[string]string
