package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/intune/internal/shared"
)

const (
	spotifyOpenURL     = "https://open.spotify.com"
	placeholderPopStat = "--/100"
)

// Card is one slot of the artist or track grid.
//
// A placeholder card carries the default labels shown on page load.
// A populated card carries a copy of the selected [Item]'s display fields.
type Card struct {
	Type           CardType `json:"type"`
	Index          int      `json:"index"`
	Populated      bool     `json:"populated"`
	ItemID         string   `json:"item_id,omitempty"`
	Title          string   `json:"title"`
	Image          string   `json:"image,omitempty"`
	Tags           []string `json:"tags"`
	Popularity     int      `json:"popularity"`
	PopularityStat string   `json:"popularity_stat"`
	SecondaryStat  string   `json:"secondary_stat"`
	Link           string   `json:"link,omitempty"`
}

// NewPlaceholderCard returns the initial state of the card at (cardType, index).
func NewPlaceholderCard(cardType CardType, index int) Card {
	c := Card{
		Type:           cardType,
		Index:          index,
		PopularityStat: placeholderPopStat,
	}

	if cardType == ArtistCard {
		c.Title = "Artist Name"
		c.Tags = []string{"Genre"}
		c.SecondaryStat = "--"
	} else {
		c.Title = "Track Name"
		c.Tags = []string{"Artist"}
		c.SecondaryStat = "--/--/----"
	}

	return c
}

// Populate replaces every display field with the values of item.
func (c *Card) Populate(item Item) {
	populated := Card{
		Type:           c.Type,
		Index:          c.Index,
		Populated:      true,
		ItemID:         item.ID,
		Title:          item.Name,
		Image:          item.Image,
		Popularity:     item.Popularity,
		PopularityStat: fmt.Sprintf("%d/100", item.Popularity),
		Link:           fmt.Sprintf("%s/%s/%s", spotifyOpenURL, c.Type, item.ID),
	}

	if c.Type == ArtistCard {
		populated.Tags = firstN(item.Genres, 3, "No genres listed")
		populated.SecondaryStat = shared.FormatFollowers(item.Followers)
	} else {
		populated.Tags = firstN(item.Artists, 2, "No artists listed")
		populated.SecondaryStat = item.ReleaseDate
	}

	*c = populated
}

// Clear resets the card to its placeholder state.
func (c *Card) Clear() {
	*c = NewPlaceholderCard(c.Type, c.Index)
}

// ShowAdd reports whether the add button is visible.
func (c Card) ShowAdd() bool { return !c.Populated }

// ShowDelete reports whether the delete button is visible.
func (c Card) ShowDelete() bool { return c.Populated }

// Key returns a stable identifier such as "artist-3".
func (c Card) Key() string { return fmt.Sprintf("%s-%d", c.Type, c.Index) }

func firstN(values []string, n int, fallback string) []string {
	if len(values) == 0 {
		return []string{fallback}
	}
	if len(values) > n {
		values = values[:n]
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// BoardExport is a snapshot of the custom view for export.
type BoardExport struct {
	Title         string    `json:"title"`
	ArtistsHeader string    `json:"artists_header"`
	TracksHeader  string    `json:"tracks_header"`
	Artists       []Card    `json:"artists"`
	Tracks        []Card    `json:"tracks"`
	ArtistAverage float64   `json:"artist_average"`
	TrackAverage  float64   `json:"track_average"`
	ExportedAt    time.Time `json:"exported_at"`
}

// Populated returns the populated cards of both grids, artists first.
func (b *BoardExport) Populated() []Card {
	var out []Card
	for _, grid := range [][]Card{b.Artists, b.Tracks} {
		for _, c := range grid {
			if c.Populated {
				out = append(out, c)
			}
		}
	}
	return out
}
