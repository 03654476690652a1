package custom

import (
	"fmt"
	"math"
	"strconv"

	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
)

// Averages holds the mean popularity of the populated cards of each grid.
type Averages struct {
	Artist float64 `json:"artist"`
	Track  float64 `json:"track"`
}

// Of returns the average for cardType.
func (a Averages) Of(cardType models.CardType) float64 {
	if cardType == models.TrackCard {
		return a.Track
	}
	return a.Artist
}

// FormatAverage renders an average the way the grid header shows it ("72", "72.5").
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Board is the artist and track grids. It is not safe for concurrent use; [Controller] guards it.
type Board struct {
	artists []models.Card
	tracks  []models.Card
}

// NewBoard returns a board of placeholder cards.
func NewBoard(artistSlots, trackSlots int) *Board {
	b := &Board{
		artists: make([]models.Card, artistSlots),
		tracks:  make([]models.Card, trackSlots),
	}
	for i := range b.artists {
		b.artists[i] = models.NewPlaceholderCard(models.ArtistCard, i)
	}
	for i := range b.tracks {
		b.tracks[i] = models.NewPlaceholderCard(models.TrackCard, i)
	}
	return b
}

func (b *Board) grid(cardType models.CardType) ([]models.Card, error) {
	switch cardType {
	case models.ArtistCard:
		return b.artists, nil
	case models.TrackCard:
		return b.tracks, nil
	default:
		return nil, fmt.Errorf("%w: unknown card type %q", shared.ErrCardNotFound, cardType)
	}
}

func (b *Board) slot(cardType models.CardType, index int) (*models.Card, error) {
	cards, err := b.grid(cardType)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cards) {
		return nil, fmt.Errorf("%w: %s-%d", shared.ErrCardNotFound, cardType, index)
	}
	return &cards[index], nil
}

// Card returns a copy of the card at (cardType, index).
func (b *Board) Card(cardType models.CardType, index int) (models.Card, error) {
	c, err := b.slot(cardType, index)
	if err != nil {
		return models.Card{}, err
	}
	return copyCard(*c), nil
}

// Populate fills the card at (cardType, index) from item and returns the new card.
func (b *Board) Populate(cardType models.CardType, index int, item models.Item) (models.Card, error) {
	c, err := b.slot(cardType, index)
	if err != nil {
		return models.Card{}, err
	}
	c.Populate(item)
	return copyCard(*c), nil
}

// Clear resets the card at (cardType, index) to its placeholder and returns it.
func (b *Board) Clear(cardType models.CardType, index int) (models.Card, error) {
	c, err := b.slot(cardType, index)
	if err != nil {
		return models.Card{}, err
	}
	c.Clear()
	return copyCard(*c), nil
}

// Cards returns a copy of one grid in index order.
func (b *Board) Cards(cardType models.CardType) []models.Card {
	cards, err := b.grid(cardType)
	if err != nil {
		return nil
	}
	out := make([]models.Card, len(cards))
	for i, c := range cards {
		out[i] = copyCard(c)
	}
	return out
}

// Populated returns every populated card of both grids, artists first.
func (b *Board) Populated() []models.Card {
	var out []models.Card
	for _, grid := range [][]models.Card{b.artists, b.tracks} {
		for _, c := range grid {
			if c.Populated {
				out = append(out, copyCard(c))
			}
		}
	}
	return out
}

// Restore places previously saved cards back on the board.
//
// Cards whose slot no longer exists are skipped and counted in the returned value.
func (b *Board) Restore(cards []models.Card) (skipped int) {
	for _, saved := range cards {
		c, err := b.slot(saved.Type, saved.Index)
		if err != nil || !saved.Populated {
			skipped++
			continue
		}
		*c = copyCard(saved)
	}
	return skipped
}

// Averages recomputes both averages from scratch.
func (b *Board) Averages() Averages {
	return Averages{
		Artist: AveragePopularity(b.artists),
		Track:  AveragePopularity(b.tracks),
	}
}

// AveragePopularity is the mean popularity of the populated cards rounded to one decimal, or 0 when none are populated.
func AveragePopularity(cards []models.Card) float64 {
	sum, count := 0, 0
	for _, c := range cards {
		if !c.Populated {
			continue
		}
		sum += c.Popularity
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10
}

func copyCard(c models.Card) models.Card {
	if c.Tags != nil {
		c.Tags = append([]string(nil), c.Tags...)
	}
	return c
}
