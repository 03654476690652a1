package repositories

import (
	"fmt"

	"github.com/desertthunder/intune/internal/models"
)

// CardsKey is the local storage key holding the populated cards of the custom board.
const CardsKey = "intune_custom_cards"

// BoardRepository stores the populated cards of the custom board under [CardsKey].
type BoardRepository struct {
	storage *LocalStorage
}

// NewBoardRepository creates a new [BoardRepository] backed by storage
func NewBoardRepository(storage *LocalStorage) *BoardRepository {
	return &BoardRepository{storage: storage}
}

// LoadCards returns the saved cards, or none when the board was never saved.
func (r *BoardRepository) LoadCards() ([]models.Card, error) {
	var cards []models.Card
	if _, err := r.storage.getJSON(CardsKey, &cards); err != nil {
		return nil, err
	}

	for i, c := range cards {
		if !c.Type.Valid() {
			return nil, fmt.Errorf("saved card %d has unknown type %q", i, c.Type)
		}
	}
	return cards, nil
}

// SaveCards replaces the saved board. Placeholder cards are dropped.
func (r *BoardRepository) SaveCards(cards []models.Card) error {
	populated := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if c.Populated {
			populated = append(populated, c)
		}
	}
	return r.storage.setJSON(CardsKey, populated)
}
