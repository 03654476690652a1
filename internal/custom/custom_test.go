package custom

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/intune/internal/models"
)

var errStorage = errors.New("disk full")

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// recordingView keeps every snapshot it was given.
type recordingView struct {
	mu       sync.Mutex
	modals   []Modal
	cards    map[string]models.Card
	averages []Averages
}

func newRecordingView() *recordingView {
	return &recordingView{cards: map[string]models.Card{}}
}

func (v *recordingView) RenderModal(m Modal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.modals = append(v.modals, m)
}

func (v *recordingView) RenderCard(c models.Card) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards[c.Key()] = c
}

func (v *recordingView) RenderAverages(a Averages) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.averages = append(v.averages, a)
}

func (v *recordingView) lastModal() Modal {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.modals) == 0 {
		return Modal{}
	}
	return v.modals[len(v.modals)-1]
}

func (v *recordingView) lastAverages() Averages {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.averages) == 0 {
		return Averages{}
	}
	return v.averages[len(v.averages)-1]
}

func (v *recordingView) card(key string) (models.Card, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.cards[key]
	return c, ok
}

// memoryStore implements [BoardStore] and [HeaderStore] in memory.
type memoryStore struct {
	cards   []models.Card
	headers models.HeaderOverrides
	err     error
	saves   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{headers: models.HeaderOverrides{}}
}

func (s *memoryStore) LoadCards() ([]models.Card, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cards, nil
}

func (s *memoryStore) SaveCards(cards []models.Card) error {
	if s.err != nil {
		return s.err
	}
	s.saves++
	s.cards = cards
	return nil
}

func (s *memoryStore) LoadHeaders() (models.HeaderOverrides, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.headers, nil
}

func (s *memoryStore) SaveHeader(field, text string) error {
	if s.err != nil {
		return s.err
	}
	s.headers[field] = text
	return nil
}

func (s *memoryStore) RemoveHeader(field string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.headers, field)
	return nil
}
