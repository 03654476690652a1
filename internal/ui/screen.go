package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/intune/internal/custom"
	"github.com/desertthunder/intune/internal/models"
)

var _ custom.View = (*Screen)(nil)

// Screen is the [custom.View] of the TUI.
//
// It keeps the latest snapshots pushed by the controller and asks the program to redraw.
// The controller calls it with its lock held, so it only copies state and never blocks.
type Screen struct {
	mu       sync.Mutex
	modal    custom.Modal
	cards    map[string]models.Card
	averages custom.Averages
	program  *tea.Program
}

// NewScreen returns an empty screen. Call [Screen.Attach] once the program exists.
func NewScreen() *Screen {
	return &Screen{cards: map[string]models.Card{}}
}

// Attach routes redraw requests to p.
func (s *Screen) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

func (s *Screen) RenderModal(m custom.Modal) {
	s.mu.Lock()
	s.modal = m
	s.mu.Unlock()
	s.refresh()
}

func (s *Screen) RenderCard(c models.Card) {
	s.mu.Lock()
	s.cards[c.Key()] = c
	s.mu.Unlock()
	s.refresh()
}

func (s *Screen) RenderAverages(a custom.Averages) {
	s.mu.Lock()
	s.averages = a
	s.mu.Unlock()
	s.refresh()
}

// Modal returns the last rendered modal.
func (s *Screen) Modal() custom.Modal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

// Card returns the last rendered card at (cardType, index).
func (s *Screen) Card(cardType models.CardType, index int) (models.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cards[models.Card{Type: cardType, Index: index}.Key()]
	return c, ok
}

// Averages returns the last rendered averages.
func (s *Screen) Averages() custom.Averages {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.averages
}

// refresh must not Send synchronously: the controller may be called from inside Update.
func (s *Screen) refresh() {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		go p.Send(refreshMsg())
	}
}
