package custom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/services"
	"github.com/desertthunder/intune/internal/shared"
)

const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultMinQueryLength = 2
	DefaultSearchLimit    = 10
)

// BoardStore persists populated cards between sessions.
type BoardStore interface {
	LoadCards() ([]models.Card, error)
	SaveCards(cards []models.Card) error
}

// ControllerOpts configures a [Controller]. Only Searcher is required.
type ControllerOpts struct {
	Board          *Board
	View           View
	Searcher       services.Searcher
	Scheduler      Scheduler
	Store          BoardStore
	Logger         *log.Logger
	Debounce       time.Duration
	MinQueryLength int
	Limit          int
}

// Controller owns the search-select-commit modal and the board it edits.
//
// All methods are safe for concurrent use. The debounced search runs on the scheduler's goroutine
// and reports back through the [View].
type Controller struct {
	mu sync.Mutex

	board     *Board
	view      View
	searcher  services.Searcher
	scheduler Scheduler
	store     BoardStore
	logger    *log.Logger

	debounce       time.Duration
	minQueryLength int
	limit          int

	modal    Modal
	averages Averages
	timer    Timer
	cancel   context.CancelFunc
	// generation increments whenever pending or in-flight search results become stale.
	generation uint64
}

// NewController creates a controller with defaults for every unset option.
func NewController(opts ControllerOpts) *Controller {
	if opts.Board == nil {
		opts.Board = NewBoard(10, 10)
	}
	if opts.View == nil {
		opts.View = nopView{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewScheduler()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = DefaultMinQueryLength
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}

	return &Controller{
		board:          opts.Board,
		view:           opts.View,
		searcher:       opts.Searcher,
		scheduler:      opts.Scheduler,
		store:          opts.Store,
		logger:         shared.WithLogger(opts.Logger, "component", "custom"),
		debounce:       opts.Debounce,
		minQueryLength: opts.MinQueryLength,
		limit:          opts.Limit,
		averages:       opts.Board.Averages(),
	}
}

// Load restores saved cards, recomputes the averages and renders the whole board.
//
// A store failure is logged and the board starts empty.
func (c *Controller) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		cards, err := c.store.LoadCards()
		if err != nil {
			c.logger.Warn("could not load saved cards", "error", err)
		} else if skipped := c.board.Restore(cards); skipped > 0 {
			c.logger.Warn("skipped saved cards outside the board", "count", skipped)
		}
	}

	for _, t := range []models.CardType{models.ArtistCard, models.TrackCard} {
		for _, card := range c.board.Cards(t) {
			c.view.RenderCard(card)
		}
	}
	c.recomputeLocked()
}

// Open targets the card at (cardType, index), resets transient state and shows the modal.
func (c *Controller) Open(cardType models.CardType, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.board.Card(cardType, index); err != nil {
		return err
	}

	c.abortLocked()
	c.modal = newModal(cardType, index, c.minQueryLength)
	c.logger.Debug("modal opened", "card", fmt.Sprintf("%s-%d", cardType, index))
	c.view.RenderModal(c.modal.snapshot())
	return nil
}

// QueryChanged handles an edit of the search box.
//
// Empty text resets the modal. Text under the minimum length shows the empty state without a request.
// Anything else restarts the debounce window; only the last query of a burst is searched.
func (c *Controller) QueryChanged(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.modal.Open {
		return shared.ErrModalClosed
	}

	query := strings.TrimSpace(text)
	c.abortLocked()

	switch {
	case query == "":
		c.modal.resetSearch()
	case utf8.RuneCountInString(query) < c.minQueryLength:
		c.modal.Query = query
		c.modal.State = ResultsTooShort
		c.modal.Results = nil
		c.modal.Err = ""
	default:
		c.modal.Query = query
		gen := c.generation
		c.timer = c.scheduler.AfterFunc(c.debounce, func() {
			c.search(gen, query)
		})
	}

	c.view.RenderModal(c.modal.snapshot())
	return nil
}

// search runs one settled query. Results are dropped if the generation moved on while the request was in flight.
func (c *Controller) search(gen uint64, query string) {
	c.mu.Lock()
	if gen != c.generation || !c.modal.Open {
		c.mu.Unlock()
		return
	}

	if c.searcher == nil {
		c.modal.State = ResultsError
		c.modal.Err = shared.ErrServiceUnavailable.Error()
		c.view.RenderModal(c.modal.snapshot())
		c.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.timer = nil
	cardType := c.modal.Target
	c.modal.State = ResultsLoading
	c.modal.Err = ""
	c.view.RenderModal(c.modal.snapshot())
	c.mu.Unlock()

	c.logger.Debug("search dispatched", "query", query, "type", cardType, "backend", c.searcher.Name())
	items, err := c.searcher.Search(ctx, query, cardType, c.limit)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("discarding stale search response", "query", query)
		return
	}
	c.cancel = nil

	switch {
	case errors.Is(err, context.Canceled):
		return
	case err != nil:
		c.logger.Warn("search failed", "query", query, "error", err)
		c.modal.State = ResultsError
		c.modal.Results = nil
		c.modal.Err = err.Error()
	case len(items) == 0:
		c.modal.State = ResultsNotFound
		c.modal.Results = nil
	default:
		c.modal.State = ResultsFound
		c.modal.Results = items
	}

	c.view.RenderModal(c.modal.snapshot())
}

// Select marks the result with itemID as the pending selection and enables commit.
func (c *Controller) Select(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.modal.Open {
		return shared.ErrModalClosed
	}

	for _, item := range c.modal.Results {
		if item.ID == itemID {
			selected := item
			c.modal.Selected = &selected
			c.view.RenderModal(c.modal.snapshot())
			return nil
		}
	}
	return fmt.Errorf("%w: no result with id %q", shared.ErrInvalidInput, itemID)
}

// Commit copies the selection onto the target card, recomputes the averages and closes the modal.
func (c *Controller) Commit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.modal.Open {
		return shared.ErrModalClosed
	}
	if c.modal.Selected == nil {
		return shared.ErrNoSelection
	}

	card, err := c.board.Populate(c.modal.Target, c.modal.Index, *c.modal.Selected)
	if err != nil {
		return err
	}

	c.logger.Debug("card populated", "card", card.Key(), "item", card.ItemID)
	c.view.RenderCard(card)
	c.recomputeLocked()
	c.persistLocked()
	c.closeLocked()
	return nil
}

// Close clears the selection, cancels any pending search and hides the modal.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// ClearCard resets the card at (cardType, index) to its placeholder.
func (c *Controller) ClearCard(cardType models.CardType, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	card, err := c.board.Clear(cardType, index)
	if err != nil {
		return err
	}

	c.logger.Debug("card cleared", "card", card.Key())
	c.view.RenderCard(card)
	c.recomputeLocked()
	c.persistLocked()
	return nil
}

// Shutdown stops the pending timer and cancels any in-flight search.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abortLocked()
}

// Modal returns a snapshot of the modal.
func (c *Controller) Modal() Modal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal.snapshot()
}

// Cards returns a snapshot of one grid.
func (c *Controller) Cards(cardType models.CardType) []models.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Cards(cardType)
}

// Card returns a snapshot of a single card.
func (c *Controller) Card(cardType models.CardType, index int) (models.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Card(cardType, index)
}

// Averages returns the most recently computed averages.
func (c *Controller) Averages() Averages {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.averages
}

func (c *Controller) closeLocked() {
	c.abortLocked()
	c.modal = Modal{}
	c.view.RenderModal(c.modal)
}

// abortLocked stops the debounce timer, cancels the in-flight request and invalidates both.
func (c *Controller) abortLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
}

func (c *Controller) recomputeLocked() {
	c.averages = c.board.Averages()
	c.view.RenderAverages(c.averages)
}

func (c *Controller) persistLocked() {
	if c.store == nil {
		return
	}
	if err := c.store.SaveCards(c.board.Populated()); err != nil {
		c.logger.Warn("could not save cards", "error", err)
	}
}
