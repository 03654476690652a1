package custom

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
	tu "github.com/desertthunder/intune/internal/testing"
)

type fixture struct {
	ctrl      *Controller
	view      *recordingView
	searcher  *tu.MockSearcher
	scheduler *FakeScheduler
	store     *memoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		view:      newRecordingView(),
		searcher:  &tu.MockSearcher{},
		scheduler: NewFakeScheduler(),
		store:     newMemoryStore(),
	}
	f.ctrl = NewController(ControllerOpts{
		Board:     NewBoard(4, 4),
		View:      f.view,
		Searcher:  f.searcher,
		Scheduler: f.scheduler,
		Store:     f.store,
		Logger:    quietLogger(),
	})
	return f
}

// commit runs the whole flow for one card.
func (f *fixture) commit(t *testing.T, cardType models.CardType, index int, item models.Item) {
	t.Helper()

	f.searcher.Items = []models.Item{item}
	if err := f.ctrl.Open(cardType, index); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := f.ctrl.QueryChanged("query"); err != nil {
		t.Fatalf("QueryChanged() error = %v", err)
	}
	f.scheduler.Advance(DefaultDebounce)
	if err := f.ctrl.Select(item.ID); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if err := f.ctrl.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func TestControllerOpen(t *testing.T) {
	t.Run("sets title and placeholder by type", func(t *testing.T) {
		f := newFixture(t)

		if err := f.ctrl.Open(models.ArtistCard, 1); err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		m := f.view.lastModal()
		if !m.Open || m.Title != "Add Artist" || m.Placeholder != "Search for artists..." {
			t.Errorf("unexpected artist modal %+v", m)
		}

		f.ctrl.Open(models.TrackCard, 0)
		m = f.view.lastModal()
		if m.Title != "Add Track" || m.Placeholder != "Search for tracks..." || m.Target != models.TrackCard {
			t.Errorf("unexpected track modal %+v", m)
		}
		if m.State != ResultsIdle || m.Selected != nil || m.CanCommit() {
			t.Error("expected fresh modal state")
		}
	})

	t.Run("unknown card", func(t *testing.T) {
		f := newFixture(t)

		if err := f.ctrl.Open(models.ArtistCard, 4); !errors.Is(err, shared.ErrCardNotFound) {
			t.Errorf("expected ErrCardNotFound, got %v", err)
		}
		if f.ctrl.Modal().Open {
			t.Error("modal should stay closed")
		}
	})

	t.Run("reopening discards previous selection and timer", func(t *testing.T) {
		f := newFixture(t)
		f.searcher.Items = []models.Item{tu.ArtistItem("a1", 50)}

		f.ctrl.Open(models.ArtistCard, 0)
		f.ctrl.QueryChanged("abc")
		f.scheduler.Advance(DefaultDebounce)
		f.ctrl.Select("a1")
		f.ctrl.QueryChanged("abcd")

		f.ctrl.Open(models.ArtistCard, 2)
		f.scheduler.Advance(time.Second)

		m := f.ctrl.Modal()
		if m.Selected != nil || m.Results != nil || m.Index != 2 {
			t.Errorf("expected reset modal, got %+v", m)
		}
		if f.searcher.CallCount() != 1 {
			t.Errorf("expected pending search to be canceled, got %d calls", f.searcher.CallCount())
		}
	})
}

func TestControllerQueryChanged(t *testing.T) {
	t.Run("closed modal", func(t *testing.T) {
		f := newFixture(t)
		if err := f.ctrl.QueryChanged("abc"); !errors.Is(err, shared.ErrModalClosed) {
			t.Errorf("expected ErrModalClosed, got %v", err)
		}
	})

	t.Run("short query never searches", func(t *testing.T) {
		f := newFixture(t)
		f.ctrl.Open(models.ArtistCard, 0)

		for _, q := range []string{"a", " b ", "é", "a "} {
			if err := f.ctrl.QueryChanged(q); err != nil {
				t.Fatalf("QueryChanged(%q) error = %v", q, err)
			}
			if f.view.lastModal().State != ResultsTooShort {
				t.Errorf("QueryChanged(%q) state = %s, want too-short", q, f.view.lastModal().State)
			}
			f.scheduler.Advance(time.Second)
		}

		if f.searcher.CallCount() != 0 {
			t.Errorf("expected no network calls, got %d", f.searcher.CallCount())
		}
		if f.scheduler.Pending() != 0 {
			t.Errorf("expected no pending timers, got %d", f.scheduler.Pending())
		}
	})

	t.Run("one search per debounce window", func(t *testing.T) {
		f := newFixture(t)
		f.ctrl.Open(models.TrackCard, 0)

		for _, q := range []string{"mo", "mot", "moti", "motio", "motion"} {
			f.ctrl.QueryChanged(q)
			f.scheduler.Advance(100 * time.Millisecond)
		}
		if f.searcher.CallCount() != 0 {
			t.Fatalf("search issued before the window settled: %d calls", f.searcher.CallCount())
		}

		f.scheduler.Advance(399 * time.Millisecond)
		if f.searcher.CallCount() != 0 {
			t.Fatalf("search issued early: %d calls", f.searcher.CallCount())
		}
		f.scheduler.Advance(time.Millisecond)

		if f.searcher.CallCount() != 1 {
			t.Fatalf("expected exactly one call, got %d", f.searcher.CallCount())
		}
		call := f.searcher.Calls[0]
		if call.Query != "motion" || call.Type != models.TrackCard || call.Limit != DefaultSearchLimit {
			t.Errorf("unexpected call %+v", call)
		}

		f.ctrl.QueryChanged("motion sickness")
		f.scheduler.Advance(DefaultDebounce)
		if f.searcher.CallCount() != 2 {
			t.Errorf("expected a second call for the next window, got %d", f.searcher.CallCount())
		}
	})

	t.Run("query is trimmed", func(t *testing.T) {
		f := newFixture(t)
		f.ctrl.Open(models.ArtistCard, 0)

		f.ctrl.QueryChanged("  mitski  ")
		f.scheduler.Advance(DefaultDebounce)

		if f.searcher.Calls[0].Query != "mitski" {
			t.Errorf("expected trimmed query, got %q", f.searcher.Calls[0].Query)
		}
	})

	t.Run("empty query resets modal", func(t *testing.T) {
		f := newFixture(t)
		f.searcher.Items = []models.Item{tu.ArtistItem("a1", 10)}
		f.ctrl.Open(models.ArtistCard, 0)
		f.ctrl.QueryChanged("abc")
		f.scheduler.Advance(DefaultDebounce)
		f.ctrl.Select("a1")

		f.ctrl.QueryChanged("abcd")
		f.ctrl.QueryChanged("   ")
		f.scheduler.Advance(time.Second)

		m := f.ctrl.Modal()
		if m.State != ResultsIdle || m.Results != nil || m.Selected != nil || m.CanCommit() || m.Query != "" {
			t.Errorf("expected idle modal, got %+v", m)
		}
		if !m.Open {
			t.Error("modal should remain open")
		}
		if f.searcher.CallCount() != 1 {
			t.Errorf("expected pending search to be canceled, got %d calls", f.searcher.CallCount())
		}
	})

	t.Run("loading then results", func(t *testing.T) {
		f := newFixture(t)
		f.searcher.Items = []models.Item{tu.ArtistItem("a1", 10), tu.ArtistItem("a2", 20)}
		f.ctrl.Open(models.ArtistCard, 0)
		f.ctrl.QueryChanged("abc")
		f.scheduler.Advance(DefaultDebounce)

		var states []ResultState
		for _, m := range f.view.modals {
			states = append(states, m.State)
		}
		n := len(states)
		if n < 2 || states[n-2] != ResultsLoading || states[n-1] != ResultsFound {
			t.Errorf("expected loading then found, got %v", states)
		}
		if len(f.view.lastModal().Results) != 2 {
			t.Errorf("expected 2 results, got %d", len(f.view.lastModal().Results))
		}
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.ctrl.Open(models.ArtistCard, 0)
		f.ctrl.QueryChanged("zzzzzz")
		f.scheduler.Advance(DefaultDebounce)

		if f.view.lastModal().State != ResultsNotFound {
			t.Errorf("expected not-found state, got %s", f.view.lastModal().State)
		}
	})

	t.Run("search error is shown inline", func(t *testing.T) {
		f := newFixture(t)
		f.searcher.Err = fmt.Errorf("%w: Not authenticated", shared.ErrSearchFailed)
		f.ctrl.Open(models.ArtistCard, 0)
		f.ctrl.QueryChanged("abc")
		f.scheduler.Advance(DefaultDebounce)

		m := f.view.lastModal()
		if m.State != ResultsError || m.Err != "search failed: Not authenticated" {
			t.Errorf("unexpected error state %+v", m)
		}
		if !m.Open {
			t.Error("search errors must not close the modal")
		}
	})

	t.Run("missing searcher", func(t *testing.T) {
		ctrl := NewController(ControllerOpts{Scheduler: NewFakeScheduler(), Logger: quietLogger()})
		ctrl.Open(models.ArtistCard, 0)
		ctrl.QueryChanged("abc")
		ctrl.scheduler.(*FakeScheduler).Advance(DefaultDebounce)

		if ctrl.Modal().State != ResultsError {
			t.Errorf("expected error state, got %s", ctrl.Modal().State)
		}
	})

	t.Run("custom debounce and minimum", func(t *testing.T) {
		scheduler := NewFakeScheduler()
		searcher := &tu.MockSearcher{}
		ctrl := NewController(ControllerOpts{
			Searcher:       searcher,
			Scheduler:      scheduler,
			Logger:         quietLogger(),
			Debounce:       200 * time.Millisecond,
			MinQueryLength: 4,
			Limit:          3,
		})
		ctrl.Open(models.ArtistCard, 0)
		if got := ctrl.Modal().MinQuery; got != 4 {
			t.Errorf("modal minimum = %d, want 4", got)
		}

		ctrl.QueryChanged("abc")
		scheduler.Advance(time.Second)
		if ctrl.Modal().State != ResultsTooShort {
			t.Errorf("expected too-short state, got %v", ctrl.Modal().State)
		}
		ctrl.QueryChanged("abcd")
		scheduler.Advance(200 * time.Millisecond)

		if searcher.CallCount() != 1 || searcher.Calls[0].Limit != 3 {
			t.Errorf("unexpected calls %+v", searcher.Calls)
		}
	})
}

// blockingSearcher holds each request until released and ignores cancellation,
// like a backend that answers late.
type blockingSearcher struct {
	started chan string
	release chan []models.Item
	ctxErrs chan error
}

func (b *blockingSearcher) Search(ctx context.Context, query string, cardType models.CardType, limit int) ([]models.Item, error) {
	b.started <- query
	items := <-b.release
	b.ctxErrs <- ctx.Err()
	return items, nil
}

func (b *blockingSearcher) Name() string { return "blocking" }

func TestControllerStaleResponses(t *testing.T) {
	searcher := &blockingSearcher{
		started: make(chan string, 1),
		release: make(chan []models.Item),
		ctxErrs: make(chan error, 1),
	}
	scheduler := NewFakeScheduler()
	view := newRecordingView()
	ctrl := NewController(ControllerOpts{
		View:      view,
		Searcher:  searcher,
		Scheduler: scheduler,
		Logger:    quietLogger(),
	})

	ctrl.Open(models.ArtistCard, 0)
	ctrl.QueryChanged("old")

	done := make(chan struct{})
	go func() {
		scheduler.Advance(DefaultDebounce)
		close(done)
	}()

	if q := <-searcher.started; q != "old" {
		t.Fatalf("expected first search for 'old', got %q", q)
	}

	// A newer keystroke arrives while the first request is still in flight.
	ctrl.QueryChanged("newer")

	searcher.release <- []models.Item{tu.ArtistItem("stale", 1)}
	<-done

	if err := <-searcher.ctxErrs; !errors.Is(err, context.Canceled) {
		t.Errorf("expected in-flight request context to be canceled, got %v", err)
	}

	m := ctrl.Modal()
	if m.State == ResultsFound || len(m.Results) != 0 {
		t.Errorf("stale response was applied: %+v", m)
	}
	if m.Query != "newer" {
		t.Errorf("expected query 'newer', got %q", m.Query)
	}
}

func TestControllerSelect(t *testing.T) {
	f := newFixture(t)
	f.searcher.Items = []models.Item{tu.ArtistItem("a1", 10), tu.ArtistItem("a2", 20)}

	if err := f.ctrl.Select("a1"); !errors.Is(err, shared.ErrModalClosed) {
		t.Errorf("expected ErrModalClosed, got %v", err)
	}

	f.ctrl.Open(models.ArtistCard, 0)
	f.ctrl.QueryChanged("abc")
	f.scheduler.Advance(DefaultDebounce)

	if err := f.ctrl.Select("missing"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	f.ctrl.Select("a1")
	f.ctrl.Select("a2")

	m := f.view.lastModal()
	if !m.CanCommit() || !m.IsSelected("a2") || m.IsSelected("a1") {
		t.Errorf("expected a2 to be the only selection, got %+v", m.Selected)
	}
}

func TestControllerCommit(t *testing.T) {
	t.Run("requires selection", func(t *testing.T) {
		f := newFixture(t)

		if err := f.ctrl.Commit(); !errors.Is(err, shared.ErrModalClosed) {
			t.Errorf("expected ErrModalClosed, got %v", err)
		}

		f.ctrl.Open(models.ArtistCard, 0)
		if err := f.ctrl.Commit(); !errors.Is(err, shared.ErrNoSelection) {
			t.Errorf("expected ErrNoSelection, got %v", err)
		}
		if !f.ctrl.Modal().Open {
			t.Error("failed commit must keep the modal open")
		}
	})

	t.Run("populates card and closes modal", func(t *testing.T) {
		f := newFixture(t)
		item := tu.ArtistItem("a1", 74)
		f.commit(t, models.ArtistCard, 2, item)

		card, err := f.ctrl.Card(models.ArtistCard, 2)
		if err != nil {
			t.Fatalf("Card() error = %v", err)
		}
		if !card.Populated || card.ItemID != "a1" || card.PopularityStat != "74/100" {
			t.Errorf("unexpected card %+v", card)
		}

		rendered, ok := f.view.card("artist-2")
		if !ok || !reflect.DeepEqual(rendered, card) {
			t.Errorf("view did not receive populated card: %+v", rendered)
		}

		m := f.view.lastModal()
		if m.Open || m.Selected != nil {
			t.Errorf("expected closed modal, got %+v", m)
		}
	})

	t.Run("recomputes averages", func(t *testing.T) {
		f := newFixture(t)

		f.commit(t, models.ArtistCard, 0, tu.ArtistItem("a1", 80))
		if got := f.view.lastAverages(); got.Artist != 80 || got.Track != 0 {
			t.Errorf("unexpected averages %+v", got)
		}

		f.commit(t, models.ArtistCard, 3, tu.ArtistItem("a2", 65))
		f.commit(t, models.TrackCard, 1, tu.TrackItem("t1", 33))

		want := Averages{Artist: 72.5, Track: 33}
		if got := f.view.lastAverages(); got != want {
			t.Errorf("averages = %+v, want %+v", got, want)
		}
		if f.ctrl.Averages() != want {
			t.Errorf("controller averages = %+v, want %+v", f.ctrl.Averages(), want)
		}

		// Replacing a card counts only its new value.
		f.commit(t, models.ArtistCard, 0, tu.ArtistItem("a3", 20))
		if got := f.ctrl.Averages().Artist; got != 42.5 {
			t.Errorf("expected 42.5 after replacement, got %v", got)
		}
	})

	t.Run("persists populated cards", func(t *testing.T) {
		f := newFixture(t)
		f.commit(t, models.TrackCard, 3, tu.TrackItem("t9", 12))

		if len(f.store.cards) != 1 || f.store.cards[0].Key() != "track-3" {
			t.Errorf("unexpected saved cards %+v", f.store.cards)
		}
	})

	t.Run("storage failure is not surfaced", func(t *testing.T) {
		f := newFixture(t)
		f.store.err = errStorage
		f.commit(t, models.ArtistCard, 0, tu.ArtistItem("a1", 50))

		if c, _ := f.ctrl.Card(models.ArtistCard, 0); !c.Populated {
			t.Error("card should be populated despite the storage failure")
		}
	})
}

func TestControllerClose(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open(models.ArtistCard, 0)
	f.ctrl.QueryChanged("abc")

	f.ctrl.Close()
	f.scheduler.Advance(time.Second)

	if f.searcher.CallCount() != 0 {
		t.Errorf("close should cancel the pending search, got %d calls", f.searcher.CallCount())
	}
	if f.scheduler.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", f.scheduler.Pending())
	}
	if m := f.view.lastModal(); m.Open || m.Selected != nil {
		t.Errorf("expected hidden modal, got %+v", m)
	}
}

func TestControllerClearCard(t *testing.T) {
	t.Run("restores initial state", func(t *testing.T) {
		f := newFixture(t)
		initial, _ := f.ctrl.Card(models.TrackCard, 2)

		f.commit(t, models.TrackCard, 2, tu.TrackItem("t1", 70))
		f.commit(t, models.TrackCard, 0, tu.TrackItem("t2", 30))

		if err := f.ctrl.ClearCard(models.TrackCard, 2); err != nil {
			t.Fatalf("ClearCard() error = %v", err)
		}

		cleared, _ := f.ctrl.Card(models.TrackCard, 2)
		if !reflect.DeepEqual(cleared, initial) {
			t.Errorf("cleared card differs from initial:\n got %+v\nwant %+v", cleared, initial)
		}
		if rendered, _ := f.view.card("track-2"); !reflect.DeepEqual(rendered, initial) {
			t.Errorf("view shows %+v after clear", rendered)
		}
		if got := f.ctrl.Averages().Track; got != 30 {
			t.Errorf("expected track average 30 after clear, got %v", got)
		}

		f.ctrl.ClearCard(models.TrackCard, 0)
		if got := f.view.lastAverages().Track; got != 0 {
			t.Errorf("expected 0 with no populated tracks, got %v", got)
		}
		if len(f.store.cards) != 0 {
			t.Errorf("expected empty saved board, got %d cards", len(f.store.cards))
		}
	})

	t.Run("unknown card", func(t *testing.T) {
		f := newFixture(t)
		if err := f.ctrl.ClearCard(models.ArtistCard, 99); !errors.Is(err, shared.ErrCardNotFound) {
			t.Errorf("expected ErrCardNotFound, got %v", err)
		}
	})
}

func TestControllerLoad(t *testing.T) {
	t.Run("restores saved cards", func(t *testing.T) {
		saved := NewBoard(4, 4)
		saved.Populate(models.ArtistCard, 1, tu.ArtistItem("a1", 60))
		saved.Populate(models.ArtistCard, 2, tu.ArtistItem("a2", 61))

		f := newFixture(t)
		f.store.cards = saved.Populated()
		f.ctrl.Load()

		if got := f.view.lastAverages(); got.Artist != 60.5 {
			t.Errorf("expected restored average 60.5, got %+v", got)
		}
		if c, ok := f.view.card("artist-1"); !ok || !c.Populated {
			t.Error("restored card was not rendered")
		}
		if _, ok := f.view.card("track-3"); !ok {
			t.Error("placeholder cards should be rendered on load")
		}
	})

	t.Run("storage failure starts empty", func(t *testing.T) {
		f := newFixture(t)
		f.store.err = errStorage
		f.ctrl.Load()

		if got := f.view.lastAverages(); got != (Averages{}) {
			t.Errorf("expected zero averages, got %+v", got)
		}
	})
}

func TestControllerShutdown(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open(models.ArtistCard, 0)
	f.ctrl.QueryChanged("abc")
	f.ctrl.Shutdown()
	f.scheduler.Advance(time.Second)

	if f.searcher.CallCount() != 0 {
		t.Errorf("expected no search after shutdown, got %d", f.searcher.CallCount())
	}
}

func TestControllerExport(t *testing.T) {
	f := newFixture(t)
	f.commit(t, models.ArtistCard, 1, tu.ArtistItem("a1", 64))

	editor := NewHeaderEditor(DefaultHeaders(), nil, quietLogger())
	editor.Finish(FieldTracksHeader, "Bangers")

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	export := f.ctrl.Export(editor, now)

	if export.Title != "My Custom InTune" || export.TracksHeader != "Bangers" || export.ArtistsHeader != "My Top Artists" {
		t.Errorf("unexpected headers %q %q %q", export.Title, export.ArtistsHeader, export.TracksHeader)
	}
	if len(export.Artists) != 4 || len(export.Tracks) != 4 {
		t.Errorf("expected full grids, got %d artists and %d tracks", len(export.Artists), len(export.Tracks))
	}
	if export.ArtistAverage != 64 || export.TrackAverage != 0 || !export.ExportedAt.Equal(now) {
		t.Errorf("unexpected export %+v", export)
	}
	if populated := export.Populated(); len(populated) != 1 || populated[0].ItemID != "a1" {
		t.Errorf("unexpected populated cards %+v", populated)
	}

	if plain := f.ctrl.Export(nil, now); plain.TracksHeader != "My Top Tracks" {
		t.Errorf("expected default header without editor, got %q", plain.TracksHeader)
	}
}
