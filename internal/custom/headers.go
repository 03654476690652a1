package custom

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
)

// Editable header fields of the custom view.
const (
	FieldPageTitle     = "page_title"
	FieldArtistsHeader = "artists_header"
	FieldTracksHeader  = "tracks_header"
)

// DefaultHeaders returns the label shown for each editable field when no override is stored.
func DefaultHeaders() map[string]string {
	return map[string]string{
		FieldPageTitle:     "My Custom InTune",
		FieldArtistsHeader: "My Top Artists",
		FieldTracksHeader:  "My Top Tracks",
	}
}

// HeaderStore persists header label overrides.
type HeaderStore interface {
	LoadHeaders() (models.HeaderOverrides, error)
	SaveHeader(field, text string) error
	RemoveHeader(field string) error
}

// Outcome reports what finishing an edit did, so the UI can flash an indicator.
type Outcome int

const (
	Unchanged Outcome = iota
	Saved
	Reverted
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Reverted:
		return "reverted"
	default:
		return "unchanged"
	}
}

// HeaderEditor tracks the current text of each editable header and the one being edited.
//
// Storage failures are logged and never returned: the label still changes for the session.
type HeaderEditor struct {
	mu       sync.Mutex
	defaults map[string]string
	current  map[string]string
	editing  string
	store    HeaderStore
	logger   *log.Logger
}

// NewHeaderEditor creates an editor showing defaults. A nil store keeps edits in memory only.
func NewHeaderEditor(defaults map[string]string, store HeaderStore, logger *log.Logger) *HeaderEditor {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	e := &HeaderEditor{
		defaults: make(map[string]string, len(defaults)),
		current:  make(map[string]string, len(defaults)),
		store:    store,
		logger:   shared.WithLogger(logger, "component", "headers"),
	}
	for field, text := range defaults {
		e.defaults[field] = text
		e.current[field] = text
	}
	return e
}

// Load applies stored overrides. Unknown fields and empty values are ignored.
func (e *HeaderEditor) Load() {
	if e.store == nil {
		return
	}

	overrides, err := e.store.LoadHeaders()
	if err != nil {
		e.logger.Warn("could not load saved headers", "error", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for field, text := range overrides {
		if _, ok := e.defaults[field]; !ok || strings.TrimSpace(text) == "" {
			continue
		}
		e.current[field] = text
	}
}

// Fields returns the editable field names in sorted order.
func (e *HeaderEditor) Fields() []string {
	fields := make([]string, 0, len(e.defaults))
	for field := range e.defaults {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Text returns the label currently shown for field.
func (e *HeaderEditor) Text(field string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, ok := e.current[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrUnknownField, field)
	}
	return text, nil
}

// Default returns the default label for field.
func (e *HeaderEditor) Default(field string) (string, error) {
	text, ok := e.defaults[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrUnknownField, field)
	}
	return text, nil
}

// Start begins editing field and returns its current text to prefill the input.
func (e *HeaderEditor) Start(field string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, ok := e.current[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrUnknownField, field)
	}
	e.editing = field
	return text, nil
}

// Editing returns the field being edited, or "".
func (e *HeaderEditor) Editing() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing
}

// Cancel ends editing without changing the label.
func (e *HeaderEditor) Cancel(field string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == field {
		e.editing = ""
	}
}

// Finish commits text for field and returns the label now shown.
//
// Empty text or the default label removes the stored override. Text that differs from the current
// label is stored. The store never holds an empty or default-equal value.
func (e *HeaderEditor) Finish(field, text string) (string, Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, ok := e.defaults[field]
	if !ok {
		return "", Unchanged, fmt.Errorf("%w: %s", shared.ErrUnknownField, field)
	}
	if e.editing == field {
		e.editing = ""
	}

	text = strings.TrimSpace(text)
	current := e.current[field]

	switch {
	case text == "":
		e.current[field] = def
		e.remove(field)
		return def, Reverted, nil
	case text == current:
		return current, Unchanged, nil
	case text == def:
		e.current[field] = def
		e.remove(field)
		return def, Reverted, nil
	default:
		e.current[field] = text
		e.save(field, text)
		return text, Saved, nil
	}
}

// Reset reverts every field to its default and removes all stored overrides.
func (e *HeaderEditor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for field, def := range e.defaults {
		e.current[field] = def
		e.remove(field)
	}
	e.editing = ""
}

func (e *HeaderEditor) save(field, text string) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveHeader(field, text); err != nil {
		e.logger.Warn("could not save header text", "field", field, "error", err)
		return
	}
	e.logger.Debug("saved header", "field", field, "text", text)
}

func (e *HeaderEditor) remove(field string) {
	if e.store == nil {
		return
	}
	if err := e.store.RemoveHeader(field); err != nil {
		e.logger.Warn("could not remove header text", "field", field, "error", err)
		return
	}
	e.logger.Debug("reverted header to default", "field", field)
}
