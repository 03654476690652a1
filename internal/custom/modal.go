package custom

import "github.com/desertthunder/intune/internal/models"

// ResultState is what the modal's result area currently shows.
type ResultState int

const (
	// ResultsIdle is the "start typing" prompt.
	ResultsIdle ResultState = iota
	// ResultsTooShort is shown for queries under the minimum length. No request is made.
	ResultsTooShort
	ResultsLoading
	ResultsFound
	ResultsNotFound
	ResultsError
)

func (s ResultState) String() string {
	switch s {
	case ResultsIdle:
		return "idle"
	case ResultsTooShort:
		return "too-short"
	case ResultsLoading:
		return "loading"
	case ResultsFound:
		return "found"
	case ResultsNotFound:
		return "not-found"
	case ResultsError:
		return "error"
	default:
		return "unknown"
	}
}

// Modal is a snapshot of the search-select modal.
type Modal struct {
	Open        bool
	Target      models.CardType
	Index       int
	Title       string
	Placeholder string
	Query       string
	State       ResultState
	Results     []models.Item
	Err         string
	Selected    *models.Item
	MinQuery    int // Shortest query that triggers a search
}

// CanCommit reports whether the save action is enabled.
func (m Modal) CanCommit() bool {
	return m.Open && m.Selected != nil
}

// IsSelected reports whether the result with id is the current selection.
func (m Modal) IsSelected(id string) bool {
	return m.Selected != nil && m.Selected.ID == id
}

func newModal(cardType models.CardType, index, minQuery int) Modal {
	m := Modal{Open: true, Target: cardType, Index: index, State: ResultsIdle, MinQuery: minQuery}
	if cardType == models.ArtistCard {
		m.Title = "Add Artist"
		m.Placeholder = "Search for artists..."
	} else {
		m.Title = "Add Track"
		m.Placeholder = "Search for tracks..."
	}
	return m
}

// resetSearch clears the query, results, and selection while keeping the target.
func (m *Modal) resetSearch() {
	m.Query = ""
	m.State = ResultsIdle
	m.Results = nil
	m.Err = ""
	m.Selected = nil
}

func (m Modal) snapshot() Modal {
	if m.Results != nil {
		m.Results = append([]models.Item(nil), m.Results...)
	}
	if m.Selected != nil {
		sel := *m.Selected
		m.Selected = &sel
	}
	return m
}
