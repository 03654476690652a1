package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/intune/internal/custom"
	"github.com/desertthunder/intune/internal/models"
)

var _ list.Item = resultItem{}

// resultItem wraps a search result [models.Item] to implement [list.Item].
type resultItem struct {
	item     models.Item
	selected bool
}

func (i resultItem) FilterValue() string { return i.item.Name }
func (i resultItem) Title() string {
	if i.selected {
		return "✓ " + i.item.Name
	}
	return i.item.Name
}
func (i resultItem) Description() string {
	desc := fmt.Sprintf("%d/100", i.item.Popularity)
	if i.item.Subtitle != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.Subtitle)
	}
	return desc
}

func resultItems(m custom.Modal) []list.Item {
	items := make([]list.Item, len(m.Results))
	for i, item := range m.Results {
		items[i] = resultItem{item: item, selected: m.IsSelected(item.ID)}
	}
	return items
}

// newResultList builds a list that only reacts to arrow keys so typing goes to the search box.
func newResultList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), modalWidth-4, 12)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.CursorUp.SetKeys("up")
	l.KeyMap.CursorDown.SetKeys("down")
	l.KeyMap.NextPage.SetKeys("pgdown")
	l.KeyMap.PrevPage.SetKeys("pgup")
	l.KeyMap.GoToStart.SetEnabled(false)
	l.KeyMap.GoToEnd.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	return l
}

// describeCard renders the card body lines.
func describeCard(c models.Card) string {
	lines := []string{
		truncate(c.Title, cardWidth-2),
		truncate(strings.Join(c.Tags, ", "), cardWidth-2),
		c.PopularityStat,
		c.SecondaryStat,
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
