package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title       lipgloss.Style
	header      lipgloss.Style
	ok          lipgloss.Style
	err         lipgloss.Style
	warn        lipgloss.Style
	help        lipgloss.Style
	card        lipgloss.Style
	focused     lipgloss.Style
	placeholder lipgloss.Style
	modal       lipgloss.Style
}

// NewPalette builds the stylesheet from an accent color and the success, error, warning and muted colors.
func NewPalette(accent, s, e, w, h string) *Palette {
	return &Palette{
		title:       NewBold(accent).MarginBottom(1),
		header:      NewBold(accent),
		ok:          NewBold(s),
		err:         NewBold(e),
		warn:        NewStyle(w),
		help:        NewEm(h),
		card:        NewBox(h).Width(cardWidth),
		focused:     NewBox(accent).Width(cardWidth),
		placeholder: NewStyle(h),
		modal:       NewBox(accent).Padding(1, 2).Width(modalWidth),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// NewBox is a rounded border in the given color.
func NewBox(border string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1)
}
