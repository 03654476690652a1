package custom

import (
	"time"

	"github.com/desertthunder/intune/internal/models"
)

// Export snapshots the board and the current header labels. headers may be nil, in which case the defaults are used.
func (c *Controller) Export(headers *HeaderEditor, now time.Time) models.BoardExport {
	c.mu.Lock()
	export := models.BoardExport{
		Artists:       c.board.Cards(models.ArtistCard),
		Tracks:        c.board.Cards(models.TrackCard),
		ArtistAverage: c.averages.Artist,
		TrackAverage:  c.averages.Track,
		ExportedAt:    now,
	}
	c.mu.Unlock()

	defaults := DefaultHeaders()
	label := func(field string) string {
		if headers != nil {
			if text, err := headers.Text(field); err == nil {
				return text
			}
		}
		return defaults[field]
	}

	export.Title = label(FieldPageTitle)
	export.ArtistsHeader = label(FieldArtistsHeader)
	export.TracksHeader = label(FieldTracksHeader)
	return export
}
