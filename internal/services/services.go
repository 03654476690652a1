// package services defines the collaborators the custom view talks to over HTTP
//
// InTune backend, Spotify Web API (direct search)
package services

import (
	"context"

	"github.com/desertthunder/intune/internal/models"
)

// Searcher finds candidate items for an artist or track card.
type Searcher interface {
	// Search returns at most limit items matching query.
	// Returns an error carrying a displayable message when the backend rejects the search.
	Search(ctx context.Context, query string, cardType models.CardType, limit int) ([]models.Item, error)

	// Name returns the name of the search backend (e.g., "InTune API", "Spotify")
	Name() string
}

// PlaylistCreator creates a playlist from the user's current top tracks.
type PlaylistCreator interface {
	CreatePlaylist(ctx context.Context, name string) (*models.CreatedPlaylist, error)
}

// StoryGenerator produces the shareable story image.
type StoryGenerator interface {
	GenerateStory(ctx context.Context) ([]byte, error)
}
