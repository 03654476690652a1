package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search runs a single search outside the TUI, through the backend or directly against Spotify.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	cardType, err := models.ParseCardType(cmd.String("type"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.config.Search.Limit
	}

	searcher, err := r.resolveSearcher(ctx, r.searchMode(cmd))
	if err != nil {
		return err
	}

	r.logger.Info("searching", "query", query, "type", cardType, "backend", searcher.Name())

	items, err := searcher.Search(ctx, query, cardType, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	if len(items) == 0 {
		return r.writePlain("No %s found for %q\n", cardType.Plural(), query)
	}

	r.writePlainHeader(fmt.Sprintf("%d %s for %q", len(items), cardType.Plural(), query))
	for i, item := range items {
		r.writePlain("%2d. %s (%d/100)\n", i+1, item.Name, item.Popularity)
		if item.Subtitle != "" {
			r.writePlain("    %s\n", item.Subtitle)
		}
		r.writePlain("    id: %s\n", item.ID)
	}
	return nil
}
