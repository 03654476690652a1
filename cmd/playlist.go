package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/intune/internal/repositories"
	"github.com/desertthunder/intune/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate asks the backend to build a playlist from the user's top tracks and records it locally.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	r.logger.Info("creating playlist", "name", name)

	playlist, err := r.api.CreatePlaylist(ctx, name)
	if err != nil {
		return err
	}

	db, release, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("playlist created but history is unavailable", "error", err)
	} else {
		defer release()
		if _, err := repositories.NewPlaylistHistoryRepository(db).Record(playlist); err != nil {
			r.logger.Warn("could not record playlist", "error", err)
		}
	}

	r.writePlain("✓ Playlist created: %s\n", playlist.Name)
	r.writePlain("  Tracks added: %d\n", playlist.TracksAdded)
	if playlist.URL != "" {
		r.writePlain("  URL: %s\n", playlist.URL)
	}

	if cmd.Bool("open") && playlist.URL != "" {
		if err := shared.OpenBrowser(playlist.URL); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}
	return nil
}

// PlaylistHistory lists playlists created from this machine, newest first.
func (r *Runner) PlaylistHistory(ctx context.Context, cmd *cli.Command) error {
	db, release, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer release()

	records, err := repositories.NewPlaylistHistoryRepository(db).List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	if len(records) == 0 {
		return r.writePlain("No playlists created yet\n")
	}

	r.writePlainHeader("Created Playlists")
	for _, rec := range records {
		r.writePlain("#%d %s (%d tracks, %s)\n", rec.Sequence, rec.Name, rec.TracksAdded, humanize.Time(rec.CreatedAt))
		r.writePlain("    id: %s\n", rec.ID)
		if rec.URL != "" {
			r.writePlain("    %s\n", rec.URL)
		}
	}
	return nil
}

// PlaylistForget removes a playlist from local history. The Spotify playlist is untouched.
//
// The argument is either the record ID or the #N shown by the history command.
func (r *Runner) PlaylistForget(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("id")
	if ref == "" {
		return fmt.Errorf("%w: playlist id or #number is required", shared.ErrMissingArgument)
	}

	db, release, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer release()

	repo := repositories.NewPlaylistHistoryRepository(db)
	rec, err := repo.Resolve(ref)
	if err != nil {
		return err
	}
	if err := repo.Delete(rec.ID); err != nil {
		return err
	}
	return r.writePlain("✓ Removed #%d %s from history\n", rec.Sequence, rec.Name)
}

// Story downloads the generated story image.
func (r *Runner) Story(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")

	r.logger.Info("generating story")

	image, err := r.api.GenerateStory(ctx)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, image, 0644); err != nil {
		return fmt.Errorf("failed to write story: %w", err)
	}

	return r.writePlain("✓ Story saved to %s (%s)\n", output, humanize.Bytes(uint64(len(image))))
}
