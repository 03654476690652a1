package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/intune/internal/custom"
	"github.com/desertthunder/intune/internal/formatter"
	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/repositories"
	"github.com/desertthunder/intune/internal/services"
	"github.com/desertthunder/intune/internal/shared"
	"github.com/desertthunder/intune/internal/tasks"
	"github.com/desertthunder/intune/internal/ui"
	"github.com/urfave/cli/v3"
)

// newBoard builds a controller and header editor backed by db and restores their saved state.
func (r *Runner) newBoard(db *sql.DB, searcher services.Searcher, view custom.View) (*custom.Controller, *custom.HeaderEditor) {
	storage := repositories.NewLocalStorage(db)

	ctrl := custom.NewController(custom.ControllerOpts{
		Board:          custom.NewBoard(r.config.Board.ArtistSlots, r.config.Board.TrackSlots),
		View:           view,
		Searcher:       searcher,
		Store:          repositories.NewBoardRepository(storage),
		Logger:         shared.WithLogger(r.logger, "component", "board"),
		Debounce:       r.config.Search.Debounce(),
		MinQueryLength: r.config.Search.MinQueryLength,
		Limit:          r.config.Search.Limit,
	})
	ctrl.Load()

	headers := custom.NewHeaderEditor(custom.DefaultHeaders(), repositories.NewHeaderRepository(storage), shared.WithLogger(r.logger, "component", "headers"))
	headers.Load()

	return ctrl, headers
}

// Custom launches the interactive custom view.
func (r *Runner) Custom(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	searcher, err := r.resolveSearcher(ctx, r.searchMode(cmd))
	if err != nil {
		return err
	}

	db, release, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer release()

	screen := ui.NewScreen()
	ctrl, headers := r.newBoard(db, searcher, screen)
	defer ctrl.Shutdown()

	model := ui.NewModel(ctx, ui.ModelOpts{
		Controller: ctrl,
		Headers:    headers,
		Screen:     screen,
		Playlists:  r.api,
		History:    repositories.NewPlaylistHistoryRepository(db),
		Stories:    r.api,
		StoryPath:  cmd.String("story"),
		Logger:     r.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	screen.Attach(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// CustomShow prints the saved board as plain text.
func (r *Runner) CustomShow(ctx context.Context, cmd *cli.Command) error {
	db, release, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer release()

	ctrl, headers := r.newBoard(db, nil, nil)
	export := ctrl.Export(headers, time.Now())

	if cmd.Bool("json") {
		return r.writeJSON(export, true)
	}

	data, err := formatter.ExportToText(&export)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// CustomClear resets one card, or every card when no type is given.
func (r *Runner) CustomClear(ctx context.Context, cmd *cli.Command) error {
	db, release, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer release()

	ctrl, _ := r.newBoard(db, nil, nil)

	if typeArg := cmd.StringArg("type"); typeArg != "" {
		cardType, err := models.ParseCardType(typeArg)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		slot := cmd.IntArg("slot")
		if slot < 1 {
			return fmt.Errorf("%w: slot must be 1 or greater", shared.ErrInvalidArgument)
		}
		if err := ctrl.ClearCard(cardType, slot-1); err != nil {
			return err
		}
		return r.writePlain("✓ Cleared %s %d\n", cardType, slot)
	}

	cleared := 0
	for _, cardType := range []models.CardType{models.ArtistCard, models.TrackCard} {
		for _, card := range ctrl.Cards(cardType) {
			if !card.Populated {
				continue
			}
			if err := ctrl.ClearCard(cardType, card.Index); err != nil {
				return err
			}
			cleared++
		}
	}
	return r.writePlain("✓ Cleared %d cards\n", cleared)
}

// CustomExport writes the saved board in the requested format.
//
// Markdown exports go to a directory and can include the generated story image.
func (r *Runner) CustomExport(ctx context.Context, cmd *cli.Command) error {
	if cmd.String("format") == "all" {
		return r.customExportAll(ctx, cmd)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	output := cmd.String("output")

	db, release, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer release()

	ctrl, headers := r.newBoard(db, nil, nil)
	export := ctrl.Export(headers, time.Now())

	r.logger.Info("exporting board", "format", format, "cards", len(export.Populated()))

	if output == "-" {
		data, err := formatter.Export(&export, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	if format == formatter.Markdown {
		var story []byte
		if cmd.Bool("with-story") {
			if story, err = r.api.GenerateStory(ctx); err != nil {
				r.logger.Warn("story download failed, exporting without it", "error", err)
			}
		}

		result, err := formatter.WriteMarkdownExport(&export, output, story)
		if err != nil {
			return err
		}

		r.writePlain("✓ Exported board to %s\n", result.Directory)
		for _, f := range result.Files {
			r.writePlain("  %s\n", f)
		}
		return nil
	}

	path, err := formatter.WriteExport(&export, format, output)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Exported board to %s\n", path)
}

// customExportAll writes the board in every format into one directory.
func (r *Runner) customExportAll(ctx context.Context, cmd *cli.Command) error {
	if cmd.String("output") == "-" {
		return fmt.Errorf("%w: --format all needs a directory, not stdout", shared.ErrInvalidFlag)
	}

	db, release, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer release()

	ctrl, headers := r.newBoard(db, nil, nil)
	export := ctrl.Export(headers, time.Now())

	opts := tasks.BulkExportOpts{OutputDir: cmd.String("output")}
	if cmd.Bool("with-story") {
		opts.Story = r.api.GenerateStory
	}

	progress := make(chan tasks.ProgressUpdate, len(tasks.AllFormats)+2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := tasks.BulkExport(ctx, progress, &export, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported board to %s (%d ok, %d failed)\n", result.OutputDirectory, result.SuccessfulExports, result.FailedExports)
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("  ✗ %s: %v\n", res.Format, res.Error)
			continue
		}
		for _, f := range res.Files {
			r.writePlain("  %s\n", f)
		}
	}
	r.writePlain("  %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		return fmt.Errorf("%d of %d formats failed", result.FailedExports, len(result.Results))
	}
	return nil
}

func (r *Runner) searchMode(cmd *cli.Command) string {
	if mode := cmd.String("mode"); mode != "" {
		return mode
	}
	return r.config.Search.Mode
}
