package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/intune/internal/custom"
	"github.com/desertthunder/intune/internal/repositories"
	"github.com/desertthunder/intune/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) headerEditor() (*custom.HeaderEditor, func(), error) {
	db, release, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}

	editor := custom.NewHeaderEditor(custom.DefaultHeaders(), repositories.NewHeaderRepository(repositories.NewLocalStorage(db)), shared.WithLogger(r.logger, "component", "headers"))
	editor.Load()
	return editor, release, nil
}

// HeadersList prints every editable header with its current label.
func (r *Runner) HeadersList(ctx context.Context, cmd *cli.Command) error {
	editor, release, err := r.headerEditor()
	if err != nil {
		return err
	}
	defer release()

	if cmd.Bool("json") {
		labels := map[string]string{}
		for _, field := range editor.Fields() {
			labels[field], _ = editor.Text(field)
		}
		return r.writeJSON(labels, true)
	}

	for _, field := range editor.Fields() {
		text, _ := editor.Text(field)
		def, _ := editor.Default(field)
		if text == def {
			r.writePlain("%-15s %s\n", field, text)
		} else {
			r.writePlain("%-15s %s (default: %s)\n", field, text, def)
		}
	}
	return nil
}

// HeadersSet edits one header. An empty or default label reverts it.
func (r *Runner) HeadersSet(ctx context.Context, cmd *cli.Command) error {
	field := cmd.StringArg("field")
	if field == "" {
		return fmt.Errorf("%w: header field is required", shared.ErrMissingArgument)
	}

	editor, release, err := r.headerEditor()
	if err != nil {
		return err
	}
	defer release()

	if _, err := editor.Start(field); err != nil {
		return err
	}

	text, outcome, err := editor.Finish(field, cmd.StringArg("text"))
	if err != nil {
		return err
	}

	switch outcome {
	case custom.Saved:
		return r.writePlain("✓ %s saved: %s\n", field, text)
	case custom.Reverted:
		return r.writePlain("↺ %s reverted to default: %s\n", field, text)
	default:
		return r.writePlain("%s unchanged: %s\n", field, text)
	}
}

// HeadersReset reverts every header to its default.
func (r *Runner) HeadersReset(ctx context.Context, cmd *cli.Command) error {
	editor, release, err := r.headerEditor()
	if err != nil {
		return err
	}
	defer release()

	editor.Reset()
	return r.writePlain("✓ Headers reset to defaults\n")
}
