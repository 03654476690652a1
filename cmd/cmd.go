// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func modeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Usage:   "Search backend: backend or spotify (default: search.mode from config)",
	}
}

// customCommand launches and manages the custom view
func customCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "custom",
		Aliases: []string{"tui", "ui"},
		Usage:   "Pick your top artists and tracks in an interactive board",
		Flags: []cli.Flag{
			modeFlag(),
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log file (the terminal is used for rendering)",
				Value: "./tmp/intune-tui.log",
			},
			&cli.StringFlag{
				Name:  "story",
				Usage: "Where the s key saves the story image",
				Value: "intune_story.png",
			},
		},
		Action: r.Custom,
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the saved board",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CustomShow,
			},
			{
				Name:  "clear",
				Usage: "Reset one card (e.g. 'clear artist 3') or the whole board",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "type"},
					&cli.IntArg{Name: "slot"},
				},
				Action: r.CustomClear,
			},
			{
				Name:  "export",
				Usage: "Export the saved board",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt, or all",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file, directory for markdown and all, or - for stdout",
					},
					&cli.BoolFlag{
						Name:  "with-story",
						Usage: "Include the generated story image in markdown exports",
					},
				},
				Action: r.CustomExport,
			},
		},
	}
}

// searchCommand runs a one-off search
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search Spotify for an artist or track",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			modeFlag(),
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "artist or track",
				Value:   "artist",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (default: search.limit from config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// headersCommand edits the custom view's header labels
func headersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "headers",
		Usage: "Show and edit the page title and grid headers",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show every header label",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HeadersList,
			},
			{
				Name:  "set",
				Usage: "Set a header (page_title, artists_header, tracks_header). Empty text reverts it",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "field"},
					&cli.StringArg{Name: "text"},
				},
				Action: r.HeadersSet,
			},
			{
				Name:   "reset",
				Usage:  "Revert every header to its default",
				Action: r.HeadersReset,
			},
		},
	}
}

// playlistCommand creates playlists and manages local history
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Create playlists from your top tracks",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a playlist on Spotify",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the playlist in the browser",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "history",
				Usage: "List playlists created from this machine",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to show (0 for all)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistHistory,
			},
			{
				Name:  "forget",
				Usage: "Remove a playlist from local history by id or #number",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistForget,
			},
		},
	}
}

// storyCommand downloads the generated story image
func storyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "story",
		Usage: "Download your shareable story image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
				Value:   "intune_story.png",
			},
		},
		Action: r.Story,
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the InTune backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints the response",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "compact",
						Usage: "Print JSON on one line",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:   "status",
				Usage:  "Check the backend session (calls /check-session)",
				Action: r.APIStatus,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "session",
				Usage: "Save the backend session cookie from a browser 'Copy as cURL' command",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from the browser devtools",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "File holding the copied cURL command",
					},
				},
				Action: r.SetupSession,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the latest database migration",
				Action: r.SetupRollback,
			},
		},
	}
}
