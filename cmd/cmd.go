// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// playlistsCommand lists the authenticated user's playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List your Spotify playlists",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Read from the local cache instead of the API",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the fetched playlists to the local cache",
			},
		},
		Action: r.Playlists,
	}
}

// tracksCommand shows a playlist's tracks with their audio features.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Show a playlist's tracks with energy and tempo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Playlist ID or exact name",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the fetched tracks to the local cache",
			},
		},
		Action: r.Tracks,
	}
}

// sortCommand runs the pyramid sort pipeline for one playlist.
func sortCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sort",
		Usage: "Sort a playlist into a pyramid energy curve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Playlist ID or exact name",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "publish",
				Usage: "Publish the sorted order as a new playlist",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show the sorted order without publishing",
			},
			&cli.StringFlag{
				Name:  "name-suffix",
				Usage: "Suffix for the published playlist name",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the published playlist public",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the sorted track list as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Sort,
	}
}

// exportCommand exports playlists to files on disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists to files",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "id",
				Usage: "Playlist ID or exact name (repeatable; default: all playlists)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.BoolFlag{
				Name:  "enrich",
				Usage: "Attach audio features before exporting",
				Value: true,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Playlist fetches per second",
				Value: 5.0,
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive sorting.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Interactively browse, sort, and publish playlists",
		Action:  r.TUI,
	}
}
