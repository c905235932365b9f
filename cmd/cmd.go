// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/radar/internal/tasks"
	"github.com/urfave/cli/v3"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Log every request to the catalog",
		},
	}
}

func daysFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "days",
		Aliases: []string{"d"},
		Usage:   "Length of the release window in days (default from config)",
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, csv, markdown or json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to a file instead of stdout",
		},
	}
}

// updateCommand rewrites the release playlist.
func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "update",
		Aliases: []string{"u"},
		Usage:   "Replace the release playlist with the new tracks of followed artists",
		Flags: append([]cli.Flag{
			daysFlag(),
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Name of the playlist to update (default from config)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the new tracks without writing the playlist",
			},
		}, exportFlags()...),
		Action: r.Update,
	}
}

// showCommand lists new albums per followed artist.
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "show",
		Aliases: []string{"s"},
		Usage:   "Show the new albums of followed artists",
		Flags:   append([]cli.Flag{daysFlag()}, exportFlags()...),
		Action:  r.Show,
	}
}

func setOperationCommand(r *Runner, op tasks.Operator, usage string) *cli.Command {
	return &cli.Command{
		Name:      op.String(),
		Usage:     usage,
		ArgsUsage: "<result playlist>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "result"},
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "in-playlist",
				Aliases:  []string{"p"},
				Usage:    "Input playlist name (repeat for each input)",
				Required: true,
			},
		},
		Action: r.SetOperation(op),
	}
}

// unionCommand writes the union of the input playlists.
func unionCommand(r *Runner) *cli.Command {
	return setOperationCommand(r, tasks.Union, "Write every track found in any input playlist to the result playlist")
}

// intersectionCommand writes the intersection of the input playlists.
func intersectionCommand(r *Runner) *cli.Command {
	return setOperationCommand(r, tasks.Intersection, "Write the tracks found in all input playlists to the result playlist")
}

// playlistsCommand lists the user's playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "playlists",
		Usage:  "List your Spotify playlists",
		Flags:  exportFlags(),
		Action: r.Playlists,
	}
}

// authCommand runs the OAuth2 flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authorize radar with Spotify and save the tokens to the config file",
		Action: r.Auth,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Review new releases interactively before writing the playlist",
		Flags: []cli.Flag{
			daysFlag(),
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Name of the playlist to update (default from config)",
			},
		},
		Action: r.TUI,
	}
}

// configCommand manages the configuration file.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write a default configuration file to --config",
				Action: r.ConfigInit,
			},
		},
	}
}
