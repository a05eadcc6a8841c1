// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/trackbrowse/internal/formatter"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// newApp builds the root command. Configuration is loaded once, before any subcommand runs.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "trackbrowse",
		Usage:   "Browse a music-track catalog by name, genre and page",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Configure,
		Commands: r.register(),
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Substring to match in track names",
		},
		&cli.IntSliceFlag{
			Name:    "genre",
			Aliases: []string{"g"},
			Usage:   "Genre ID to include (repeatable)",
		},
	}
}

// tracksCommand lists and counts catalog tracks
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Catalog track queries",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List one page of tracks matching the search",
				Flags: append(searchFlags(),
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Page number, starting at 1",
						Value:   1,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: txt, json, csv or md",
						Value:   formatter.FormatText,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the listing to this file instead of stdout",
					},
				),
				Action: r.TracksList,
			},
			{
				Name:   "count",
				Usage:  "Count tracks matching the search",
				Flags:  searchFlags(),
				Action: r.TracksCount,
			},
		},
	}
}

// genresCommand prints the catalog genres
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "List catalog genres",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Genres,
	}
}

// invoiceCommand manages the local invoice
func invoiceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "invoice",
		Usage: "Manage tracks on the local invoice",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a track to the invoice",
				ArgsUsage: "<track-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Track name to record",
					},
					&cli.FloatFlag{
						Name:  "price",
						Usage: "Unit price to record",
					},
				},
				Action: r.InvoiceAdd,
			},
			{
				Name:   "list",
				Usage:  "List invoiced tracks and the total",
				Action: r.InvoiceList,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a track from the invoice",
				ArgsUsage: "<track-id>",
				Action:    r.InvoiceRemove,
			},
		},
	}
}

// setupCommand initializes configuration and the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive track browser",
		Action:  r.TUI,
	}
}
