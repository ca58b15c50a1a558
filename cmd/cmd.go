// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// generateCommand resolves a playlist script and prints the result
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Resolve a playlist script into tracks",
		ArgsUsage: "[script file, - or empty for stdin]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: uri, list, csv, log, array, queue",
				Value:   "uri",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log resolution progress",
			},
		},
		Action: r.Generate,
	}
}

// previewCommand opens the resolved playlist in an interactive list
func previewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Resolve a playlist script and browse the tracks",
		ArgsUsage: "[script file, - or empty for stdin]",
		Action:    r.Preview,
	}
}

// historyCommand lists past generation runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Show recent generation runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to show",
				Value:   10,
			},
		},
		Action: r.History,
	}
}

// setupCommand creates the config file and initializes the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
