package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"mixdown/internal/catalog"
	"mixdown/internal/generator"
	"mixdown/internal/history"
	"mixdown/internal/lastfm"
	"mixdown/internal/playlist"
	"mixdown/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog catalog.Client
	lastfm  *lastfm.Client
	scraper generator.Scraper
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog catalog.Client
	Lastfm  *lastfm.Client
	Scraper generator.Scraper
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		lastfm:  opts.Lastfm,
		scraper: opts.Scraper,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		generateCommand, previewCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// newGenerator wires a pipeline from the runner's collaborators, applying the
// configured expansion limits.
func (r *Runner) newGenerator() (*generator.Generator, error) {
	if r.catalog == nil {
		return nil, fmt.Errorf("%w: spotify credentials not configured, run setup first", shared.ErrMissingCredentials)
	}

	res := playlist.NewResolver(r.catalog, r.lastfm, r.logger)
	if r.config.Generator.ArtistLimit > 0 {
		res.ArtistLimit = r.config.Generator.ArtistLimit
	}
	if r.config.Generator.TracksPerArtist > 0 {
		res.TracksPerArtist = r.config.Generator.TracksPerArtist
	}

	gen := generator.New(res, r.scraper)
	if r.config.Generator.ScrapeDepthLimit > 0 {
		gen.DepthLimit = r.config.Generator.ScrapeDepthLimit
	}
	return gen, nil
}

// readScript loads the playlist script from the file argument, or from stdin
// when the argument is missing or "-".
func (r *Runner) readScript(cmd *cli.Command) (string, error) {
	path := cmd.Args().First()
	if path == "" || path == "-" {
		data, err := io.ReadAll(r.input)
		if err != nil {
			return "", fmt.Errorf("failed to read script from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(data), nil
}

// recordRun stores run metadata in the history database. Recording is best
// effort, a missing or broken database only logs.
func (r *Runner) recordRun(ctx context.Context, script string, result *generator.Result, format generator.Format, elapsed time.Duration) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Debug("history disabled", "error", err)
		return
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Debug("history migration failed", "error", err)
		return
	}

	_, err = history.NewStore(db).Record(ctx, history.Run{
		ScriptHash: history.HashScript(script),
		EntryCount: result.Queue.Len() + len(result.Failures),
		TrackCount: len(result.URIs()),
		Format:     string(format),
		DurationMS: elapsed.Milliseconds(),
	})
	if err != nil {
		r.logger.Debug("history record failed", "error", err)
	}
}
