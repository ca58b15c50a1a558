// package generator runs parsed collections through the resolution pipeline
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"mixdown/internal/parser"
	"mixdown/internal/playlist"
	"mixdown/internal/rank"
	"mixdown/internal/shared"
)

// Scraper converts a web page into directive-language text the parser can
// consume. Implementations live outside this package.
type Scraper interface {
	Scrape(ctx context.Context, url string, pages int) (string, error)
}

// Generator owns the pipeline from script text to a rendered playlist. The
// stages run strictly in order: parse, expand scrapes, resolve, dedup, order,
// group, alternate, reverse or shuffle, render. Stages whose setting is unset
// are skipped.
type Generator struct {
	res     *playlist.Resolver
	parser  *parser.Parser
	scraper Scraper
	logger  *log.Logger

	// DepthLimit bounds recursive scrape expansion, pages that link to
	// pages that link back would otherwise loop forever.
	DepthLimit int
}

// New creates a generator. scraper may be nil, scrape entries then fail
// resolution instead of expanding.
func New(res *playlist.Resolver, scraper Scraper) *Generator {
	return &Generator{
		res:        res,
		parser:     parser.New(res),
		scraper:    scraper,
		logger:     res.Logger,
		DepthLimit: 3,
	}
}

// Result is the pipeline product: the final queue, the settings that shaped
// it and any per-entry failures collected along the way.
type Result struct {
	Settings parser.Settings
	Queue    *playlist.Queue
	Failures playlist.DispatchFailures
}

// Run parses the script and executes the full pipeline.
func (g *Generator) Run(ctx context.Context, script string) (*Result, error) {
	col := g.parser.Parse(script)
	return g.Execute(ctx, col)
}

// Execute runs the pipeline over an already-parsed collection.
func (g *Generator) Execute(ctx context.Context, col *parser.Collection) (*Result, error) {
	result := &Result{Settings: col.Settings, Queue: col.Queue}

	queue, err := g.expandScrapes(ctx, col.Queue, g.DepthLimit)
	if err != nil {
		return nil, err
	}
	result.Queue = queue

	g.logger.Debug("resolving", "entries", queue.Len())
	if err := queue.Dispatch(ctx); err != nil {
		var failures playlist.DispatchFailures
		if !errors.As(err, &failures) {
			return nil, err
		}
		result.Failures = failures
		for _, f := range failures {
			g.logger.Warn("entry unresolved", "entry", f.Entry.Title(), "error", f.Err)
		}
	}
	queue.Flatten()

	if col.Settings.Unique {
		queue.Dedup(ctx)
	}

	if col.Settings.Ordering != "" {
		g.refreshMetadata(ctx, queue, col.Settings)
		queue.Sort(g.comparator(col.Settings))
	}
	if col.Settings.Grouping != "" {
		g.refreshMetadata(ctx, queue, col.Settings)
		queue.Group(col.Settings.Grouping)
	}
	if col.Settings.Alternating != "" {
		g.refreshMetadata(ctx, queue, col.Settings)
		queue.Alternate(col.Settings.Alternating)
	}

	// Reverse wins when both are set.
	switch {
	case col.Settings.Reverse:
		queue.Reverse()
	case col.Settings.Shuffle:
		queue.Shuffle()
	}

	return result, nil
}

// expandScrapes replaces scrape entries with the parsed form of their page
// text, recursing into expansions up to depth levels. Scraped settings are
// discarded, only the top-level script controls the pipeline.
func (g *Generator) expandScrapes(ctx context.Context, queue *playlist.Queue, depth int) (*playlist.Queue, error) {
	out := playlist.NewQueue()
	for _, entry := range queue.Entries() {
		sc, ok := entry.(*playlist.Scrape)
		if !ok {
			out.Push(entry)
			continue
		}
		if g.scraper == nil {
			return nil, fmt.Errorf("%w: no scraper configured for %q", shared.ErrInvalidInput, sc.URL)
		}
		if depth <= 0 {
			g.logger.Warn("scrape depth limit reached", "url", sc.URL)
			continue
		}

		text, err := g.scraper.Scrape(ctx, sc.URL, sc.Pages)
		if err != nil {
			g.logger.Warn("scrape failed", "url", sc.URL, "error", err)
			continue
		}
		sub := g.parser.Parse(text)
		expanded, err := g.expandScrapes(ctx, sub.Queue, depth-1)
		if err != nil {
			return nil, err
		}
		out.PushQueue(expanded)
	}
	return out, nil
}

// refreshMetadata fills in fields the ordering, grouping or alternating stage
// needs but listing payloads omit: popularity and album names via a catalog
// refresh, playcounts via Last.fm when ordering by it.
func (g *Generator) refreshMetadata(ctx context.Context, queue *playlist.Queue, settings parser.Settings) {
	for _, entry := range queue.Entries() {
		if entry.Popularity() < 0 {
			if err := entry.Refresh(ctx); err != nil {
				g.logger.Warn("refresh failed", "entry", entry.Title(), "error", err)
			}
		}
		if settings.Ordering == "lastfm" {
			track, ok := entry.(*playlist.Track)
			if !ok {
				continue
			}
			if err := track.EnsurePlays(ctx, settings.LastfmUser); err != nil {
				g.logger.Warn("lastfm lookup failed", "entry", entry.Title(), "error", err)
			}
		}
	}
}

// comparator maps the ordering setting to a concrete sort order. Popularity
// and playcounts sort highest first with unknowns last, anything else sorts
// lexically on the named property.
func (g *Generator) comparator(settings parser.Settings) rank.Comparator[playlist.Entry] {
	switch settings.Ordering {
	case "popularity":
		return rank.Descending(func(e playlist.Entry) float64 {
			return float64(e.Popularity())
		})
	case "lastfm":
		return rank.Combine(
			rank.Descending(func(e playlist.Entry) float64 { return float64(userPlays(e)) }),
			rank.Descending(func(e playlist.Entry) float64 { return float64(globalPlays(e)) }),
			rank.Descending(func(e playlist.Entry) float64 { return float64(e.Popularity()) }),
		)
	default:
		prop := settings.Ordering
		return rank.Lexical(func(e playlist.Entry) string {
			return e.Property(prop)
		})
	}
}

func userPlays(e playlist.Entry) int {
	if t, ok := e.(*playlist.Track); ok {
		return t.UserPlays()
	}
	return -1
}

func globalPlays(e playlist.Entry) int {
	if t, ok := e.(*playlist.Track); ok {
		return t.GlobalPlays()
	}
	return -1
}
