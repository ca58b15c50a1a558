package playlist

import (
	"context"
	"regexp"

	"github.com/charmbracelet/log"
	"mixdown/internal/catalog"
	"mixdown/internal/lastfm"
	"mixdown/internal/shared"
)

// Entry is a single unit of playlist input: either still a textual query to
// resolve against the catalog, or a resolved track/album carrying metadata.
type Entry interface {
	// Resolve turns the entry into a terminal entry or a queue of further
	// entries. Resolution is idempotent: once an entry holds a successful
	// response, Resolve returns immediately without touching the network.
	Resolve(ctx context.Context) (*Outcome, error)

	// Resolved reports whether the entry holds a successful response.
	Resolved() bool

	// Refresh completes metadata the original resolution left out, such as
	// popularity and album info on tracks taken from album listings.
	Refresh(ctx context.Context) error

	// ID returns the catalog ID, empty until resolved.
	ID() string

	// URI returns the catalog URI, empty until resolved.
	URI() string

	// Title returns a display title: "artist - name" when resolved, the
	// original query text otherwise.
	Title() string

	// Popularity returns the provider popularity score, or -1 when unknown.
	Popularity() int

	// Property returns the string value of a named grouping/ordering key
	// (artist, album, entry, title, ...), empty when inapplicable.
	Property(key string) string

	// Equals reports strict identity: both entries resolved to the same URI.
	Equals(other Entry) bool

	// SimilarTo reports loose identity: equal normalized title keys.
	SimilarTo(other Entry) bool
}

// Outcome is the result of resolving one entry: exactly one of Entry (a
// terminal track or album) or Queue (an expansion into further entries) is
// set.
type Outcome struct {
	Entry Entry
	Queue *Queue
}

// Resolver bundles the collaborators entries need during resolution. It is
// threaded explicitly from the parser through the generator into every entry
// constructor; there is no process-wide default.
type Resolver struct {
	Catalog catalog.Client
	Lastfm  *lastfm.Client
	Logger  *log.Logger

	// ArtistLimit bounds how many related artists a Similar entry expands.
	ArtistLimit int
	// TracksPerArtist bounds the top-track fetch per related artist.
	TracksPerArtist int
}

// NewResolver creates a Resolver with defaults applied for unset limits.
func NewResolver(c catalog.Client, lfm *lastfm.Client, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{
		Catalog:         c,
		Lastfm:          lfm,
		Logger:          logger,
		ArtistLimit:     20,
		TracksPerArtist: 5,
	}
}

// opaque catalog IDs are base62 tokens; anything alphanumeric and ID-length
// is worth a direct-lookup fallback after a failed search.
var idPattern = regexp.MustCompile(`^[0-9A-Za-z]{15,}$`)

// LooksLikeID reports whether text plausibly names a catalog ID rather than
// a search phrase.
func LooksLikeID(text string) bool {
	return idPattern.MatchString(text)
}
