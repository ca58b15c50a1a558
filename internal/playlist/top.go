package playlist

import (
	"context"
	"fmt"
	"strings"

	"mixdown/internal/shared"
)

// Top expands an artist query into the artist's most popular tracks as
// reported by the catalog.
type Top struct {
	res *Resolver

	Text    string
	KnownID string
	// Limit caps the number of top tracks, 0 for the provider default.
	Limit int

	artist *Artist
}

// NewTop creates a top-tracks entry from an artist query.
func NewTop(res *Resolver, text string, limit int) *Top {
	return &Top{res: res, Text: text, Limit: limit}
}

// NewTopID creates a top-tracks entry with a known artist ID.
func NewTopID(res *Resolver, id string, limit int) *Top {
	return &Top{res: res, Text: id, KnownID: id, Limit: limit}
}

// topForArtist wraps an already-identified artist, used by Similar expansion.
func topForArtist(res *Resolver, artist *Artist, limit int) *Top {
	return &Top{res: res, Text: artist.Title(), Limit: limit, artist: artist}
}

// Resolve identifies the artist and returns their top tracks as a queue.
// Top-track payloads carry full metadata, so the resulting tracks need no
// refresh.
func (t *Top) Resolve(ctx context.Context) (*Outcome, error) {
	if t.artist == nil {
		t.artist = &Artist{res: t.res, Text: t.Text, KnownID: t.KnownID}
	}
	if err := t.artist.resolveIdentity(ctx); err != nil {
		return nil, err
	}

	tracks, err := t.res.Catalog.ArtistTopTracks(ctx, t.artist.ID())
	if err != nil {
		return nil, fmt.Errorf("top tracks for %q: %w", t.artist.Title(), err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no top tracks for %q", shared.ErrNotFound, t.artist.Title())
	}
	queue := NewQueue()
	for _, ct := range tracks {
		queue.Push(trackFromCatalog(t.res, ct, ct.Album.Name, false))
	}
	queue.Limit(t.Limit)
	return &Outcome{Queue: queue}, nil
}

func (t *Top) Resolved() bool { return t.artist != nil && t.artist.Resolved() }

func (t *Top) Refresh(ctx context.Context) error { return nil }

func (t *Top) ID() string {
	if t.artist == nil {
		return ""
	}
	return t.artist.ID()
}

func (t *Top) URI() string {
	if t.artist == nil {
		return ""
	}
	return t.artist.URI()
}

func (t *Top) Title() string {
	if t.artist != nil {
		return t.artist.Title()
	}
	return t.Text
}

func (t *Top) Popularity() int {
	if t.artist == nil {
		return -1
	}
	return t.artist.Popularity()
}

func (t *Top) Property(key string) string {
	switch strings.ToLower(key) {
	case "artist", "title", "name":
		return t.Title()
	case "entry":
		return t.Text
	default:
		return ""
	}
}

func (t *Top) Equals(other Entry) bool {
	return t.URI() != "" && t.URI() == other.URI()
}

func (t *Top) SimilarTo(other Entry) bool {
	return shared.NormalizeQuery(t.Title()) == similarityKey(other)
}
