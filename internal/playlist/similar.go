package playlist

import (
	"context"
	"fmt"
	"strings"

	"mixdown/internal/catalog"
	"mixdown/internal/shared"
)

// Similar expands an artist query into top tracks from artists the catalog
// considers related. The related artists' tracks are interleaved so no single
// artist dominates a stretch of the playlist.
type Similar struct {
	res *Resolver

	Text    string
	KnownID string
	// Limit caps how many related artists contribute, 0 for the resolver's
	// ArtistLimit.
	Limit int

	seed *Artist
}

// NewSimilar creates a similar-artists entry from an artist query.
func NewSimilar(res *Resolver, text string, limit int) *Similar {
	return &Similar{res: res, Text: text, Limit: limit}
}

// NewSimilarID creates a similar-artists entry with a known artist ID.
func NewSimilarID(res *Resolver, id string, limit int) *Similar {
	return &Similar{res: res, Text: id, KnownID: id, Limit: limit}
}

// Resolve identifies the seed artist, fetches related artists and collects
// each one's top tracks sequentially, then interleaves the per-artist runs
// round-robin into a single queue.
func (s *Similar) Resolve(ctx context.Context) (*Outcome, error) {
	if s.seed == nil {
		s.seed = &Artist{res: s.res, Text: s.Text, KnownID: s.KnownID}
	}
	if err := s.seed.resolveIdentity(ctx); err != nil {
		return nil, err
	}

	related, err := s.res.Catalog.RelatedArtists(ctx, s.seed.ID())
	if err != nil {
		return nil, fmt.Errorf("related artists for %q: %w", s.seed.Title(), err)
	}
	if len(related) == 0 {
		return nil, fmt.Errorf("%w: no related artists for %q", shared.ErrNotFound, s.seed.Title())
	}

	limit := s.Limit
	if limit <= 0 {
		limit = s.res.ArtistLimit
	}
	if limit > 0 && len(related) > limit {
		related = related[:limit]
	}

	runs := make([][]Entry, 0, len(related))
	for _, ra := range related {
		top := topForArtist(s.res, artistFromCatalog(s.res, ra), s.res.TracksPerArtist)
		outcome, err := top.Resolve(ctx)
		if err != nil {
			s.res.Logger.Warn("skipping related artist", "artist", ra.Name, "error", err)
			continue
		}
		runs = append(runs, outcome.Queue.Entries())
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no top tracks among artists related to %q", shared.ErrNotFound, s.seed.Title())
	}

	queue := NewQueue()
	for _, entry := range interleave(runs) {
		queue.Push(entry)
	}
	return &Outcome{Queue: queue}, nil
}

// interleave merges per-artist runs round-robin, preserving order within each
// run and dropping exhausted runs as it goes.
func interleave(runs [][]Entry) []Entry {
	total := 0
	for _, run := range runs {
		total += len(run)
	}

	merged := make([]Entry, 0, total)
	for i := 0; len(merged) < total; i++ {
		for _, run := range runs {
			if i < len(run) {
				merged = append(merged, run[i])
			}
		}
	}
	return merged
}

func artistFromCatalog(res *Resolver, ca catalog.Artist) *Artist {
	return &Artist{res: res, Text: ca.Name, response: &ca}
}

func (s *Similar) Resolved() bool { return s.seed != nil && s.seed.Resolved() }

func (s *Similar) Refresh(ctx context.Context) error { return nil }

func (s *Similar) ID() string {
	if s.seed == nil {
		return ""
	}
	return s.seed.ID()
}

func (s *Similar) URI() string {
	if s.seed == nil {
		return ""
	}
	return s.seed.URI()
}

func (s *Similar) Title() string {
	if s.seed != nil {
		return s.seed.Title()
	}
	return s.Text
}

func (s *Similar) Popularity() int {
	if s.seed == nil {
		return -1
	}
	return s.seed.Popularity()
}

func (s *Similar) Property(key string) string {
	switch strings.ToLower(key) {
	case "artist", "title", "name":
		return s.Title()
	case "entry":
		return s.Text
	default:
		return ""
	}
}

func (s *Similar) Equals(other Entry) bool {
	return s.URI() != "" && s.URI() == other.URI()
}

func (s *Similar) SimilarTo(other Entry) bool {
	return shared.NormalizeQuery(s.Title()) == similarityKey(other)
}
