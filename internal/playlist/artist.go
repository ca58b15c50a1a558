package playlist

import (
	"context"
	"fmt"
	"strings"

	"mixdown/internal/catalog"
	"mixdown/internal/rank"
	"mixdown/internal/shared"
)

// Artist expands a textual artist query into that artist's discography: the
// artist's albums are walked in release-type order and every track crediting
// the artist is collected.
type Artist struct {
	res *Resolver

	Text    string
	KnownID string
	// Limit caps the number of collected tracks, 0 for all.
	Limit int

	response *catalog.Artist
}

// NewArtist creates an artist entry from free text.
func NewArtist(res *Resolver, text string, limit int) *Artist {
	return &Artist{res: res, Text: text, Limit: limit}
}

// NewArtistID creates an artist entry with a known catalog ID.
func NewArtistID(res *Resolver, id string, limit int) *Artist {
	return &Artist{res: res, Text: id, KnownID: id, Limit: limit}
}

// Resolve finds the artist, walks their albums and collects the tracks the
// artist is credited on into a queue.
func (a *Artist) Resolve(ctx context.Context) (*Outcome, error) {
	if err := a.resolveIdentity(ctx); err != nil {
		return nil, err
	}

	albums, err := a.res.Catalog.ArtistAlbums(ctx, a.response.ID)
	if err != nil {
		return nil, fmt.Errorf("artist %q albums: %w", a.response.Name, err)
	}

	// Albums first, then singles and appearances, popular releases before
	// obscure ones within each tier.
	rank.Sort(albums, rank.Combine(
		rank.Descending(func(c catalog.Album) float64 {
			return rank.AlbumTypeWeight(c.AlbumType)
		}),
		rank.Descending(func(c catalog.Album) float64 { return float64(c.Popularity) }),
	))

	queue := NewQueue()
	for _, album := range albums {
		if a.Limit > 0 && queue.Len() >= a.Limit {
			break
		}
		listing, err := a.res.Catalog.AlbumTracks(ctx, album.ID)
		if err != nil {
			return nil, fmt.Errorf("artist %q album %q: %w", a.response.Name, album.Name, err)
		}
		for _, ct := range listing {
			if a.Limit > 0 && queue.Len() >= a.Limit {
				break
			}
			if !creditsArtist(ct, a.response.Name) {
				continue
			}
			queue.Push(trackFromCatalog(a.res, ct, album.Name, true))
		}
	}
	return &Outcome{Queue: queue}, nil
}

// creditsArtist reports whether a listing track credits the named artist,
// matching case-insensitively on substrings so "Tyler, The Creator" matches
// a "Tyler" credit line.
func creditsArtist(ct catalog.Track, name string) bool {
	want := strings.ToLower(name)
	for _, artist := range ct.Artists {
		got := strings.ToLower(artist.Name)
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return true
		}
	}
	return false
}

func (a *Artist) resolveIdentity(ctx context.Context) error {
	if a.response != nil {
		return nil
	}

	if a.KnownID != "" {
		ca, err := a.res.Catalog.Artist(ctx, a.KnownID)
		if err != nil {
			return fmt.Errorf("artist %q: %w", a.KnownID, err)
		}
		a.response = ca
		return nil
	}

	candidates, err := a.res.Catalog.SearchArtists(ctx, a.Text, 0)
	if err == nil && len(candidates) == 0 {
		err = fmt.Errorf("%w: %q", shared.ErrNotFound, a.Text)
	}
	if err != nil {
		if LooksLikeID(a.Text) {
			ca, lookupErr := a.res.Catalog.Artist(ctx, a.Text)
			if lookupErr == nil {
				a.response = ca
				return nil
			}
		}
		return fmt.Errorf("artist %q: %w", a.Text, err)
	}

	best := pickArtist(a.Text, candidates)
	a.response = &best
	return nil
}

func pickArtist(query string, candidates []catalog.Artist) catalog.Artist {
	rank.Sort(candidates, rank.Combine(
		rank.Descending(func(c catalog.Artist) float64 {
			return quantize(rank.Similarity(query, c.Name))
		}),
		rank.Descending(func(c catalog.Artist) float64 { return float64(c.Popularity) }),
	))
	return candidates[0]
}

func (a *Artist) Resolved() bool { return a.response != nil }

func (a *Artist) Refresh(ctx context.Context) error { return nil }

func (a *Artist) ID() string {
	if a.response == nil {
		return ""
	}
	return a.response.ID
}

func (a *Artist) URI() string {
	if a.response == nil {
		return ""
	}
	if a.response.URI != "" {
		return a.response.URI
	}
	return "spotify:artist:" + a.response.ID
}

func (a *Artist) Title() string {
	if a.response == nil {
		return a.Text
	}
	return a.response.Name
}

func (a *Artist) Popularity() int {
	if a.response == nil {
		return -1
	}
	return a.response.Popularity
}

func (a *Artist) Property(key string) string {
	switch strings.ToLower(key) {
	case "artist", "title", "name":
		return a.Title()
	case "entry":
		return a.Text
	default:
		return ""
	}
}

func (a *Artist) Equals(other Entry) bool {
	return a.URI() != "" && a.URI() == other.URI()
}

func (a *Artist) SimilarTo(other Entry) bool {
	return shared.NormalizeQuery(a.Title()) == similarityKey(other)
}
