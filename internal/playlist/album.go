package playlist

import (
	"context"
	"fmt"
	"math"
	"strings"

	"mixdown/internal/catalog"
	"mixdown/internal/rank"
	"mixdown/internal/shared"
)

// Album resolves a textual query or known ID to a catalog album. With
// FetchTracks set the album explodes into its track listing; otherwise it
// stays a terminal entry rendered as an album URI.
type Album struct {
	res *Resolver

	Text    string
	KnownID string
	// FetchTracks controls whether resolution expands the track listing.
	FetchTracks bool
	// Limit caps the number of tracks taken from the listing, 0 for all.
	Limit int

	response *catalog.Album
}

// NewAlbum creates an album entry from free text.
func NewAlbum(res *Resolver, text string, fetchTracks bool, limit int) *Album {
	return &Album{res: res, Text: text, FetchTracks: fetchTracks, Limit: limit}
}

// NewAlbumID creates an album entry with a known catalog ID.
func NewAlbumID(res *Resolver, id string, fetchTracks bool, limit int) *Album {
	return &Album{res: res, Text: id, KnownID: id, FetchTracks: fetchTracks, Limit: limit}
}

// albumFromCatalog wraps an already-fetched catalog album.
func albumFromCatalog(res *Resolver, ca catalog.Album, fetchTracks bool, limit int) *Album {
	return &Album{
		res:         res,
		Text:        ca.Name,
		FetchTracks: fetchTracks,
		Limit:       limit,
		response:    &ca,
	}
}

// Resolve finds the album, then either returns it as a terminal entry or
// expands its track listing into a queue of resolved track entries tagged
// with the album title.
func (a *Album) Resolve(ctx context.Context) (*Outcome, error) {
	if err := a.resolveIdentity(ctx); err != nil {
		return nil, err
	}

	if !a.FetchTracks {
		return &Outcome{Entry: a}, nil
	}

	listing, err := a.res.Catalog.AlbumTracks(ctx, a.response.ID)
	if err != nil {
		return nil, fmt.Errorf("album %q tracks: %w", a.response.Name, err)
	}
	queue := NewQueue()
	for _, ct := range listing {
		queue.Push(trackFromCatalog(a.res, ct, a.response.Name, true))
	}
	queue.Limit(a.Limit)
	return &Outcome{Queue: queue}, nil
}

// resolveIdentity fills the catalog response by lookup or ranked search.
func (a *Album) resolveIdentity(ctx context.Context) error {
	if a.response != nil {
		return nil
	}

	if a.KnownID != "" {
		ca, err := a.res.Catalog.Album(ctx, a.KnownID)
		if err != nil {
			return fmt.Errorf("album %q: %w", a.KnownID, err)
		}
		a.response = ca
		return nil
	}

	candidates, err := a.res.Catalog.SearchAlbums(ctx, a.Text, 0)
	if err == nil && len(candidates) == 0 {
		err = fmt.Errorf("%w: %q", shared.ErrNotFound, a.Text)
	}
	if err != nil {
		if LooksLikeID(a.Text) {
			ca, lookupErr := a.res.Catalog.Album(ctx, a.Text)
			if lookupErr == nil {
				a.response = ca
				return nil
			}
		}
		return fmt.Errorf("album %q: %w", a.Text, err)
	}

	best := pickAlbum(a.Text, candidates)
	a.response = &best
	return nil
}

func pickAlbum(query string, candidates []catalog.Album) catalog.Album {
	rank.Sort(candidates, rank.Combine(
		rank.Descending(func(c catalog.Album) float64 {
			name := c.Name
			if len(c.Artists) > 0 {
				name = fmt.Sprintf("%s - %s", c.Artists[0].Name, c.Name)
			}
			return quantize(math.Max(rank.Similarity(query, name), rank.Similarity(query, c.Name)))
		}),
		rank.Descending(func(c catalog.Album) float64 { return float64(c.Popularity) }),
	))
	return candidates[0]
}

func (a *Album) Resolved() bool { return a.response != nil }

// Refresh is a no-op for albums; identity resolution fetches the full payload.
func (a *Album) Refresh(ctx context.Context) error { return nil }

func (a *Album) ID() string {
	if a.response == nil {
		return ""
	}
	return a.response.ID
}

func (a *Album) URI() string {
	if a.response == nil {
		return ""
	}
	if a.response.URI != "" {
		return a.response.URI
	}
	return "spotify:album:" + a.response.ID
}

func (a *Album) Title() string {
	if a.response == nil {
		return a.Text
	}
	if len(a.response.Artists) > 0 {
		return fmt.Sprintf("%s - %s", a.response.Artists[0].Name, a.response.Name)
	}
	return a.response.Name
}

func (a *Album) Popularity() int {
	if a.response == nil {
		return -1
	}
	return a.response.Popularity
}

func (a *Album) Property(key string) string {
	switch strings.ToLower(key) {
	case "artist":
		if a.response != nil && len(a.response.Artists) > 0 {
			return a.response.Artists[0].Name
		}
		return ""
	case "album", "title", "name":
		if a.response != nil {
			return a.response.Name
		}
		return a.Text
	case "entry":
		return a.Text
	default:
		return ""
	}
}

func (a *Album) Equals(other Entry) bool {
	return a.URI() != "" && a.URI() == other.URI()
}

func (a *Album) SimilarTo(other Entry) bool {
	return a.similarityKey() == similarityKey(other)
}

func (a *Album) similarityKey() string {
	if a.response != nil {
		artist := ""
		if len(a.response.Artists) > 0 {
			artist = a.response.Artists[0].Name
		}
		return shared.NormalizeTrackKey(a.response.Name, artist)
	}
	return shared.NormalizeQuery(a.Text)
}
