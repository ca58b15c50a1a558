package playlist

import (
	"context"
	"fmt"
	"strings"

	"mixdown/internal/catalog"
	"mixdown/internal/rank"
	"mixdown/internal/shared"
)

// Playlist expands a public catalog playlist, named by ID or free text, into
// its tracks.
type Playlist struct {
	res *Resolver

	Text    string
	KnownID string
	// Limit caps the number of tracks taken from the playlist, 0 for all.
	Limit int

	response *catalog.Playlist
}

// NewPlaylist creates a playlist entry from free text.
func NewPlaylist(res *Resolver, text string, limit int) *Playlist {
	return &Playlist{res: res, Text: text, Limit: limit}
}

// NewPlaylistID creates a playlist entry with a known catalog ID.
func NewPlaylistID(res *Resolver, id string, limit int) *Playlist {
	return &Playlist{res: res, Text: id, KnownID: id, Limit: limit}
}

// Resolve finds the playlist and expands its tracks into a queue. Playlist
// payloads carry full track objects, so the resulting entries need no
// refresh.
func (p *Playlist) Resolve(ctx context.Context) (*Outcome, error) {
	if err := p.resolveIdentity(ctx); err != nil {
		return nil, err
	}

	items, err := p.res.Catalog.PlaylistTracks(ctx, p.response.ID, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("playlist %q tracks: %w", p.response.Name, err)
	}

	queue := NewQueue()
	for _, item := range items {
		queue.Push(trackFromCatalog(p.res, item, item.Album.Name, false))
	}
	return &Outcome{Queue: queue}, nil
}

func (p *Playlist) resolveIdentity(ctx context.Context) error {
	if p.response != nil {
		return nil
	}

	if p.KnownID != "" {
		cp, err := p.res.Catalog.Playlist(ctx, p.KnownID)
		if err != nil {
			return fmt.Errorf("playlist %q: %w", p.KnownID, err)
		}
		p.response = cp
		return nil
	}

	candidates, err := p.res.Catalog.SearchPlaylists(ctx, p.Text, 0)
	if err == nil && len(candidates) == 0 {
		err = fmt.Errorf("%w: %q", shared.ErrNotFound, p.Text)
	}
	if err != nil {
		if LooksLikeID(p.Text) {
			cp, lookupErr := p.res.Catalog.Playlist(ctx, p.Text)
			if lookupErr == nil {
				p.response = cp
				return nil
			}
		}
		return fmt.Errorf("playlist %q: %w", p.Text, err)
	}

	best := pickPlaylist(p.Text, candidates)
	p.response = &best
	return nil
}

func pickPlaylist(query string, candidates []catalog.Playlist) catalog.Playlist {
	rank.Sort(candidates, rank.Descending(func(c catalog.Playlist) float64 {
		return quantize(rank.Similarity(query, c.Name))
	}))
	return candidates[0]
}

func (p *Playlist) Resolved() bool { return p.response != nil }

func (p *Playlist) Refresh(ctx context.Context) error { return nil }

func (p *Playlist) ID() string {
	if p.response == nil {
		return ""
	}
	return p.response.ID
}

func (p *Playlist) URI() string {
	if p.response == nil {
		return ""
	}
	if p.response.URI != "" {
		return p.response.URI
	}
	return "spotify:playlist:" + p.response.ID
}

func (p *Playlist) Title() string {
	if p.response == nil {
		return p.Text
	}
	return p.response.Name
}

func (p *Playlist) Popularity() int { return -1 }

func (p *Playlist) Property(key string) string {
	switch strings.ToLower(key) {
	case "title", "name":
		return p.Title()
	case "entry":
		return p.Text
	default:
		return ""
	}
}

func (p *Playlist) Equals(other Entry) bool {
	return p.URI() != "" && p.URI() == other.URI()
}

func (p *Playlist) SimilarTo(other Entry) bool {
	return shared.NormalizeQuery(p.Title()) == similarityKey(other)
}
