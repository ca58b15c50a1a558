package playlist

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mixdown/internal/catalog"
	"mixdown/internal/rank"
	"mixdown/internal/shared"
)

// Track is the terminal entry type: a textual query or known catalog ID that
// resolves to exactly one catalog track.
type Track struct {
	res *Resolver

	// Text is the original query ("Artist - Title" or free text).
	Text string
	// KnownID short-circuits search when the input carried a catalog ID.
	KnownID string
	// AlbumTag is the owning album's title when this track came from an
	// album listing; it stands in for album metadata until a refresh.
	AlbumTag string

	response   *catalog.Track
	simplified bool // response from a listing without popularity/album info
	plays      *playcounts
}

type playcounts struct {
	user   int
	global int
}

// NewTrack creates an unresolved track entry from free text.
func NewTrack(res *Resolver, text string) *Track {
	return &Track{res: res, Text: text}
}

// NewTrackID creates an unresolved track entry with a known catalog ID.
func NewTrackID(res *Resolver, id string) *Track {
	return &Track{res: res, Text: id, KnownID: id}
}

// trackFromCatalog wraps an already-fetched catalog track. simplified marks
// listings that omit popularity and album fields.
func trackFromCatalog(res *Resolver, ct catalog.Track, albumTag string, simplified bool) *Track {
	return &Track{
		res:        res,
		Text:       ct.Name,
		response:   &ct,
		AlbumTag:   albumTag,
		simplified: simplified,
	}
}

// Resolve locates the track in the catalog. Free-text entries search and pick
// the best candidate; on search failure an ID-shaped query falls back to a
// direct lookup.
func (t *Track) Resolve(ctx context.Context) (*Outcome, error) {
	if t.response != nil {
		return &Outcome{Entry: t}, nil
	}

	if t.KnownID != "" {
		ct, err := t.res.Catalog.Track(ctx, t.KnownID)
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", t.KnownID, err)
		}
		t.response = ct
		return &Outcome{Entry: t}, nil
	}

	candidates, err := t.res.Catalog.SearchTracks(ctx, t.Text, 0)
	if err == nil && len(candidates) == 0 {
		err = fmt.Errorf("%w: %q", shared.ErrNotFound, t.Text)
	}
	if err != nil {
		if LooksLikeID(t.Text) {
			ct, lookupErr := t.res.Catalog.Track(ctx, t.Text)
			if lookupErr == nil {
				t.response = ct
				return &Outcome{Entry: t}, nil
			}
		}
		return nil, fmt.Errorf("track %q: %w", t.Text, err)
	}

	best := pickTrack(t.Text, candidates)
	t.response = &best
	return &Outcome{Entry: t}, nil
}

// pickTrack orders candidates by similarity to the query, breaking ties by
// popularity and then explicit-content preference. Similarity is quantized
// so near-equal matches defer to popularity.
func pickTrack(query string, candidates []catalog.Track) catalog.Track {
	rank.Sort(candidates, rank.Combine(
		rank.Descending(func(c catalog.Track) float64 {
			return quantize(trackSimilarity(query, c))
		}),
		rank.Descending(func(c catalog.Track) float64 { return float64(c.Popularity) }),
		rank.ByExplicit(func(c catalog.Track) bool { return c.Explicit }),
	))
	return candidates[0]
}

func trackSimilarity(query string, c catalog.Track) float64 {
	name := c.Name
	if len(c.Artists) > 0 {
		name = fmt.Sprintf("%s - %s", c.Artists[0].Name, c.Name)
	}
	return math.Max(rank.Similarity(query, name), rank.Similarity(query, c.Name))
}

func quantize(sim float64) float64 {
	return math.Round(sim*100) / 100
}

// Resolved reports whether a catalog response is held.
func (t *Track) Resolved() bool { return t.response != nil }

// Refresh re-fetches the track by ID when the held response came from a
// simplified listing, filling in popularity and album metadata.
func (t *Track) Refresh(ctx context.Context) error {
	if t.response == nil || !t.simplified || t.response.ID == "" {
		return nil
	}
	ct, err := t.res.Catalog.Track(ctx, t.response.ID)
	if err != nil {
		return err
	}
	t.response = ct
	t.simplified = false
	return nil
}

func (t *Track) ID() string {
	if t.response == nil {
		return ""
	}
	return t.response.ID
}

func (t *Track) URI() string {
	if t.response == nil {
		return ""
	}
	if t.response.URI != "" {
		return t.response.URI
	}
	return "spotify:track:" + t.response.ID
}

func (t *Track) Title() string {
	if t.response == nil {
		return t.Text
	}
	if len(t.response.Artists) > 0 {
		return fmt.Sprintf("%s - %s", t.response.Artists[0].Name, t.response.Name)
	}
	return t.response.Name
}

func (t *Track) Popularity() int {
	if t.response == nil || t.simplified {
		return -1
	}
	return t.response.Popularity
}

// Artists returns the credited artist names, empty until resolved.
func (t *Track) Artists() []string {
	if t.response == nil {
		return nil
	}
	return t.response.ArtistNames()
}

// AlbumName returns the album title, preferring full metadata over the
// listing tag.
func (t *Track) AlbumName() string {
	if t.response != nil && t.response.Album.Name != "" {
		return t.response.Album.Name
	}
	return t.AlbumTag
}

// Response exposes the raw catalog payload for rendering, nil until resolved.
func (t *Track) Response() *catalog.Track { return t.response }

// EnsurePlays fetches Last.fm playcounts once; repeated calls are no-ops.
func (t *Track) EnsurePlays(ctx context.Context, user string) error {
	if t.plays != nil || t.res.Lastfm == nil {
		return nil
	}

	artist := ""
	title := t.Text
	if t.response != nil {
		title = t.response.Name
		if len(t.response.Artists) > 0 {
			artist = t.response.Artists[0].Name
		}
	}

	info, err := t.res.Lastfm.TrackInfo(ctx, artist, title, user)
	if err != nil {
		t.plays = &playcounts{user: -1, global: -1}
		return err
	}
	t.plays = &playcounts{user: info.UserPlays, global: info.GlobalPlays}
	return nil
}

// UserPlays returns the personal Last.fm playcount, -1 when unknown.
func (t *Track) UserPlays() int {
	if t.plays == nil {
		return -1
	}
	return t.plays.user
}

// GlobalPlays returns the global Last.fm playcount, -1 when unknown.
func (t *Track) GlobalPlays() int {
	if t.plays == nil {
		return -1
	}
	return t.plays.global
}

func (t *Track) Property(key string) string {
	switch strings.ToLower(key) {
	case "artist":
		if names := t.Artists(); len(names) > 0 {
			return names[0]
		}
		return ""
	case "album":
		return t.AlbumName()
	case "entry":
		return t.Text
	case "title", "name":
		if t.response != nil {
			return t.response.Name
		}
		return t.Text
	case "popularity":
		return strconv.Itoa(t.Popularity())
	case "lastfm":
		return strconv.Itoa(t.UserPlays())
	case "duration":
		if t.response != nil {
			return strconv.Itoa(t.response.DurationMS)
		}
		return ""
	default:
		return ""
	}
}

func (t *Track) Equals(other Entry) bool {
	return t.URI() != "" && t.URI() == other.URI()
}

func (t *Track) SimilarTo(other Entry) bool {
	return t.similarityKey() == similarityKey(other)
}

func (t *Track) similarityKey() string {
	if t.response != nil {
		artist := ""
		if len(t.response.Artists) > 0 {
			artist = t.response.Artists[0].Name
		}
		return shared.NormalizeTrackKey(t.response.Name, artist)
	}
	return shared.NormalizeQuery(t.Text)
}

// similarityKey extracts the loose comparison key from any entry variant.
func similarityKey(e Entry) string {
	switch v := e.(type) {
	case *Track:
		return v.similarityKey()
	case *Album:
		return v.similarityKey()
	default:
		return shared.NormalizeQuery(e.Title())
	}
}
