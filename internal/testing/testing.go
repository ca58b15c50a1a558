// package testing contains shared testing utilities
package testing

import (
	"context"
	"fmt"

	"mixdown/internal/catalog"
	"mixdown/internal/shared"
)

// MockCatalog is a test double for [catalog.Client] backed by canned data.
// Lookups miss with [shared.ErrNotFound]; every call is appended to Calls so
// tests can assert on request order.
type MockCatalog struct {
	Tracks    map[string]catalog.Track
	Albums    map[string]catalog.Album
	Artists   map[string]catalog.Artist
	Playlists map[string]catalog.Playlist

	TrackResults    map[string][]catalog.Track
	AlbumResults    map[string][]catalog.Album
	ArtistResults   map[string][]catalog.Artist
	PlaylistResults map[string][]catalog.Playlist

	AlbumListings map[string][]catalog.Track
	Discographies map[string][]catalog.Album
	TopTracks     map[string][]catalog.Track
	Related       map[string][]catalog.Artist
	PlaylistItems map[string][]catalog.Track

	Calls []string
}

// NewMockCatalog creates an empty mock with all maps initialized.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Tracks:          map[string]catalog.Track{},
		Albums:          map[string]catalog.Album{},
		Artists:         map[string]catalog.Artist{},
		Playlists:       map[string]catalog.Playlist{},
		TrackResults:    map[string][]catalog.Track{},
		AlbumResults:    map[string][]catalog.Album{},
		ArtistResults:   map[string][]catalog.Artist{},
		PlaylistResults: map[string][]catalog.Playlist{},
		AlbumListings:   map[string][]catalog.Track{},
		Discographies:   map[string][]catalog.Album{},
		TopTracks:       map[string][]catalog.Track{},
		Related:         map[string][]catalog.Artist{},
		PlaylistItems:   map[string][]catalog.Track{},
	}
}

func (m *MockCatalog) record(format string, args ...any) {
	m.Calls = append(m.Calls, fmt.Sprintf(format, args...))
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]catalog.Track, error) {
	m.record("SearchTracks(%s)", query)
	return m.TrackResults[query], nil
}

func (m *MockCatalog) SearchAlbums(ctx context.Context, query string, limit int) ([]catalog.Album, error) {
	m.record("SearchAlbums(%s)", query)
	return m.AlbumResults[query], nil
}

func (m *MockCatalog) SearchArtists(ctx context.Context, query string, limit int) ([]catalog.Artist, error) {
	m.record("SearchArtists(%s)", query)
	return m.ArtistResults[query], nil
}

func (m *MockCatalog) SearchPlaylists(ctx context.Context, query string, limit int) ([]catalog.Playlist, error) {
	m.record("SearchPlaylists(%s)", query)
	return m.PlaylistResults[query], nil
}

func (m *MockCatalog) Track(ctx context.Context, id string) (*catalog.Track, error) {
	m.record("Track(%s)", id)
	if t, ok := m.Tracks[id]; ok {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: track %s", shared.ErrNotFound, id)
}

func (m *MockCatalog) Album(ctx context.Context, id string) (*catalog.Album, error) {
	m.record("Album(%s)", id)
	if a, ok := m.Albums[id]; ok {
		return &a, nil
	}
	return nil, fmt.Errorf("%w: album %s", shared.ErrNotFound, id)
}

func (m *MockCatalog) Artist(ctx context.Context, id string) (*catalog.Artist, error) {
	m.record("Artist(%s)", id)
	if a, ok := m.Artists[id]; ok {
		return &a, nil
	}
	return nil, fmt.Errorf("%w: artist %s", shared.ErrNotFound, id)
}

func (m *MockCatalog) Playlist(ctx context.Context, id string) (*catalog.Playlist, error) {
	m.record("Playlist(%s)", id)
	if p, ok := m.Playlists[id]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
}

func (m *MockCatalog) AlbumTracks(ctx context.Context, id string) ([]catalog.Track, error) {
	m.record("AlbumTracks(%s)", id)
	if listing, ok := m.AlbumListings[id]; ok {
		return listing, nil
	}
	return nil, fmt.Errorf("%w: album %s", shared.ErrNotFound, id)
}

func (m *MockCatalog) ArtistAlbums(ctx context.Context, id string) ([]catalog.Album, error) {
	m.record("ArtistAlbums(%s)", id)
	if albums, ok := m.Discographies[id]; ok {
		return albums, nil
	}
	return nil, fmt.Errorf("%w: artist %s", shared.ErrNotFound, id)
}

func (m *MockCatalog) ArtistTopTracks(ctx context.Context, id string) ([]catalog.Track, error) {
	m.record("ArtistTopTracks(%s)", id)
	if tracks, ok := m.TopTracks[id]; ok {
		return tracks, nil
	}
	return nil, fmt.Errorf("%w: artist %s", shared.ErrNotFound, id)
}

func (m *MockCatalog) RelatedArtists(ctx context.Context, id string) ([]catalog.Artist, error) {
	m.record("RelatedArtists(%s)", id)
	if artists, ok := m.Related[id]; ok {
		return artists, nil
	}
	return nil, fmt.Errorf("%w: artist %s", shared.ErrNotFound, id)
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, id string, limit int) ([]catalog.Track, error) {
	m.record("PlaylistTracks(%s)", id)
	items, ok := m.PlaylistItems[id]
	if !ok {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
