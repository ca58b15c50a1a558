// package catalog defines interface Client for the remote music catalog
package catalog

import "context"

// Client defines the search and lookup surface of the music catalog consumed
// by entry resolution. Implementations must be safe for sequential reuse; the
// resolution pipeline never calls concurrently.
type Client interface {
	// SearchTracks returns ranked track candidates for a free-text query.
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)

	// SearchAlbums returns ranked album candidates for a free-text query.
	SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error)

	// SearchArtists returns ranked artist candidates for a free-text query.
	SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error)

	// SearchPlaylists returns ranked playlist candidates for a free-text query.
	SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error)

	// Track retrieves a single track by catalog ID.
	Track(ctx context.Context, id string) (*Track, error)

	// Album retrieves a single album by catalog ID.
	Album(ctx context.Context, id string) (*Album, error)

	// AlbumTracks retrieves the full track listing of an album, following pagination.
	AlbumTracks(ctx context.Context, id string) ([]Track, error)

	// Artist retrieves a single artist by catalog ID.
	Artist(ctx context.Context, id string) (*Artist, error)

	// ArtistAlbums retrieves an artist's albums, following pagination.
	ArtistAlbums(ctx context.Context, id string) ([]Album, error)

	// ArtistTopTracks retrieves the artist's top tracks.
	ArtistTopTracks(ctx context.Context, id string) ([]Track, error)

	// RelatedArtists retrieves artists related to the given artist.
	RelatedArtists(ctx context.Context, id string) ([]Artist, error)

	// Playlist retrieves playlist metadata by ID.
	Playlist(ctx context.Context, id string) (*Playlist, error)

	// PlaylistTracks retrieves up to limit playlist tracks, following
	// pagination. limit <= 0 fetches everything.
	PlaylistTracks(ctx context.Context, id string, limit int) ([]Track, error)
}
