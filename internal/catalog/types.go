// Catalog response types based on https://developer.spotify.com/documentation/web-api/reference/
package catalog

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a catalog artist.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Images     []Image  `json:"images"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// AlbumRef is the simplified album object embedded in track payloads.
type AlbumRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AlbumType string `json:"album_type"`
	URI       string `json:"uri"`
}

// Track represents a catalog track.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Album       AlbumRef `json:"album"`
	DiscNumber  int      `json:"disc_number"`
	TrackNumber int      `json:"track_number"`
	DurationMS  int      `json:"duration_ms"`
	Explicit    bool     `json:"explicit"`
	Popularity  int      `json:"popularity"`
	URI         string   `json:"uri"`
}

// ArtistNames joins the credited artist names for display.
func (t Track) ArtistNames() []string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return names
}

// Album represents a catalog album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AlbumType   string   `json:"album_type"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Popularity  int      `json:"popularity"`
	Images      []Image  `json:"images"`
	URI         string   `json:"uri"`
}

// Owner identifies the user owning a playlist.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Playlist represents catalog playlist metadata.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       Owner  `json:"owner"`
	URI         string `json:"uri"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// PlaylistTrack represents a track within a playlist context.
type PlaylistTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// paginated is the generic paging envelope used across list endpoints.
type paginated[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}
