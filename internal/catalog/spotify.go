// Spotify Web API implementation of [Client]
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
	"mixdown/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// defaultThrottle is the client-side politeness delay between outbound
	// calls. Resolution is sequential, so this bounds the request rate.
	defaultThrottle = 100 * time.Millisecond

	searchLimit = 20
	pageLimit   = 50
)

// SpotifyClient implements [Client] against the Spotify Web API using the
// OAuth2 client-credentials flow. Requests go through a retrying HTTP client,
// a circuit breaker, and a rate limiter.
type SpotifyClient struct {
	baseURL string
	tokens  oauth2.TokenSource
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

var _ Client = (*SpotifyClient)(nil)

// SpotifyOpts configures a SpotifyClient. BaseURL, Throttle and HTTPClient
// exist so tests can point the client at a fake server.
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Throttle     time.Duration
	HTTPClient   *http.Client
	StaticToken  string
}

// NewSpotifyClient creates a Spotify catalog client with the given credentials.
func NewSpotifyClient(ctx context.Context, opts SpotifyOpts) (*SpotifyClient, error) {
	if opts.StaticToken == "" {
		if opts.ClientID == "" || opts.ClientSecret == "" {
			return nil, fmt.Errorf("%w: spotify client_id and client_secret required", shared.ErrMissingCredentials)
		}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.Throttle <= 0 {
		opts.Throttle = defaultThrottle
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		retry := retryablehttp.NewClient()
		retry.RetryMax = 3
		retry.RetryWaitMin = 200 * time.Millisecond
		retry.RetryWaitMax = 2 * time.Second
		retry.Logger = nil
		httpClient = retry.StandardClient()
	}

	var tokens oauth2.TokenSource
	if opts.StaticToken != "" {
		tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.StaticToken})
	} else {
		conf := &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     spotifyTokenURL,
		}
		tokens = conf.TokenSource(context.WithValue(ctx, oauth2.HTTPClient, httpClient))
	}

	settings := gobreaker.Settings{
		Name:        "spotify-api",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &SpotifyClient{
		baseURL: opts.BaseURL,
		tokens:  tokens,
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: rate.NewLimiter(rate.Every(opts.Throttle), 1),
	}, nil
}

// doRequest performs a throttled, authenticated GET against the catalog API.
// endpoint may be a path relative to the base URL or a full pagination URL.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http") {
		apiURL = c.baseURL + endpoint
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.breaker.Execute(func() (any, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	resp := res.(*http.Response)
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
	}

	return nil
}

func (c *SpotifyClient) search(ctx context.Context, query, kind string, limit int, result any) error {
	if limit <= 0 || limit > pageLimit {
		limit = searchLimit
	}
	endpoint := fmt.Sprintf("/search?q=%s&type=%s&limit=%d", url.QueryEscape(query), kind, limit)
	return c.doRequest(ctx, endpoint, result)
}

// SearchTracks returns ranked track candidates for a free-text query.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	var response struct {
		Tracks paginated[Track] `json:"tracks"`
	}
	if err := c.search(ctx, query, "track", limit, &response); err != nil {
		return nil, err
	}
	return response.Tracks.Items, nil
}

// SearchAlbums returns ranked album candidates for a free-text query.
func (c *SpotifyClient) SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error) {
	var response struct {
		Albums paginated[Album] `json:"albums"`
	}
	if err := c.search(ctx, query, "album", limit, &response); err != nil {
		return nil, err
	}
	return response.Albums.Items, nil
}

// SearchArtists returns ranked artist candidates for a free-text query.
func (c *SpotifyClient) SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error) {
	var response struct {
		Artists paginated[Artist] `json:"artists"`
	}
	if err := c.search(ctx, query, "artist", limit, &response); err != nil {
		return nil, err
	}
	return response.Artists.Items, nil
}

// SearchPlaylists returns ranked playlist candidates for a free-text query.
func (c *SpotifyClient) SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error) {
	var response struct {
		Playlists paginated[Playlist] `json:"playlists"`
	}
	if err := c.search(ctx, query, "playlist", limit, &response); err != nil {
		return nil, err
	}
	return response.Playlists.Items, nil
}

// Track retrieves a single track by ID.
func (c *SpotifyClient) Track(ctx context.Context, id string) (*Track, error) {
	var track Track
	if err := c.doRequest(ctx, fmt.Sprintf("/tracks/%s", id), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Album retrieves a single album by ID.
func (c *SpotifyClient) Album(ctx context.Context, id string) (*Album, error) {
	var album Album
	if err := c.doRequest(ctx, fmt.Sprintf("/albums/%s", id), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// AlbumTracks retrieves the full track listing of an album. The simplified
// track objects returned here carry no album or popularity fields; callers
// needing those refresh via Track.
func (c *SpotifyClient) AlbumTracks(ctx context.Context, id string) ([]Track, error) {
	endpoint := fmt.Sprintf("/albums/%s/tracks?limit=%d", id, pageLimit)
	return collectPages[Track](ctx, c, endpoint, 0)
}

// Artist retrieves a single artist by ID.
func (c *SpotifyClient) Artist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	if err := c.doRequest(ctx, fmt.Sprintf("/artists/%s", id), &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// ArtistAlbums retrieves an artist's albums across all album groups.
func (c *SpotifyClient) ArtistAlbums(ctx context.Context, id string) ([]Album, error) {
	endpoint := fmt.Sprintf("/artists/%s/albums?include_groups=album,single,appears_on,compilation&limit=%d", id, pageLimit)
	return collectPages[Album](ctx, c, endpoint, 0)
}

// ArtistTopTracks retrieves the artist's top tracks.
func (c *SpotifyClient) ArtistTopTracks(ctx context.Context, id string) ([]Track, error) {
	var response struct {
		Tracks []Track `json:"tracks"`
	}
	if err := c.doRequest(ctx, fmt.Sprintf("/artists/%s/top-tracks", id), &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// RelatedArtists retrieves artists related to the given artist.
func (c *SpotifyClient) RelatedArtists(ctx context.Context, id string) ([]Artist, error) {
	var response struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.doRequest(ctx, fmt.Sprintf("/artists/%s/related-artists", id), &response); err != nil {
		return nil, err
	}
	return response.Artists, nil
}

// Playlist retrieves playlist metadata by ID.
func (c *SpotifyClient) Playlist(ctx context.Context, id string) (*Playlist, error) {
	var playlist Playlist
	if err := c.doRequest(ctx, fmt.Sprintf("/playlists/%s", id), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistTracks retrieves up to limit playlist tracks, following pagination.
func (c *SpotifyClient) PlaylistTracks(ctx context.Context, id string, limit int) ([]Track, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d", id, pageLimit)
	items, err := collectPages[PlaylistTrack](ctx, c, endpoint, limit)
	if err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(items))
	for _, item := range items {
		if item.Track.ID == "" {
			continue // local or removed track entries
		}
		tracks = append(tracks, item.Track)
	}
	return tracks, nil
}

// collectPages walks a paginated endpoint following the next cursor until the
// listing ends or limit items are gathered. limit <= 0 fetches everything.
func collectPages[T any](ctx context.Context, c *SpotifyClient, endpoint string, limit int) ([]T, error) {
	var all []T
	next := endpoint

	for next != "" {
		var page paginated[T]
		if err := c.doRequest(ctx, next, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
		if page.Next == nil {
			break
		}
		next = *page.Next
	}

	return all, nil
}
