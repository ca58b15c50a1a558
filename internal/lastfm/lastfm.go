// package lastfm implements a minimal Last.fm track.getInfo client used for
// playcount-based ordering
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
	"mixdown/internal/shared"
)

const defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// TrackInfo holds the playcounts consumed by Last.fm ordering: the global
// count for everyone, and the personal count when a username was supplied.
type TrackInfo struct {
	GlobalPlays int
	UserPlays   int
}

// Client queries the Last.fm API for track playcounts.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Opts configures a Client. BaseURL and HTTPClient exist for tests.
type Opts struct {
	APIKey     string
	BaseURL    string
	Throttle   time.Duration
	HTTPClient *http.Client
}

// New creates a Last.fm client. An empty API key is allowed; calls then fail
// with [shared.ErrMissingCredentials] so the pipeline can degrade gracefully.
func New(opts Opts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Throttle <= 0 {
		opts.Throttle = 100 * time.Millisecond
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

	return &Client{
		apiKey:  opts.APIKey,
		baseURL: opts.BaseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(opts.Throttle), 1),
	}
}

// trackInfoResponse mirrors the wire payload; Last.fm serializes counts as
// strings.
type trackInfoResponse struct {
	Track struct {
		Playcount     string `json:"playcount"`
		UserPlaycount string `json:"userplaycount"`
	} `json:"track"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// TrackInfo fetches global and (when user is non-empty) personal playcounts
// for a track identified by artist and title.
func (c *Client) TrackInfo(ctx context.Context, artist, title, user string) (*TrackInfo, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: lastfm api_key not configured", shared.ErrMissingCredentials)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("method", "track.getInfo")
	params.Set("api_key", c.apiKey)
	params.Set("artist", artist)
	params.Set("track", title)
	params.Set("format", "json")
	if user != "" {
		params.Set("username", user)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var payload trackInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if payload.Error != 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, payload.Message)
	}

	info := &TrackInfo{
		GlobalPlays: atoi(payload.Track.Playcount),
		UserPlays:   atoi(payload.Track.UserPlaycount),
	}
	return info, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
