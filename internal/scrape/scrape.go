// package scrape converts supported web pages into directive-language text
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
	"mixdown/internal/shared"
)

// Scraper fetches pages from known hosts and extracts playlist directives.
// Each supported host has an adapter that knows the page markup; unknown
// hosts fall back to harvesting catalog links from the raw HTML.
type Scraper struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger

	// PageLimit caps pagination regardless of what the script asks for.
	PageLimit int
}

// Opts configures a Scraper. HTTPClient exists for tests.
type Opts struct {
	Throttle   time.Duration
	PageLimit  int
	HTTPClient *http.Client
	Logger     *log.Logger
}

// New creates a Scraper with retrying transport and client-side throttling.
func New(opts Opts) *Scraper {
	if opts.Throttle <= 0 {
		opts.Throttle = 100 * time.Millisecond
	}
	if opts.PageLimit <= 0 {
		opts.PageLimit = 10
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
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

	return &Scraper{
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Every(opts.Throttle), 1),
		logger:    opts.Logger,
		PageLimit: opts.PageLimit,
	}
}

// Scrape fetches up to pages listing pages from the URL and returns the
// extracted directive text, one directive or query per line.
func (s *Scraper) Scrape(ctx context.Context, rawURL string, pages int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	ad := adapterFor(u)
	if pages <= 0 {
		pages = 1
	}
	if pages > s.PageLimit {
		pages = s.PageLimit
	}
	if !ad.paginates {
		pages = 1
	}

	var lines []string
	for page := 1; page <= pages; page++ {
		body, err := s.fetch(ctx, ad.pageURL(rawURL, page))
		if err != nil {
			if page == 1 {
				return "", err
			}
			s.logger.Warn("page fetch failed", "url", rawURL, "page", page, "error", err)
			break
		}
		extracted := ad.extract(body)
		if len(extracted) == 0 {
			break
		}
		lines = append(lines, extracted...)
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("%w: nothing extracted from %s", shared.ErrNotFound, rawURL)
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "mixdown/1.0")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d from %s", shared.ErrAPIRequest, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	return string(body), nil
}

// adapter binds host detection to page extraction.
type adapter struct {
	name      string
	paginates bool
	pageURL   func(base string, page int) string
	extract   func(body string) []string
}

func adapterFor(u *url.URL) adapter {
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.HasSuffix(host, "last.fm"):
		return lastfmAdapter(u)
	case strings.HasSuffix(host, "albumoftheyear.org"):
		return aotyAdapter()
	case strings.HasSuffix(host, "pitchfork.com"):
		return pitchforkAdapter()
	case strings.HasSuffix(host, "reddit.com"):
		return redditAdapter()
	default:
		return genericAdapter()
	}
}

func pagedURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", base, sep, page)
}

var (
	lastfmChartRe  = regexp.MustCompile(`(?s)<td class="chartlist-name">.*?<a[^>]*>([^<]+)</a>.*?<td class="chartlist-artist">.*?<a[^>]*>([^<]+)</a>`)
	lastfmArtistRe = regexp.MustCompile(`<a class="link-block-target"[^>]*title="([^"]+)"`)
)

// lastfmAdapter reads Last.fm chart pages. Library artist pages become top-
// tracks directives, track charts become plain "artist - title" queries.
func lastfmAdapter(u *url.URL) adapter {
	artistsPage := strings.Contains(u.Path, "/artists")
	return adapter{
		name:      "lastfm",
		paginates: true,
		pageURL:   pagedURL,
		extract: func(body string) []string {
			if artistsPage {
				var lines []string
				for _, m := range lastfmArtistRe.FindAllStringSubmatch(body, -1) {
					lines = append(lines, "#TOP "+html.UnescapeString(m[1]))
				}
				return lines
			}
			var lines []string
			for _, m := range lastfmChartRe.FindAllStringSubmatch(body, -1) {
				title := html.UnescapeString(strings.TrimSpace(m[1]))
				artist := html.UnescapeString(strings.TrimSpace(m[2]))
				lines = append(lines, artist+" - "+title)
			}
			return lines
		},
	}
}

var aotyRe = regexp.MustCompile(`(?s)<div class="albumListTitle">.*?<a[^>]*>([^<]+)</a>`)

// aotyAdapter reads albumoftheyear.org list pages; rows carry
// "Artist - Album" link text.
func aotyAdapter() adapter {
	return adapter{
		name:      "albumoftheyear",
		paginates: true,
		pageURL: func(base string, page int) string {
			if page <= 1 {
				return base
			}
			return strings.TrimSuffix(base, "/") + fmt.Sprintf("/%d/", page)
		},
		extract: func(body string) []string {
			var lines []string
			for _, m := range aotyRe.FindAllStringSubmatch(body, -1) {
				lines = append(lines, "#ALBUM "+html.UnescapeString(strings.TrimSpace(m[1])))
			}
			return lines
		},
	}
}

var pitchforkRe = regexp.MustCompile(`(?s)<div class="review__title">.*?<ul class="artist-list[^"]*">\s*<li>([^<]+)</li>.*?<h2[^>]*>(?:<em>)?([^<]+)`)

// pitchforkAdapter reads review listing pages into album directives.
func pitchforkAdapter() adapter {
	return adapter{
		name:      "pitchfork",
		paginates: true,
		pageURL:   pagedURL,
		extract: func(body string) []string {
			var lines []string
			for _, m := range pitchforkRe.FindAllStringSubmatch(body, -1) {
				artist := html.UnescapeString(strings.TrimSpace(m[1]))
				album := html.UnescapeString(strings.TrimSpace(m[2]))
				lines = append(lines, "#ALBUM "+artist+" - "+album)
			}
			return lines
		},
	}
}

// redditAdapter reads a subreddit or thread through the .json endpoint and
// treats post titles as free-text queries. Reddit paginates by cursor, not
// page number, so only the first page is read.
func redditAdapter() adapter {
	return adapter{
		name:      "reddit",
		paginates: false,
		pageURL: func(base string, page int) string {
			trimmed := strings.TrimSuffix(base, "/")
			if strings.HasSuffix(trimmed, ".json") {
				return trimmed
			}
			return trimmed + ".json"
		},
		extract: extractRedditTitles,
	}
}

func extractRedditTitles(body string) []string {
	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Title string `json:"title"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		// Thread endpoints return an array of listings.
		var listings []json.RawMessage
		if err := json.Unmarshal([]byte(body), &listings); err != nil || len(listings) == 0 {
			return nil
		}
		if err := json.Unmarshal(listings[0], &payload); err != nil {
			return nil
		}
	}

	var lines []string
	for _, child := range payload.Data.Children {
		if title := strings.TrimSpace(child.Data.Title); title != "" {
			lines = append(lines, title)
		}
	}
	return lines
}

var spotifyLinkRe = regexp.MustCompile(`https?://open\.spotify\.com/(?:track|album|artist|playlist)/[0-9A-Za-z]+`)

// genericAdapter is the fallback for unknown hosts: harvest catalog links
// from the markup and let the parser type them.
func genericAdapter() adapter {
	return adapter{
		name:      "generic",
		paginates: false,
		pageURL:   func(base string, page int) string { return base },
		extract: func(body string) []string {
			links := spotifyLinkRe.FindAllString(body, -1)
			seen := make(map[string]bool, len(links))
			var lines []string
			for _, link := range links {
				if !seen[link] {
					seen[link] = true
					lines = append(lines, link)
				}
			}
			return lines
		},
	}
}
