package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"mixdown/internal/shared"
)

func newTestScraper(t *testing.T, handler http.Handler) (*Scraper, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := New(Opts{
		Throttle:   time.Millisecond,
		HTTPClient: srv.Client(),
	})
	return s, srv.URL
}

func TestScrapeGeneric(t *testing.T) {
	t.Run("harvests catalog links once each", func(t *testing.T) {
		s, base := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>
				<a href="https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6">one</a>
				<a href="https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6">again</a>
				<a href="https://open.spotify.com/album/2guirTSEqLizK7j9i1MTTZ">two</a>
			</body></html>`)
		}))

		text, err := s.Scrape(context.Background(), base+"/somewhere", 0)
		if err != nil {
			t.Fatalf("Scrape failed: %v", err)
		}
		lines := strings.Split(text, "\n")
		if len(lines) != 2 {
			t.Errorf("lines = %v", lines)
		}
	})

	t.Run("empty page yields ErrNotFound", func(t *testing.T) {
		s, base := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>nothing here</body></html>`)
		}))

		_, err := s.Scrape(context.Background(), base, 0)
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("http error surfaces", func(t *testing.T) {
		s, base := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := s.Scrape(context.Background(), base, 0)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestLastfmAdapter(t *testing.T) {
	t.Run("library artists become top directives", func(t *testing.T) {
		u, _ := url.Parse("https://www.last.fm/user/someone/library/artists")
		ad := adapterFor(u)
		lines := ad.extract(`<a class="link-block-target" title="Boards of Canada"></a>
			<a class="link-block-target" title="Burial"></a>`)
		if len(lines) != 2 || lines[0] != "#TOP Boards of Canada" {
			t.Errorf("lines = %v", lines)
		}
	})

	t.Run("chart rows become track queries", func(t *testing.T) {
		u, _ := url.Parse("https://www.last.fm/user/someone/library/tracks")
		ad := adapterFor(u)
		lines := ad.extract(`<td class="chartlist-name"><a href="/x">Archangel</a></td>
			<td class="chartlist-artist"><a href="/y">Burial</a></td>`)
		if len(lines) != 1 || lines[0] != "Burial - Archangel" {
			t.Errorf("lines = %v", lines)
		}
	})

	t.Run("paginates with a page parameter", func(t *testing.T) {
		u, _ := url.Parse("https://www.last.fm/user/someone/library/artists")
		ad := adapterFor(u)
		if got := ad.pageURL("https://www.last.fm/x", 2); got != "https://www.last.fm/x?page=2" {
			t.Errorf("pageURL = %q", got)
		}
	})
}

func TestAotyAdapter(t *testing.T) {
	u, _ := url.Parse("https://www.albumoftheyear.org/ratings/6-highest-rated/2025/")
	ad := adapterFor(u)

	lines := ad.extract(`<div class="albumListTitle"><span><a href="/album/1">Radiohead - OK Computer</a></span></div>`)
	if len(lines) != 1 || lines[0] != "#ALBUM Radiohead - OK Computer" {
		t.Errorf("lines = %v", lines)
	}
	if got := ad.pageURL("https://www.albumoftheyear.org/ratings/6-highest-rated/2025/", 3); !strings.HasSuffix(got, "/3/") {
		t.Errorf("pageURL = %q", got)
	}
}

func TestRedditAdapter(t *testing.T) {
	t.Run("listing titles become queries", func(t *testing.T) {
		lines := extractRedditTitles(`{"data":{"children":[
			{"data":{"title":"Burial - Archangel"}},
			{"data":{"title":"Aphex Twin - Windowlicker"}}
		]}}`)
		if len(lines) != 2 || lines[1] != "Aphex Twin - Windowlicker" {
			t.Errorf("lines = %v", lines)
		}
	})

	t.Run("json suffix appended once", func(t *testing.T) {
		u, _ := url.Parse("https://www.reddit.com/r/listentothis/top/")
		ad := adapterFor(u)
		if got := ad.pageURL("https://www.reddit.com/r/listentothis/top/", 1); got != "https://www.reddit.com/r/listentothis/top.json" {
			t.Errorf("pageURL = %q", got)
		}
		if got := ad.pageURL("https://www.reddit.com/r/x.json", 1); got != "https://www.reddit.com/r/x.json" {
			t.Errorf("pageURL = %q", got)
		}
	})

	t.Run("malformed payload extracts nothing", func(t *testing.T) {
		if lines := extractRedditTitles("<html>not json</html>"); lines != nil {
			t.Errorf("lines = %v", lines)
		}
	})
}

func TestScrapePagination(t *testing.T) {
	// A paginating adapter keeps fetching until a page comes back empty.
	var pagesServed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed = append(pagesServed, r.URL.RawQuery)
		if r.URL.Query().Get("page") == "3" {
			fmt.Fprint(w, "<html></html>")
			return
		}
		fmt.Fprint(w, `<td class="chartlist-name"><a>Song</a></td><td class="chartlist-artist"><a>Band</a></td>`)
	}))
	t.Cleanup(srv.Close)

	s := New(Opts{Throttle: time.Millisecond, HTTPClient: srv.Client()})

	// Host-based dispatch needs a last.fm URL; rewrite requests to the test
	// server through its client transport is overkill here, so drive the
	// adapter selection and fetch loop separately.
	u, _ := url.Parse("https://www.last.fm/user/someone/library/tracks")
	ad := adapterFor(u)

	var lines []string
	for page := 1; page <= 5; page++ {
		body, err := s.fetch(context.Background(), ad.pageURL(srv.URL, page))
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		extracted := ad.extract(body)
		if len(extracted) == 0 {
			break
		}
		lines = append(lines, extracted...)
	}

	if len(lines) != 2 {
		t.Errorf("lines = %v", lines)
	}
	if len(pagesServed) != 3 {
		t.Errorf("pages served = %v", pagesServed)
	}
}
