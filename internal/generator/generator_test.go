package generator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"mixdown/internal/catalog"
	"mixdown/internal/playlist"
	"mixdown/internal/shared"
	tu "mixdown/internal/testing"
)

func newTestGenerator(mock *tu.MockCatalog, scraper Scraper) *Generator {
	res := playlist.NewResolver(mock, nil, shared.NewLogger(io.Discard))
	return New(res, scraper)
}

func searchResult(id, name, artist string, pop int) catalog.Track {
	return catalog.Track{
		ID:         id,
		Name:       name,
		Artists:    []catalog.Artist{{Name: artist}},
		Popularity: pop,
		URI:        "spotify:track:" + id,
	}
}

type fakeScraper struct {
	pages map[string]string
}

func (f *fakeScraper) Scrape(ctx context.Context, url string, pages int) (string, error) {
	text, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedHost, url)
	}
	return text, nil
}

func TestRunScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("single track query renders as a list", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["The xx - Test Me"] = []catalog.Track{
			searchResult("t1", "Test Me", "The xx", 60),
		}

		result, err := newTestGenerator(mock, nil).Run(ctx, "The xx - Test Me")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := result.Render(FormatList); got != "The xx - Test Me" {
			t.Errorf("list output = %q", got)
		}
	})

	t.Run("csv directive renders rows with trailing empty fields", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.Tracks["AAAA"] = catalog.Track{ID: "AAAA", Name: "First", URI: "spotify:track:AAAA"}
		mock.Tracks["BBBB"] = catalog.Track{ID: "BBBB", Name: "Second", URI: "spotify:track:BBBB"}

		result, err := newTestGenerator(mock, nil).Run(ctx, "#csv\nspotify:track:AAAA\nspotify:track:BBBB")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		got := result.Render(FormatURI)
		if !strings.HasPrefix(got, "sep=,\n") {
			t.Fatalf("missing sep header: %q", got)
		}
		lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %q", got)
		}
		if lines[1] != "spotify:track:AAAA,First,,,,,,," {
			t.Errorf("row = %q", lines[1])
		}
	})

	t.Run("order by popularity lists the popular track first", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["TrackA"] = []catalog.Track{searchResult("a", "TrackA", "X", 30)}
		mock.TrackResults["TrackB"] = []catalog.Track{searchResult("b", "TrackB", "Y", 90)}

		result, err := newTestGenerator(mock, nil).Run(ctx, "#order by popularity\nTrackA\nTrackB")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		uris := result.URIs()
		if uris[0] != "spotify:track:b" || uris[1] != "spotify:track:a" {
			t.Errorf("uris = %v", uris)
		}
	})

	t.Run("duplicate queries collapse by default", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["Idioteque"] = []catalog.Track{searchResult("t1", "Idioteque", "Radiohead", 70)}

		result, err := newTestGenerator(mock, nil).Run(ctx, "Idioteque\nIdioteque")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := result.URIs(); len(got) != 1 {
			t.Errorf("uris = %v, want exactly one", got)
		}
	})

	t.Run("duplicates kept when requested", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["Idioteque"] = []catalog.Track{searchResult("t1", "Idioteque", "Radiohead", 70)}

		result, err := newTestGenerator(mock, nil).Run(ctx, "#dup\nIdioteque\nIdioteque")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := result.URIs(); len(got) != 2 {
			t.Errorf("uris = %v, want both", got)
		}
	})

	t.Run("m3u input yields one track", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["Artist - Title"] = []catalog.Track{searchResult("t1", "Title", "Artist", 50)}

		result, err := newTestGenerator(mock, nil).Run(ctx, "#EXTM3U\n#EXTINF:100,Artist - Title\npath/to/file.mp3")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := result.URIs(); len(got) != 1 || got[0] != "spotify:track:t1" {
			t.Errorf("uris = %v", got)
		}
	})

	t.Run("unresolved entries drop out but are reported", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["good"] = []catalog.Track{searchResult("t1", "good", "A", 50)}

		result, err := newTestGenerator(mock, nil).Run(ctx, "good\nno such track")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(result.Failures) != 1 {
			t.Errorf("failures = %v", result.Failures)
		}
		if got := result.URIs(); len(got) != 1 {
			t.Errorf("uris = %v", got)
		}
	})

	t.Run("reverse wins over shuffle", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["one"] = []catalog.Track{searchResult("t1", "one", "A", 50)}
		mock.TrackResults["two"] = []catalog.Track{searchResult("t2", "two", "B", 50)}

		result, err := newTestGenerator(mock, nil).Run(ctx, "#reverse\n#shuffle\none\ntwo")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		uris := result.URIs()
		if uris[0] != "spotify:track:t2" || uris[1] != "spotify:track:t1" {
			t.Errorf("uris = %v", uris)
		}
	})

	t.Run("alternate by artist interleaves", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["a1"] = []catalog.Track{searchResult("a1", "a1", "X", 50)}
		mock.TrackResults["a2"] = []catalog.Track{searchResult("a2", "a2", "X", 50)}
		mock.TrackResults["b1"] = []catalog.Track{searchResult("b1", "b1", "Y", 50)}

		result, err := newTestGenerator(mock, nil).Run(ctx, "#alternate by artist\na1\na2\nb1")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		uris := result.URIs()
		want := []string{"spotify:track:a1", "spotify:track:b1", "spotify:track:a2"}
		for i := range want {
			if uris[i] != want[i] {
				t.Fatalf("uris = %v, want %v", uris, want)
			}
		}
	})
}

func TestScrapeExpansion(t *testing.T) {
	ctx := context.Background()

	t.Run("scraped text is parsed and spliced in", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["A - One"] = []catalog.Track{searchResult("t1", "One", "A", 50)}
		mock.TrackResults["B - Two"] = []catalog.Track{searchResult("t2", "Two", "B", 50)}
		scraper := &fakeScraper{pages: map[string]string{
			"https://example.com/chart": "A - One\nB - Two",
		}}

		result, err := newTestGenerator(mock, scraper).Run(ctx, "https://example.com/chart")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := result.URIs(); len(got) != 2 {
			t.Errorf("uris = %v", got)
		}
	})

	t.Run("recursive scrapes stop at the depth limit", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		scraper := &fakeScraper{pages: map[string]string{
			"https://example.com/loop": "https://example.com/loop",
		}}

		gen := newTestGenerator(mock, scraper)
		gen.DepthLimit = 2
		result, err := gen.Run(ctx, "https://example.com/loop")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := result.URIs(); len(got) != 0 {
			t.Errorf("uris = %v, want none", got)
		}
	})

	t.Run("failed scrapes are skipped", func(t *testing.T) {
		mock := tu.NewMockCatalog()
		mock.TrackResults["good"] = []catalog.Track{searchResult("t1", "good", "A", 50)}
		scraper := &fakeScraper{pages: map[string]string{}}

		result, err := newTestGenerator(mock, scraper).Run(ctx, "good\nhttps://example.com/missing")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := result.URIs(); len(got) != 1 {
			t.Errorf("uris = %v", got)
		}
	})
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	mock := tu.NewMockCatalog()
	mock.Tracks["AAAA"] = catalog.Track{
		ID: "AAAA", Name: "Test Me",
		Artists:     []catalog.Artist{{Name: "The xx"}},
		Album:       catalog.AlbumRef{Name: "xx"},
		Popularity:  61,
		DurationMS:  161000,
		TrackNumber: 8,
		DiscNumber:  1,
		URI:         "spotify:track:AAAA",
	}

	result, err := newTestGenerator(mock, nil).Run(ctx, "#order by popularity\nspotify:track:AAAA")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	t.Run("uri", func(t *testing.T) {
		if got := result.Render(FormatURI); got != "spotify:track:AAAA" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("list", func(t *testing.T) {
		if got := result.Render(FormatList); got != "The xx - Test Me" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("log includes the ordering value", func(t *testing.T) {
		if got := result.Render(FormatLog); got != "The xx - Test Me (61)" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("csv row carries full metadata", func(t *testing.T) {
		got := result.Render(FormatCSV)
		want := "sep=,\nspotify:track:AAAA,Test Me,The xx,xx,1,8,161000,,\n"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("queue renders json", func(t *testing.T) {
		got := result.Render(FormatQueue)
		if !strings.Contains(got, `"uri": "spotify:track:AAAA"`) {
			t.Errorf("got %q", got)
		}
	})
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("bogus"); err == nil {
		t.Error("expected an error for unknown format")
	}
	f, err := ParseFormat("")
	if err != nil || f != FormatURI {
		t.Errorf("default format = %v, %v", f, err)
	}
}
