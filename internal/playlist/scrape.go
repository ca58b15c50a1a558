package playlist

import (
	"context"
	"fmt"
	"strings"

	"mixdown/internal/shared"
)

// Scrape marks a web page whose content becomes further playlist input. It
// does not resolve itself: the generator fetches the page, converts it to
// directive text and splices the parsed result in before dispatch. A Scrape
// reaching Resolve means that expansion step was skipped.
type Scrape struct {
	// URL is the page to fetch.
	URL string
	// Pages is how many listing pages to walk, 0 for one.
	Pages int
}

// NewScrape creates a scrape marker for a URL.
func NewScrape(url string, pages int) *Scrape {
	return &Scrape{URL: url, Pages: pages}
}

func (s *Scrape) Resolve(ctx context.Context) (*Outcome, error) {
	return nil, fmt.Errorf("%w: scrape entry %q was not expanded", shared.ErrInvalidInput, s.URL)
}

func (s *Scrape) Resolved() bool { return false }

func (s *Scrape) Refresh(ctx context.Context) error { return nil }

func (s *Scrape) ID() string  { return "" }
func (s *Scrape) URI() string { return "" }

func (s *Scrape) Title() string { return s.URL }

func (s *Scrape) Popularity() int { return -1 }

func (s *Scrape) Property(key string) string {
	switch strings.ToLower(key) {
	case "entry", "title", "name":
		return s.URL
	default:
		return ""
	}
}

func (s *Scrape) Equals(other Entry) bool {
	o, ok := other.(*Scrape)
	return ok && s.URL == o.URL
}

func (s *Scrape) SimilarTo(other Entry) bool {
	return s.Equals(other)
}
