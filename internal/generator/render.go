package generator

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"mixdown/internal/playlist"
	"mixdown/internal/shared"
)

// Format selects how a result renders.
type Format string

const (
	// FormatURI renders newline-joined catalog URIs, the default.
	FormatURI Format = "uri"
	// FormatList renders newline-joined display titles.
	FormatList Format = "list"
	// FormatCSV renders a sep=, header plus one row per track.
	FormatCSV Format = "csv"
	// FormatLog renders titles with the active ordering value in parens.
	FormatLog Format = "log"
	// FormatArray renders the URI format as individual strings.
	FormatArray Format = "array"
	// FormatQueue renders the raw entry structure as JSON.
	FormatQueue Format = "queue"
)

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatURI, FormatList, FormatCSV, FormatLog, FormatArray, FormatQueue:
		return f, nil
	case "":
		return FormatURI, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// URIs returns the resolved catalog URIs in final order, skipping entries
// that never resolved.
func (r *Result) URIs() []string {
	entries := r.Queue.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if uri := e.URI(); uri != "" {
			out = append(out, uri)
		}
	}
	return out
}

// Render produces the final output string for a format. It is a pure
// function of the finished queue and settings; the CSV setting overrides the
// requested format.
func (r *Result) Render(format Format) string {
	if r.Settings.CSV {
		format = FormatCSV
	}

	switch format {
	case FormatList:
		titles := make([]string, 0, r.Queue.Len())
		for _, e := range r.Queue.Entries() {
			if e.Resolved() {
				titles = append(titles, e.Title())
			}
		}
		return strings.Join(titles, "\n")

	case FormatCSV:
		return r.renderCSV()

	case FormatLog:
		lines := make([]string, 0, r.Queue.Len())
		for _, e := range r.Queue.Entries() {
			if !e.Resolved() {
				continue
			}
			if r.Settings.Ordering != "" {
				lines = append(lines, fmt.Sprintf("%s (%s)", e.Title(), e.Property(r.Settings.Ordering)))
			} else {
				lines = append(lines, e.Title())
			}
		}
		return strings.Join(lines, "\n")

	case FormatArray:
		return strings.Join(r.URIs(), "\n")

	case FormatQueue:
		return r.renderQueue()

	default:
		return strings.TrimRight(strings.Join(r.URIs(), "\n"), " \t\n")
	}
}

// renderCSV writes a sep=, header then one RFC 4180 row per resolved entry:
// URI, title, artists, album, disc number, track number, duration in
// milliseconds, and two always-empty columns for added-by and added-at.
func (r *Result) renderCSV() string {
	var sb strings.Builder
	sb.WriteString("sep=,\n")

	w := csv.NewWriter(&sb)
	for _, e := range r.Queue.Entries() {
		if !e.Resolved() {
			continue
		}
		row := []string{e.URI(), e.Property("title"), e.Property("artist"), e.Property("album"), "", "", "", "", ""}
		if t, ok := e.(*playlist.Track); ok && t.Response() != nil {
			resp := t.Response()
			row[2] = strings.Join(t.Artists(), ", ")
			row[3] = t.AlbumName()
			if resp.DiscNumber > 0 {
				row[4] = strconv.Itoa(resp.DiscNumber)
			}
			if resp.TrackNumber > 0 {
				row[5] = strconv.Itoa(resp.TrackNumber)
			}
			if resp.DurationMS > 0 {
				row[6] = strconv.Itoa(resp.DurationMS)
			}
		}
		_ = w.Write(row)
	}
	w.Flush()
	return sb.String()
}

// queueEntry is the programmatic rendering of one resolved entry.
type queueEntry struct {
	URI        string `json:"uri"`
	Title      string `json:"title"`
	Artist     string `json:"artist,omitempty"`
	Album      string `json:"album,omitempty"`
	Popularity int    `json:"popularity"`
}

func (r *Result) renderQueue() string {
	entries := r.Queue.Entries()
	out := make([]queueEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, queueEntry{
			URI:        e.URI(),
			Title:      e.Title(),
			Artist:     e.Property("artist"),
			Album:      e.Property("album"),
			Popularity: e.Popularity(),
		})
	}
	s, err := shared.MarshalJSON(out, true)
	if err != nil {
		return ""
	}
	return string(s)
}
