// package parser turns directive-language text into an unresolved collection
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"mixdown/internal/playlist"
)

// Settings are the global knobs a script can set. They are written once
// during parsing and only read afterwards.
type Settings struct {
	// Ordering names the property to sort by ("popularity", "lastfm",
	// "artist", ...), empty for input order.
	Ordering string
	// LastfmUser personalizes Last.fm ordering when set.
	LastfmUser string
	// Grouping names the property to group adjacent, empty for none.
	Grouping string
	// Alternating names the property to round-robin by, empty for none.
	Alternating string
	// Unique controls deduplication, on unless a duplicates directive ran.
	Unique bool
	// Reverse flips the final order; it wins over Shuffle when both are set.
	Reverse bool
	// Shuffle randomizes the final order.
	Shuffle bool
	// CSV forces CSV output regardless of the requested format.
	CSV bool
}

// Collection is the parse product: global settings plus the ordered queue of
// unresolved entries.
type Collection struct {
	Settings Settings
	Queue    *playlist.Queue
}

// Parser builds entries against a fixed resolver.
type Parser struct {
	res *playlist.Resolver
}

// New creates a parser whose entries resolve through res.
func New(res *playlist.Resolver) *Parser {
	return &Parser{res: res}
}

var (
	orderRe     = regexp.MustCompile(`(?i)^#(?:sort|order)\s+by\s+(\S+)(?:\s+(\S+))?\s*$`)
	groupRe     = regexp.MustCompile(`(?i)^#group\s+by\s+(\S+)\s*$`)
	alternateRe = regexp.MustCompile(`(?i)^#alternate\s+by\s+(\S+)\s*$`)
	dupRe       = regexp.MustCompile(`(?i)^#(?:dup|duplicates|nonunique|nondistinct|dedup)\s*$`)
	uniqueRe    = regexp.MustCompile(`(?i)^#(?:unique|distinct)\s*$`)
	reverseRe   = regexp.MustCompile(`(?i)^#reverse\s*$`)
	shuffleRe   = regexp.MustCompile(`(?i)^#shuffle\s*$`)
	csvRe       = regexp.MustCompile(`(?i)^#(?:csv|cvs)\s*$`)
	extm3uRe    = regexp.MustCompile(`(?i)^#extm3u\s*$`)
	extinfRe    = regexp.MustCompile(`(?i)^#extinf:\s*-?\d*\s*,\s*(.+?)\s*$`)
	sepRe       = regexp.MustCompile(`(?i)^sep=.\s*$`)

	albumRe    = regexp.MustCompile(`(?i)^#album(id)?(\d*)\s+(.+?)\s*$`)
	artistRe   = regexp.MustCompile(`(?i)^#artist(\d*)\s+(.+?)\s*$`)
	topRe      = regexp.MustCompile(`(?i)^#top(\d*)\s+(.+?)\s*$`)
	similarRe  = regexp.MustCompile(`(?i)^#similar(\d*)\s+(.+?)\s*$`)
	playlistRe = regexp.MustCompile(`(?i)^#playlist(\d*)\s+(.+?)\s*$`)

	uriRe   = regexp.MustCompile(`(?i)^(?:(\d+)\s+)?spotify:(track|album|artist|playlist):([0-9A-Za-z]+)\s*$`)
	linkRe  = regexp.MustCompile(`(?i)^(?:(\d+)\s+)?https?://[^/\s]*spotify\.com/(?:[^/\s]+/)*?(track|album|artist|playlist)/([0-9A-Za-z]+)\S*\s*$`)
	urlRe   = regexp.MustCompile(`(?i)^(?:(\d+)\s+)?(https?://\S+)\s*$`)
	ownerRe = regexp.MustCompile(`^(\S+)/(\S+)$`)
)

// Parse consumes directive text line by line in order. Settings directives
// mutate the collection settings, everything else appends an entry; a line no
// pattern claims becomes a free-text track search, never an error.
func (p *Parser) Parse(text string) *Collection {
	col := &Collection{
		Settings: Settings{Unique: true},
		Queue:    playlist.NewQueue(),
	}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if p.parseLine(col, line, lines, &i) {
			continue
		}
		col.Queue.Push(playlist.NewTrack(p.res, line))
	}
	return col
}

// parseLine applies the first matching directive, reporting whether the line
// was claimed. i advances when a directive consumes a continuation line.
func (p *Parser) parseLine(col *Collection, line string, lines []string, i *int) bool {
	switch {
	case strings.HasPrefix(line, "##"), extm3uRe.MatchString(line), sepRe.MatchString(line):
		return true

	case extinfRe.MatchString(line):
		m := extinfRe.FindStringSubmatch(line)
		col.Queue.Push(playlist.NewTrack(p.res, m[1]))
		// The following media-path line belongs to this entry and is
		// discarded.
		if *i+1 < len(lines) {
			next := strings.TrimSpace(lines[*i+1])
			if next != "" && !strings.HasPrefix(next, "#") {
				*i++
			}
		}
		return true

	case orderRe.MatchString(line):
		m := orderRe.FindStringSubmatch(line)
		col.Settings.Ordering = strings.ToLower(m[1])
		col.Settings.LastfmUser = m[2]
		return true

	case groupRe.MatchString(line):
		col.Settings.Grouping = strings.ToLower(groupRe.FindStringSubmatch(line)[1])
		return true

	case alternateRe.MatchString(line):
		col.Settings.Alternating = strings.ToLower(alternateRe.FindStringSubmatch(line)[1])
		return true

	case dupRe.MatchString(line):
		col.Settings.Unique = false
		return true

	case uniqueRe.MatchString(line):
		col.Settings.Unique = true
		return true

	case reverseRe.MatchString(line):
		col.Settings.Reverse = true
		return true

	case shuffleRe.MatchString(line):
		col.Settings.Shuffle = true
		return true

	case csvRe.MatchString(line):
		col.Settings.CSV = true
		return true

	case albumRe.MatchString(line):
		m := albumRe.FindStringSubmatch(line)
		fetchTracks := m[1] == ""
		col.Queue.Push(playlist.NewAlbum(p.res, m[3], fetchTracks, atoi(m[2])))
		return true

	case artistRe.MatchString(line):
		m := artistRe.FindStringSubmatch(line)
		col.Queue.Push(playlist.NewArtist(p.res, m[2], atoi(m[1])))
		return true

	case topRe.MatchString(line):
		m := topRe.FindStringSubmatch(line)
		col.Queue.Push(playlist.NewTop(p.res, m[2], atoi(m[1])))
		return true

	case similarRe.MatchString(line):
		m := similarRe.FindStringSubmatch(line)
		col.Queue.Push(playlist.NewSimilar(p.res, m[2], atoi(m[1])))
		return true

	case playlistRe.MatchString(line):
		m := playlistRe.FindStringSubmatch(line)
		limit := atoi(m[1])
		if pair := ownerRe.FindStringSubmatch(m[2]); pair != nil {
			col.Queue.Push(playlist.NewPlaylistID(p.res, pair[2], limit))
		} else {
			col.Queue.Push(playlist.NewPlaylist(p.res, m[2], limit))
		}
		return true

	case uriRe.MatchString(line):
		m := uriRe.FindStringSubmatch(line)
		p.pushKnownID(col, m[2], m[3], atoi(m[1]))
		return true

	case linkRe.MatchString(line):
		m := linkRe.FindStringSubmatch(line)
		p.pushKnownID(col, m[2], m[3], atoi(m[1]))
		return true

	case urlRe.MatchString(line):
		m := urlRe.FindStringSubmatch(line)
		col.Queue.Push(playlist.NewScrape(m[2], atoi(m[1])))
		return true
	}
	return false
}

// pushKnownID appends a typed entry seeded with a catalog ID. The leading
// integer acts as a limit where one applies; tracks ignore it.
func (p *Parser) pushKnownID(col *Collection, kind, id string, limit int) {
	switch strings.ToLower(kind) {
	case "track":
		col.Queue.Push(playlist.NewTrackID(p.res, id))
	case "album":
		col.Queue.Push(playlist.NewAlbumID(p.res, id, true, limit))
	case "artist":
		col.Queue.Push(playlist.NewArtistID(p.res, id, limit))
	case "playlist":
		col.Queue.Push(playlist.NewPlaylistID(p.res, id, limit))
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
