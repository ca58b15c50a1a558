// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// NormalizeTrackKey builds a case- and whitespace-insensitive comparison key
// from a track title and artist. Used for loose duplicate detection.
func NormalizeTrackKey(title, artist string) string {
	return fmt.Sprintf("%s|%s", collapse(title), collapse(artist))
}

// NormalizeQuery collapses whitespace and lowercases free text so search
// queries and candidate names compare on equal footing.
func NormalizeQuery(s string) string {
	return collapse(s)
}

func collapse(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// FormatDuration renders a millisecond duration as m:ss.
func FormatDuration(ms int) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// MarshalJSON marshals v to JSON, optionally indented.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
