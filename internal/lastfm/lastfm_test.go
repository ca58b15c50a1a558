package lastfm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mixdown/internal/shared"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Opts{
		APIKey:     "key",
		BaseURL:    srv.URL,
		Throttle:   time.Millisecond,
		HTTPClient: srv.Client(),
	})
}

func TestTrackInfo(t *testing.T) {
	t.Run("parses string playcounts", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("method") != "track.getInfo" {
				t.Errorf("unexpected method param %q", q.Get("method"))
			}
			if q.Get("username") != "listener" {
				t.Errorf("expected username to be forwarded, got %q", q.Get("username"))
			}
			fmt.Fprint(w, `{"track":{"playcount":"54321","userplaycount":"17"}}`)
		})

		info, err := client.TrackInfo(context.Background(), "The xx", "Test Me", "listener")
		if err != nil {
			t.Fatalf("TrackInfo failed: %v", err)
		}
		if info.GlobalPlays != 54321 {
			t.Errorf("global plays = %d, want 54321", info.GlobalPlays)
		}
		if info.UserPlays != 17 {
			t.Errorf("user plays = %d, want 17", info.UserPlays)
		}
	})

	t.Run("api error maps to ErrNotFound", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":6,"message":"Track not found"}`)
		})

		_, err := client.TrackInfo(context.Background(), "Nobody", "Nothing", "")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing api key fails fast", func(t *testing.T) {
		client := New(Opts{})
		_, err := client.TrackInfo(context.Background(), "a", "t", "")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
